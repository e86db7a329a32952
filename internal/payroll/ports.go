// Package payroll defines the payroll source contract and the monthly
// aggregation engine that reduces line items into per-employee totals.
package payroll

import (
	"context"
	"time"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/core"
)

// Source produces payroll data for a date range. Implementations must
// tolerate partial data and return whatever subset they can; callers do not
// distinguish "no data" from "some categories unavailable".
type Source interface {
	// GetPayrollItems returns every payroll line item dated within
	// [start, end] inclusive.
	GetPayrollItems(ctx context.Context, start, end time.Time) ([]core.PayrollLineItem, error)

	// GetEmployees returns the employee roster known to the source.
	GetEmployees(ctx context.Context) ([]core.Employee, error)
}
