// Package budget persists the sparse budget table keyed by
// (employee, year, two-digit month).
package budget

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/core"
)

// Store is the budget lookup contract used by the report engines. Budgets are
// expected to be sparse: an absent entry is zero, never an error.
//
// The department and all-budgets paths are full scans; acceptable for stores
// of hundreds to low thousands of entries.
type Store interface {
	// GetBudget returns the budget for one employee-month, or zero if absent.
	GetBudget(ctx context.Context, employeeID, month string, year int) (decimal.Decimal, error)

	// GetDepartmentBudget sums every entry matching department, month, and year.
	GetDepartmentBudget(ctx context.Context, department, month string, year int) (decimal.Decimal, error)

	// GetAllBudgets returns all entries for one month keyed by composite key.
	GetAllBudgets(ctx context.Context, month string, year int) (map[string]core.BudgetEntry, error)

	// SetBudget upserts one entry by its composite key.
	SetBudget(ctx context.Context, entry core.BudgetEntry) error
}

// Key builds the composite store key for an entry.
func Key(employeeID, month string, year int) string {
	return fmt.Sprintf("%s_%d_%s", employeeID, year, month)
}

// EntryKey builds the composite store key from an entry.
func EntryKey(e core.BudgetEntry) string {
	return Key(e.EmployeeID, e.Month, e.Year)
}
