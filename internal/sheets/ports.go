// Package sheets defines the outbound spreadsheet port and the sheet naming
// conventions shared by the sync service and its adapters.
package sheets

import (
	"context"
	"fmt"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/core"
)

// RowWriter replaces the full contents of a named sheet with a cell grid,
// creating the sheet when it does not exist.
type RowWriter interface {
	WriteSheet(ctx context.Context, sheetName string, values [][]interface{}) error
}

// Default sheet names for the sync targets.
const (
	LatestSheetName = "LatestReport"
)

// VarianceSheetName names the archival sheet for one month's report.
func VarianceSheetName(year, month int) string {
	return fmt.Sprintf("VarianceReport_%d_%s", year, core.MonthString(month))
}

// CurrentMonthSheetName names the rolling current-month sheet.
func CurrentMonthSheetName(year, month int) string {
	return fmt.Sprintf("CurrentMonth_%d_%s", year, core.MonthString(month))
}

// TrendsSheetName names the historical-trends sheet for a window size.
func TrendsSheetName(months int) string {
	return fmt.Sprintf("HistoricalTrends_%dMonths", months)
}
