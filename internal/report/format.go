package report

import "github.com/sparklingTalent/Quickbook-account-automation/internal/core"

// Budget status labels derived from a row's variance sign.
const (
	StatusOverBudget  = "Over Budget"
	StatusUnderBudget = "Under Budget"
	StatusOnBudget    = "On Budget"
)

// StatusFor returns the budget status label for a variance amount.
func StatusFor(row core.VarianceRow) string {
	switch row.Variance.Sign() {
	case 1:
		return StatusOverBudget
	case -1:
		return StatusUnderBudget
	default:
		return StatusOnBudget
	}
}

// WithStatus returns a copy of rows with the Status column populated.
// The input slice is not modified.
func WithStatus(rows []core.VarianceRow) []core.VarianceRow {
	formatted := make([]core.VarianceRow, len(rows))
	for i, row := range rows {
		row.Status = StatusFor(row)
		formatted[i] = row
	}
	return formatted
}
