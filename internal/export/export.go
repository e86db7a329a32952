// Package export shapes report rows into tabular records for the CSV and
// spreadsheet boundaries. Column order is part of the contract and never
// depends on map iteration.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/core"
)

// VarianceHeader is the fixed column order for variance reports. The Status
// column is appended only when rows carry a status label.
func VarianceHeader(withStatus bool) []string {
	header := []string{"Employee ID", "Employee Name", "Department", "Budget", "Actual", "Variance", "Variance %"}
	if withStatus {
		header = append(header, "Status")
	}
	return header
}

// TrendHeader is the fixed column order for trend series.
func TrendHeader() []string {
	return []string{"Month", "Total Budget", "Total Actual", "Total Variance", "Variance %"}
}

// VarianceRecord renders one row in VarianceHeader order.
func VarianceRecord(row core.VarianceRow, withStatus bool) []string {
	record := []string{
		row.EmployeeID,
		row.EmployeeName,
		row.Department,
		row.Budget.StringFixed(2),
		row.Actual.StringFixed(2),
		row.Variance.StringFixed(2),
		row.VariancePercent.StringFixed(2),
	}
	if withStatus {
		record = append(record, row.Status)
	}
	return record
}

// TrendRecord renders one row in TrendHeader order.
func TrendRecord(row core.TrendRow) []string {
	return []string{
		row.Month,
		row.TotalBudget.StringFixed(2),
		row.TotalActual.StringFixed(2),
		row.TotalVariance.StringFixed(2),
		row.VariancePercent.StringFixed(2),
	}
}

// HasStatus reports whether any row carries a status label.
func HasStatus(rows []core.VarianceRow) bool {
	for _, row := range rows {
		if row.Status != "" {
			return true
		}
	}
	return false
}

// WriteVarianceCSV writes rows to w as CSV, header first.
func WriteVarianceCSV(w io.Writer, rows []core.VarianceRow) error {
	withStatus := HasStatus(rows)
	cw := csv.NewWriter(w)
	if err := cw.Write(VarianceHeader(withStatus)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(VarianceRecord(row, withStatus)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTrendCSV writes a trend series to w as CSV, header first.
func WriteTrendCSV(w io.Writer, rows []core.TrendRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TrendHeader()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(TrendRecord(row)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// VarianceValues renders rows as a cell grid for the spreadsheet API,
// header row first.
func VarianceValues(rows []core.VarianceRow) [][]interface{} {
	withStatus := HasStatus(rows)
	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, toCells(VarianceHeader(withStatus)))
	for _, row := range rows {
		values = append(values, toCells(VarianceRecord(row, withStatus)))
	}
	return values
}

// TrendValues renders a trend series as a cell grid, header row first.
func TrendValues(rows []core.TrendRow) [][]interface{} {
	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, toCells(TrendHeader()))
	for _, row := range rows {
		values = append(values, toCells(TrendRecord(row)))
	}
	return values
}

func toCells(record []string) []interface{} {
	cells := make([]interface{}, len(record))
	for i, field := range record {
		cells[i] = field
	}
	return cells
}

// CSVFileName builds the conventional report file name for one month.
func CSVFileName(year, month int) string {
	return fmt.Sprintf("variance_report_%d_%s.csv", year, core.MonthString(month))
}
