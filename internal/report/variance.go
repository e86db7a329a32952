package report

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/core"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/log"
)

// GenerateVariance produces the variance report for one calendar month:
// one row per employee with payroll activity, followed by one aggregate row
// per department observed among those employees.
//
// Department membership is derived from the month's payroll data, so a
// department with budget entries but no payroll activity produces no row.
// Department budgets come from the store's full department sum, which does
// include budgeted employees with no activity that month.
func (s *Service) GenerateVariance(ctx context.Context, year, month int) ([]core.VarianceRow, error) {
	if !core.ValidMonth(month) {
		return nil, fmt.Errorf("%w: month %d", core.ErrInvalidPeriod, month)
	}

	payroll, err := s.aggregator.MonthlyTotals(ctx, year, month)
	if err != nil {
		return nil, err
	}

	monthKey := core.MonthString(month)
	rows := make([]core.VarianceRow, 0, len(payroll.Order))

	type deptAccum struct {
		actual decimal.Decimal
	}
	deptTotals := make(map[string]*deptAccum)
	var deptOrder []string

	for _, employeeID := range payroll.Order {
		total := payroll.Totals[employeeID]

		budgetAmount, err := s.budgets.GetBudget(ctx, employeeID, monthKey, year)
		if err != nil {
			return nil, fmt.Errorf("budget lookup for %s: %w", employeeID, err)
		}

		variance := total.Total.Sub(budgetAmount)
		rows = append(rows, core.VarianceRow{
			EmployeeID:      employeeID,
			EmployeeName:    total.EmployeeName,
			Department:      core.NormalizeDepartment(total.Department),
			Budget:          budgetAmount.Round(2),
			Actual:          total.Total.Round(2),
			Variance:        variance.Round(2),
			VariancePercent: core.VariancePercent(variance, budgetAmount).Round(2),
		})

		dept := core.NormalizeDepartment(total.Department)
		accum, ok := deptTotals[dept]
		if !ok {
			accum = &deptAccum{}
			deptTotals[dept] = accum
			deptOrder = append(deptOrder, dept)
		}
		accum.actual = accum.actual.Add(total.Total)
	}

	for _, dept := range deptOrder {
		accum := deptTotals[dept]

		deptBudget, err := s.budgets.GetDepartmentBudget(ctx, dept, monthKey, year)
		if err != nil {
			return nil, fmt.Errorf("department budget lookup for %s: %w", dept, err)
		}

		variance := accum.actual.Sub(deptBudget)
		rows = append(rows, core.VarianceRow{
			EmployeeID:      "",
			EmployeeName:    core.DepartmentTotalPrefix + dept,
			Department:      dept,
			Budget:          deptBudget.Round(2),
			Actual:          accum.actual.Round(2),
			Variance:        variance.Round(2),
			VariancePercent: core.VariancePercent(variance, deptBudget).Round(2),
		})
	}

	s.logger.InfoContext(ctx, "Generated variance report",
		log.FieldOperation, log.OpVariance,
		log.FieldYear, year,
		log.FieldMonth, month,
		log.FieldRowCount, len(rows),
		"departments", len(deptOrder))

	return rows, nil
}

// VarianceByDepartment groups a variance report's individual rows by
// department, keyed by department name. Department-aggregate rows are
// excluded; callers wanting totals read them from the full report.
func VarianceByDepartment(rows []core.VarianceRow) map[string][]core.VarianceRow {
	grouped := make(map[string][]core.VarianceRow)
	for _, row := range rows {
		if row.IsDepartmentTotal() {
			continue
		}
		grouped[row.Department] = append(grouped[row.Department], row)
	}
	return grouped
}
