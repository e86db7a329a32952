package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	ItemSalary ItemKind = "Salary"
	ItemHourly ItemKind = "Hourly"
	ItemOther  ItemKind = "Other"
)

// DepartmentNA is the sentinel department for employees without one.
const DepartmentNA = "N/A"

// DepartmentTotalPrefix marks department-aggregate rows in the Employee Name column.
const DepartmentTotalPrefix = "DEPARTMENT TOTAL: "

type (
	ItemKind string

	// Employee as reported by the payroll source.
	Employee struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		GivenName   string `json:"given_name,omitempty"`
		FamilyName  string `json:"family_name,omitempty"`
		Department  string `json:"department,omitempty"`
		Active      bool   `json:"active"`
	}

	// PayrollLineItem is one payroll line as produced by the payroll source.
	// It is never mutated after creation.
	PayrollLineItem struct {
		ID           string
		Name         string
		Kind         ItemKind
		Amount       decimal.Decimal
		EmployeeID   string
		EmployeeName string
		Department   string // empty when the source reports none
		Date         time.Time
	}

	// EmployeeMonthlyTotal accumulates one employee's payroll for a single
	// calendar month. Items are retained for traceability.
	EmployeeMonthlyTotal struct {
		EmployeeID   string
		EmployeeName string
		Department   string
		Total        decimal.Decimal
		Items        []PayrollLineItem
	}

	// BudgetEntry is one persisted budget record, keyed by
	// (employee, year, two-digit month).
	BudgetEntry struct {
		EmployeeID   string          `json:"employee_id"`
		EmployeeName string          `json:"employee_name"`
		Department   string          `json:"department"`
		Month        string          `json:"month"`
		Year         int             `json:"year"`
		Amount       decimal.Decimal `json:"amount"`
	}

	// VarianceRow is one row of a monthly variance report. Department-aggregate
	// rows carry an empty EmployeeID and a "DEPARTMENT TOTAL: " name prefix.
	VarianceRow struct {
		EmployeeID      string          `json:"Employee ID"`
		EmployeeName    string          `json:"Employee Name"`
		Department      string          `json:"Department"`
		Budget          decimal.Decimal `json:"Budget"`
		Actual          decimal.Decimal `json:"Actual"`
		Variance        decimal.Decimal `json:"Variance"`
		VariancePercent decimal.Decimal `json:"Variance %"`
		Status          string          `json:"Status,omitempty"`
	}

	// TrendRow is one organization-wide monthly summary in a trend series.
	TrendRow struct {
		Month           string          `json:"Month"` // "YYYY-MM"
		TotalBudget     decimal.Decimal `json:"Total Budget"`
		TotalActual     decimal.Decimal `json:"Total Actual"`
		TotalVariance   decimal.Decimal `json:"Total Variance"`
		VariancePercent decimal.Decimal `json:"Variance %"`
	}
)

// IsDepartmentTotal reports whether the row is a department-aggregate row.
func (r VarianceRow) IsDepartmentTotal() bool {
	return r.EmployeeID == "" && strings.HasPrefix(r.EmployeeName, DepartmentTotalPrefix)
}

// NormalizeDepartment maps an absent department to the "N/A" sentinel.
func NormalizeDepartment(dept string) string {
	if strings.TrimSpace(dept) == "" {
		return DepartmentNA
	}
	return dept
}

// VariancePercent computes variance/budget*100 with the zero-budget
// suppression rule: a non-positive budget yields 0, never a division error.
func VariancePercent(variance, budget decimal.Decimal) decimal.Decimal {
	if !budget.IsPositive() {
		return decimal.Zero
	}
	return variance.Div(budget).Mul(decimal.NewFromInt(100))
}
