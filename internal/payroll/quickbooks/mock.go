package quickbooks

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/core"
)

// MockClient is a deterministic payroll source for development and tests.
// Amounts depend only on (employee, year, month), so repeated calls for the
// same month produce identical data.
type MockClient struct {
	employees    []core.Employee
	baseSalaries map[string]decimal.Decimal
}

// NewMockClient seeds the sample roster of an architecture and engineering firm.
func NewMockClient() *MockClient {
	return &MockClient{
		employees: []core.Employee{
			{ID: "emp_001", DisplayName: "John Smith", GivenName: "John", FamilyName: "Smith", Department: "Engineering", Active: true},
			{ID: "emp_002", DisplayName: "Sarah Johnson", GivenName: "Sarah", FamilyName: "Johnson", Department: "Engineering", Active: true},
			{ID: "emp_003", DisplayName: "Michael Chen", GivenName: "Michael", FamilyName: "Chen", Department: "Architecture", Active: true},
			{ID: "emp_004", DisplayName: "Emily Rodriguez", GivenName: "Emily", FamilyName: "Rodriguez", Department: "Architecture", Active: true},
			{ID: "emp_005", DisplayName: "David Kim", GivenName: "David", FamilyName: "Kim", Department: "Engineering", Active: true},
			{ID: "emp_006", DisplayName: "Lisa Anderson", GivenName: "Lisa", FamilyName: "Anderson", Department: "Architecture", Active: true},
		},
		baseSalaries: map[string]decimal.Decimal{
			"emp_001": decimal.NewFromInt(12000), // Senior Engineer
			"emp_002": decimal.NewFromInt(10000), // Engineer
			"emp_003": decimal.NewFromInt(13000), // Senior Architect
			"emp_004": decimal.NewFromInt(11000), // Architect
			"emp_005": decimal.NewFromInt(9500),  // Junior Engineer
			"emp_006": decimal.NewFromInt(10500), // Architect
		},
	}
}

// GetEmployees returns a copy of the mock roster.
func (c *MockClient) GetEmployees(_ context.Context) ([]core.Employee, error) {
	out := make([]core.Employee, len(c.employees))
	copy(out, c.employees)
	return out, nil
}

// varianceFactor returns the deterministic salary multiplier for an employee
// in a given month. Seeded from the (employee, year, month) triple so results
// are stable across processes.
func (c *MockClient) varianceFactor(employeeID string, year, month int) float64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s_%d_%d", employeeID, year, month)
	r := rand.New(rand.NewSource(int64(h.Sum64() % 10000)))

	var lo, hi float64
	switch {
	case month == 11 || month == 12: // Q4 bonus season
		lo, hi = 1.05, 1.15
	case month >= 6 && month <= 8: // summer overtime
		lo, hi = 1.02, 1.12
	case month == 1 || month == 2: // Q1 slowdown
		lo, hi = 0.95, 1.05
	default:
		lo, hi = 0.97, 1.08
	}
	factor := lo + r.Float64()*(hi-lo)

	// Employee-specific spread: seniors are steadier, juniors swing more.
	switch employeeID {
	case "emp_001":
		factor = 0.98 + r.Float64()*(1.05-0.98)
	case "emp_005":
		factor = 0.95 + r.Float64()*(1.12-0.95)
	}

	return factor
}

// GetPayrollItems generates one salary item per employee per month within
// [start, end], dated the 15th (clamped to end for partial months).
func (c *MockClient) GetPayrollItems(_ context.Context, start, end time.Time) ([]core.PayrollLineItem, error) {
	var items []core.PayrollLineItem

	current := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !current.After(end) {
		year, month := current.Year(), int(current.Month())
		for _, emp := range c.employees {
			base, ok := c.baseSalaries[emp.ID]
			if !ok {
				base = decimal.NewFromInt(10000)
			}
			factor := decimal.NewFromFloat(c.varianceFactor(emp.ID, year, month))
			amount := base.Mul(factor).Round(2)

			payDate := time.Date(year, current.Month(), 15, 0, 0, 0, 0, time.UTC)
			if payDate.After(end) {
				payDate = end
			}

			items = append(items, core.PayrollLineItem{
				ID:           fmt.Sprintf("payroll_%s_%d%02d", emp.ID, year, month),
				Name:         "Monthly Payroll - " + emp.DisplayName,
				Kind:         core.ItemSalary,
				Amount:       amount,
				EmployeeID:   emp.ID,
				EmployeeName: emp.DisplayName,
				Department:   emp.Department,
				Date:         payDate,
			})
		}
		current = current.AddDate(0, 1, 0)
	}

	return items, nil
}
