package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/budget"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/core"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/payroll"
)

// monthSource serves canned payroll items keyed by the requested month.
type monthSource struct {
	items  map[string][]core.PayrollLineItem // keyed by "YYYY-MM"
	errs   map[string]error
	calls  int
}

func (s *monthSource) GetPayrollItems(_ context.Context, start, _ time.Time) ([]core.PayrollLineItem, error) {
	s.calls++
	key := start.Format("2006-01")
	if err := s.errs[key]; err != nil {
		return nil, err
	}
	return s.items[key], nil
}

func (s *monthSource) GetEmployees(context.Context) ([]core.Employee, error) {
	return nil, nil
}

// memStore is an in-memory budget.Store for tests.
type memStore struct {
	entries map[string]core.BudgetEntry
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string]core.BudgetEntry)}
}

func (m *memStore) GetBudget(_ context.Context, employeeID, month string, year int) (decimal.Decimal, error) {
	if e, ok := m.entries[budget.Key(employeeID, month, year)]; ok {
		return e.Amount, nil
	}
	return decimal.Zero, nil
}

func (m *memStore) GetDepartmentBudget(_ context.Context, department, month string, year int) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range m.entries {
		if e.Department == department && e.Month == month && e.Year == year {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func (m *memStore) GetAllBudgets(_ context.Context, month string, year int) (map[string]core.BudgetEntry, error) {
	out := make(map[string]core.BudgetEntry)
	for key, e := range m.entries {
		if e.Month == month && e.Year == year {
			out[key] = e
		}
	}
	return out, nil
}

func (m *memStore) SetBudget(_ context.Context, entry core.BudgetEntry) error {
	m.entries[budget.EntryKey(entry)] = entry
	return nil
}

func budgetEntry(emp, name, dept, month string, year int, amount int64) core.BudgetEntry {
	return core.BudgetEntry{
		EmployeeID:   emp,
		EmployeeName: name,
		Department:   dept,
		Month:        month,
		Year:         year,
		Amount:       decimal.NewFromInt(amount),
	}
}

func payItem(emp, name, dept string, year, month int, amount int64) core.PayrollLineItem {
	return core.PayrollLineItem{
		ID:           emp + "-itm",
		Name:         "Payroll - " + name,
		Kind:         core.ItemSalary,
		Amount:       decimal.NewFromInt(amount),
		EmployeeID:   emp,
		EmployeeName: name,
		Department:   dept,
		Date:         time.Date(year, time.Month(month), 15, 0, 0, 0, 0, time.UTC),
	}
}

func newTestService(src payroll.Source, store budget.Store, opts ...Option) *Service {
	return NewService(payroll.NewAggregator(src, nil), store, nil, opts...)
}

func TestGenerateVarianceSingleEmployee(t *testing.T) {
	src := &monthSource{items: map[string][]core.PayrollLineItem{
		"2024-01": {payItem("emp_001", "John Smith", "Engineering", 2024, 1, 12000)},
	}}
	store := newMemStore()
	require.NoError(t, store.SetBudget(context.Background(),
		budgetEntry("emp_001", "John Smith", "Engineering", "01", 2024, 10000)))

	svc := newTestService(src, store)
	rows, err := svc.GenerateVariance(context.Background(), 2024, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	individual := rows[0]
	assert.Equal(t, "emp_001", individual.EmployeeID)
	assert.True(t, individual.Budget.Equal(decimal.NewFromInt(10000)))
	assert.True(t, individual.Actual.Equal(decimal.NewFromInt(12000)))
	assert.True(t, individual.Variance.Equal(decimal.NewFromInt(2000)))
	assert.True(t, individual.VariancePercent.Equal(decimal.NewFromInt(20)))

	dept := rows[1]
	assert.True(t, dept.IsDepartmentTotal())
	assert.Equal(t, "DEPARTMENT TOTAL: Engineering", dept.EmployeeName)
	assert.Equal(t, "Engineering", dept.Department)
	assert.True(t, dept.Budget.Equal(individual.Budget))
	assert.True(t, dept.Actual.Equal(individual.Actual))
	assert.True(t, dept.Variance.Equal(individual.Variance))
	assert.True(t, dept.VariancePercent.Equal(individual.VariancePercent))
}

func TestGenerateVarianceRowOrdering(t *testing.T) {
	src := &monthSource{items: map[string][]core.PayrollLineItem{
		"2024-03": {
			payItem("emp_002", "Sarah Johnson", "Marketing", 2024, 3, 8500),
			payItem("emp_001", "John Smith", "Engineering", 2024, 3, 12000),
			payItem("emp_003", "Mike Davis", "Marketing", 2024, 3, 7200),
		},
	}}
	svc := newTestService(src, newMemStore())

	rows, err := svc.GenerateVariance(context.Background(), 2024, 3)
	require.NoError(t, err)
	require.Len(t, rows, 5)

	var ids, deptNames []string
	for _, row := range rows {
		if row.IsDepartmentTotal() {
			deptNames = append(deptNames, row.Department)
		} else {
			ids = append(ids, row.EmployeeID)
		}
	}
	assert.Equal(t, []string{"emp_002", "emp_001", "emp_003"}, ids,
		"individual rows follow first appearance in the payroll stream")
	assert.Equal(t, []string{"Marketing", "Engineering"}, deptNames,
		"department rows follow first-encountered order")
	assert.False(t, rows[0].IsDepartmentTotal())
	assert.True(t, rows[3].IsDepartmentTotal(), "all individual rows precede department rows")
}

func TestGenerateVarianceZeroBudgetSuppression(t *testing.T) {
	src := &monthSource{items: map[string][]core.PayrollLineItem{
		"2024-01": {payItem("emp_009", "Ada Byron", "Research", 2024, 1, 5000)},
	}}
	svc := newTestService(src, newMemStore())

	rows, err := svc.GenerateVariance(context.Background(), 2024, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	for _, row := range rows {
		assert.True(t, row.Budget.IsZero())
		assert.True(t, row.Variance.Equal(decimal.NewFromInt(5000)))
		assert.True(t, row.VariancePercent.IsZero(),
			"zero budget must suppress the percent, not divide")
	}
}

func TestGenerateVarianceDepartmentBudgetIncludesInactive(t *testing.T) {
	// emp_002 is budgeted in Engineering but has no payroll this month.
	src := &monthSource{items: map[string][]core.PayrollLineItem{
		"2024-01": {payItem("emp_001", "John Smith", "Engineering", 2024, 1, 12000)},
	}}
	store := newMemStore()
	ctx := context.Background()
	require.NoError(t, store.SetBudget(ctx, budgetEntry("emp_001", "John Smith", "Engineering", "01", 2024, 10000)))
	require.NoError(t, store.SetBudget(ctx, budgetEntry("emp_002", "Sarah Johnson", "Engineering", "01", 2024, 9000)))

	svc := newTestService(src, store)
	rows, err := svc.GenerateVariance(ctx, 2024, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2, "budgeted-but-inactive employee gets no individual row")

	dept := rows[1]
	require.True(t, dept.IsDepartmentTotal())
	assert.True(t, dept.Budget.Equal(decimal.NewFromInt(19000)),
		"department budget is the full provisioned sum, not the sum of individual rows")
	assert.True(t, dept.Actual.Equal(decimal.NewFromInt(12000)))
	assert.True(t, dept.Variance.Equal(decimal.NewFromInt(-7000)))
}

func TestGenerateVarianceBudgetedDepartmentWithoutPayroll(t *testing.T) {
	// The only budget entry belongs to a department with no payroll activity.
	src := &monthSource{items: map[string][]core.PayrollLineItem{
		"2024-01": {payItem("emp_001", "John Smith", "Engineering", 2024, 1, 12000)},
	}}
	store := newMemStore()
	ctx := context.Background()
	require.NoError(t, store.SetBudget(ctx, budgetEntry("emp_009", "Grace Hopper", "Compliance", "01", 2024, 8000)))

	svc := newTestService(src, store)
	rows, err := svc.GenerateVariance(ctx, 2024, 1)
	require.NoError(t, err)

	for _, row := range rows {
		assert.NotEqual(t, "Compliance", row.Department,
			"department derivation is payroll-driven, not budget-driven")
		assert.NotEqual(t, "emp_009", row.EmployeeID)
	}
}

func TestGenerateVarianceDepartmentActualMatchesIndividuals(t *testing.T) {
	src := &monthSource{items: map[string][]core.PayrollLineItem{
		"2024-02": {
			payItem("emp_001", "John Smith", "Engineering", 2024, 2, 6000),
			payItem("emp_004", "Emily Chen", "Engineering", 2024, 2, 9800),
			payItem("emp_002", "Sarah Johnson", "Marketing", 2024, 2, 8500),
		},
	}}
	svc := newTestService(src, newMemStore())

	rows, err := svc.GenerateVariance(context.Background(), 2024, 2)
	require.NoError(t, err)

	sums := make(map[string]decimal.Decimal)
	for _, row := range rows {
		if !row.IsDepartmentTotal() {
			sums[row.Department] = sums[row.Department].Add(row.Actual)
		}
	}
	for _, row := range rows {
		if row.IsDepartmentTotal() {
			assert.True(t, row.Actual.Equal(sums[row.Department]),
				"department actual must equal the sum of its individual rows")
		}
	}
}

func TestGenerateVarianceNormalizesMissingDepartment(t *testing.T) {
	src := &monthSource{items: map[string][]core.PayrollLineItem{
		"2024-01": {payItem("emp_007", "No Dept", "", 2024, 1, 4000)},
	}}
	svc := newTestService(src, newMemStore())

	rows, err := svc.GenerateVariance(context.Background(), 2024, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, core.DepartmentNA, rows[0].Department)
	assert.Equal(t, "DEPARTMENT TOTAL: N/A", rows[1].EmployeeName)
}

func TestGenerateVarianceInvalidMonth(t *testing.T) {
	svc := newTestService(&monthSource{}, newMemStore())

	_, err := svc.GenerateVariance(context.Background(), 2024, 0)
	assert.ErrorIs(t, err, core.ErrInvalidPeriod)

	_, err = svc.GenerateVariance(context.Background(), 2024, 13)
	assert.ErrorIs(t, err, core.ErrInvalidPeriod)
}

func TestGenerateVarianceUpstreamFailure(t *testing.T) {
	src := &monthSource{errs: map[string]error{"2024-01": errors.New("dial tcp: connection refused")}}
	svc := newTestService(src, newMemStore())

	_, err := svc.GenerateVariance(context.Background(), 2024, 1)
	assert.ErrorIs(t, err, core.ErrUpstreamUnavailable)
}

func TestVarianceByDepartment(t *testing.T) {
	src := &monthSource{items: map[string][]core.PayrollLineItem{
		"2024-01": {
			payItem("emp_001", "John Smith", "Engineering", 2024, 1, 6000),
			payItem("emp_002", "Sarah Johnson", "Marketing", 2024, 1, 8500),
			payItem("emp_004", "Emily Chen", "Engineering", 2024, 1, 9800),
		},
	}}
	svc := newTestService(src, newMemStore())

	rows, err := svc.GenerateVariance(context.Background(), 2024, 1)
	require.NoError(t, err)

	grouped := VarianceByDepartment(rows)
	require.Len(t, grouped, 2)
	assert.Len(t, grouped["Engineering"], 2)
	assert.Len(t, grouped["Marketing"], 1)
	for _, deptRows := range grouped {
		for _, row := range deptRows {
			assert.False(t, row.IsDepartmentTotal())
		}
	}
}

func TestWithStatus(t *testing.T) {
	rows := []core.VarianceRow{
		{EmployeeID: "a", Variance: decimal.NewFromInt(100)},
		{EmployeeID: "b", Variance: decimal.NewFromInt(-50)},
		{EmployeeID: "c", Variance: decimal.Zero},
	}

	formatted := WithStatus(rows)
	assert.Equal(t, StatusOverBudget, formatted[0].Status)
	assert.Equal(t, StatusUnderBudget, formatted[1].Status)
	assert.Equal(t, StatusOnBudget, formatted[2].Status)
	assert.Empty(t, rows[0].Status, "input rows are left untouched")
}
