package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/core"
)

func TestGetTrendsCalendarRollover(t *testing.T) {
	src := &monthSource{items: map[string][]core.PayrollLineItem{
		"2023-11": {payItem("emp_001", "John Smith", "Engineering", 2023, 11, 6000)},
		"2023-12": {payItem("emp_001", "John Smith", "Engineering", 2023, 12, 6100)},
		"2024-01": {payItem("emp_001", "John Smith", "Engineering", 2024, 1, 6200)},
	}}
	svc := newTestService(src, newMemStore())

	rows, err := svc.GetTrends(context.Background(), 3, 2024, 1)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "2023-11", rows[0].Month)
	assert.Equal(t, "2023-12", rows[1].Month)
	assert.Equal(t, "2024-01", rows[2].Month)
}

func TestGetTrendsTotals(t *testing.T) {
	src := &monthSource{items: map[string][]core.PayrollLineItem{
		"2024-01": {
			payItem("emp_001", "John Smith", "Engineering", 2024, 1, 12000),
			payItem("emp_002", "Sarah Johnson", "Marketing", 2024, 1, 8000),
		},
	}}
	store := newMemStore()
	ctx := context.Background()
	require.NoError(t, store.SetBudget(ctx, budgetEntry("emp_001", "John Smith", "Engineering", "01", 2024, 10000)))
	// Budgeted but payroll-inactive; still counts toward the monthly total budget.
	require.NoError(t, store.SetBudget(ctx, budgetEntry("emp_003", "Mike Davis", "Sales", "01", 2024, 5000)))

	svc := newTestService(src, store)
	rows, err := svc.GetTrends(ctx, 1, 2024, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.True(t, row.TotalBudget.Equal(decimal.NewFromInt(15000)))
	assert.True(t, row.TotalActual.Equal(decimal.NewFromInt(20000)))
	assert.True(t, row.TotalVariance.Equal(decimal.NewFromInt(5000)))
	assert.True(t, row.VariancePercent.Equal(decimal.RequireFromString("33.33")))
}

func TestGetTrendsSkipsFailingMonths(t *testing.T) {
	src := &monthSource{
		items: map[string][]core.PayrollLineItem{
			"2024-01": {payItem("emp_001", "John Smith", "Engineering", 2024, 1, 6000)},
			"2024-03": {payItem("emp_001", "John Smith", "Engineering", 2024, 3, 6200)},
		},
		errs: map[string]error{"2024-02": errors.New("rate limited")},
	}
	svc := newTestService(src, newMemStore())

	rows, err := svc.GetTrends(context.Background(), 3, 2024, 3)
	require.NoError(t, err, "a failing month degrades the series, not the call")
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-01", rows[0].Month)
	assert.Equal(t, "2024-03", rows[1].Month)
}

func TestGetTrendsCacheReturnsStaleResult(t *testing.T) {
	src := &monthSource{items: map[string][]core.PayrollLineItem{
		"2024-01": {payItem("emp_001", "John Smith", "Engineering", 2024, 1, 6000)},
	}}
	store := newMemStore()
	svc := newTestService(src, store)
	ctx := context.Background()

	first, err := svc.GetTrends(ctx, 1, 2024, 1)
	require.NoError(t, err)
	require.True(t, first[0].TotalBudget.IsZero())

	require.NoError(t, store.SetBudget(ctx, budgetEntry("emp_001", "John Smith", "Engineering", "01", 2024, 9000)))

	second, err := svc.GetTrends(ctx, 1, 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, first, second, "within the TTL the cached series is returned verbatim")

	// A different window is a different cache key and sees the mutation.
	fresh, err := svc.GetTrends(ctx, 2, 2024, 1)
	require.NoError(t, err)
	last := fresh[len(fresh)-1]
	assert.True(t, last.TotalBudget.Equal(decimal.NewFromInt(9000)))
}

func TestGetTrendsCacheExpires(t *testing.T) {
	src := &monthSource{items: map[string][]core.PayrollLineItem{
		"2024-01": {payItem("emp_001", "John Smith", "Engineering", 2024, 1, 6000)},
	}}
	store := newMemStore()
	svc := newTestService(src, store, WithTrendCacheTTL(10*time.Millisecond))
	ctx := context.Background()

	first, err := svc.GetTrends(ctx, 1, 2024, 1)
	require.NoError(t, err)
	require.True(t, first[0].TotalBudget.IsZero())

	require.NoError(t, store.SetBudget(ctx, budgetEntry("emp_001", "John Smith", "Engineering", "01", 2024, 9000)))
	time.Sleep(25 * time.Millisecond)

	second, err := svc.GetTrends(ctx, 1, 2024, 1)
	require.NoError(t, err)
	assert.True(t, second[0].TotalBudget.Equal(decimal.NewFromInt(9000)),
		"after the TTL the series reflects the store mutation")
}

func TestGetTrendsDefaultsToCurrentMonth(t *testing.T) {
	src := &monthSource{items: map[string][]core.PayrollLineItem{
		"2024-06": {payItem("emp_001", "John Smith", "Engineering", 2024, 6, 6000)},
	}}
	clock := func() time.Time { return time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC) }
	svc := newTestService(src, newMemStore(), WithClock(clock))

	rows, err := svc.GetTrends(context.Background(), 1, 0, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-06", rows[0].Month)
}

func TestGetTrendsInvalidWindow(t *testing.T) {
	svc := newTestService(&monthSource{}, newMemStore())

	_, err := svc.GetTrends(context.Background(), 0, 2024, 1)
	assert.ErrorIs(t, err, core.ErrInvalidPeriod)

	_, err = svc.GetTrends(context.Background(), 3, 2024, 14)
	assert.ErrorIs(t, err, core.ErrInvalidPeriod)
}
