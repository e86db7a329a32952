package sync

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/amqp"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/budget"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/core"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/payroll"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/report"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/sheets"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/sheets/memory"
)

// fixedSource returns the same single-employee payroll for every month.
type fixedSource struct{}

func (fixedSource) GetPayrollItems(_ context.Context, start, _ time.Time) ([]core.PayrollLineItem, error) {
	return []core.PayrollLineItem{{
		ID:           "itm-1",
		Name:         "Payroll - John Smith",
		Kind:         core.ItemSalary,
		Amount:       decimal.NewFromInt(12000),
		EmployeeID:   "emp_001",
		EmployeeName: "John Smith",
		Department:   "Engineering",
		Date:         start,
	}}, nil
}

func (fixedSource) GetEmployees(context.Context) ([]core.Employee, error) { return nil, nil }

type emptyStore struct{}

func (emptyStore) GetBudget(context.Context, string, string, int) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (emptyStore) GetDepartmentBudget(context.Context, string, string, int) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (emptyStore) GetAllBudgets(context.Context, string, int) (map[string]core.BudgetEntry, error) {
	return nil, nil
}

func (emptyStore) SetBudget(context.Context, core.BudgetEntry) error { return nil }

var _ budget.Store = emptyStore{}

func fixedClock() time.Time {
	return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
}

func newTestSync(writer sheets.RowWriter) *Service {
	reports := report.NewService(payroll.NewAggregator(fixedSource{}, nil), emptyStore{}, nil,
		report.WithClock(fixedClock))
	return NewService(reports, writer, nil, WithClock(fixedClock))
}

func TestSyncLatestWritesRollingSheet(t *testing.T) {
	store := memory.New()
	svc := newTestSync(store)

	require.NoError(t, svc.SyncLatest(context.Background()))

	grid := store.Sheet(sheets.LatestSheetName)
	require.NotNil(t, grid)
	require.Len(t, grid, 3, "header, one employee, one department total")

	header := grid[0]
	assert.Equal(t, "Employee ID", header[0])
	assert.Equal(t, "Status", header[len(header)-1], "synced reports carry the status column")
	assert.Equal(t, "emp_001", grid[1][0])
	assert.Equal(t, "Over Budget", grid[1][len(grid[1])-1])
	assert.Equal(t, "DEPARTMENT TOTAL: Engineering", grid[2][1])
}

func TestSyncCurrentMonthSheetName(t *testing.T) {
	store := memory.New()
	svc := newTestSync(store)

	require.NoError(t, svc.SyncCurrentMonth(context.Background()))
	assert.NotNil(t, store.Sheet("CurrentMonth_2024_06"))
}

func TestSyncMonthArchivesNamedSheet(t *testing.T) {
	store := memory.New()
	svc := newTestSync(store)

	require.NoError(t, svc.SyncMonth(context.Background(), 2024, 1))
	assert.NotNil(t, store.Sheet("VarianceReport_2024_01"))
}

func TestSyncHistoricalWritesTrendSheet(t *testing.T) {
	store := memory.New()
	svc := newTestSync(store)

	require.NoError(t, svc.SyncHistorical(context.Background(), 3))

	grid := store.Sheet("HistoricalTrends_3Months")
	require.NotNil(t, grid)
	require.Len(t, grid, 4, "header plus three months")
	assert.Equal(t, "Month", grid[0][0])
	assert.Equal(t, "2024-04", grid[1][0])
	assert.Equal(t, "2024-06", grid[3][0])
}

// failingWriter fails writes to sheets whose name matches a fragment.
type failingWriter struct {
	inner    *memory.Store
	fragment string
}

func (w *failingWriter) WriteSheet(ctx context.Context, sheetName string, values [][]interface{}) error {
	if strings.Contains(sheetName, w.fragment) {
		return errors.New("quota exceeded")
	}
	return w.inner.WriteSheet(ctx, sheetName, values)
}

func TestSyncAllReportsPartialFailure(t *testing.T) {
	writer := &failingWriter{inner: memory.New(), fragment: "HistoricalTrends"}
	svc := newTestSync(writer)

	results := svc.SyncAll(context.Background())
	assert.True(t, results.Latest)
	assert.True(t, results.CurrentMonth)
	assert.False(t, results.Historical)
	assert.False(t, results.OK())

	all := newTestSync(memory.New()).SyncAll(context.Background())
	assert.True(t, all.OK())
}

// recordingPublisher captures published sync requests.
type recordingPublisher struct {
	msgs []*amqp.ReportSyncMessage
	err  error
}

func (p *recordingPublisher) PublishReportSync(_ context.Context, msg *amqp.ReportSyncMessage) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

func TestAutoSyncOnReportAccess(t *testing.T) {
	pub := &recordingPublisher{}
	auto := NewAutoSync(pub, nil)
	auto.now = fixedClock
	ctx := context.Background()

	auto.OnReportAccess(ctx, 2024, 6)
	require.Len(t, pub.msgs, 1)
	assert.Equal(t, amqp.SyncLatest, pub.msgs[0].SyncType)

	auto.OnReportAccess(ctx, 2024, 1)
	assert.Len(t, pub.msgs, 1, "past months do not trigger auto-sync")

	auto.OnDataAccess(ctx)
	assert.Len(t, pub.msgs, 2)
}

func TestAutoSyncSwallowsPublishFailure(t *testing.T) {
	auto := NewAutoSync(&recordingPublisher{err: errors.New("broker down")}, nil)
	auto.OnDataAccess(context.Background())

	var disabled *AutoSync
	disabled.OnDataAccess(context.Background())
	NewAutoSync(nil, nil).OnReportAccess(context.Background(), 2024, 1)
}
