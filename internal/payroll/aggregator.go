package payroll

import (
	"context"
	"fmt"
	"sync"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/core"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/log"
)

// MonthlyPayroll holds the per-employee totals for one calendar month.
// Order preserves the first appearance of each employee in the payroll
// stream; downstream report rows depend on it.
type MonthlyPayroll struct {
	Year   int
	Month  int
	Totals map[string]*core.EmployeeMonthlyTotal
	Order  []string
}

// Aggregator reduces payroll line items into monthly per-employee totals.
// Results are memoized per (year, month) for the lifetime of the aggregator;
// there is no eviction, so repeated requests for a month hit the memo table.
type Aggregator struct {
	source Source
	logger *log.Logger

	mu   sync.RWMutex
	memo map[string]*MonthlyPayroll
}

// NewAggregator creates an Aggregator reading from source.
func NewAggregator(source Source, logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentPayroll)
	}
	return &Aggregator{
		source: source,
		logger: logger,
		memo:   make(map[string]*MonthlyPayroll),
	}
}

// MonthlyTotals returns the aggregated payroll for one calendar month,
// requesting items from the source for the month's exact date bounds.
// Duplicate appearances of an employee within the month sum their amounts;
// the most recently seen name and department win.
func (a *Aggregator) MonthlyTotals(ctx context.Context, year, month int) (*MonthlyPayroll, error) {
	if !core.ValidMonth(month) {
		return nil, fmt.Errorf("%w: month %d", core.ErrInvalidPeriod, month)
	}

	key := core.MonthLabel(year, month)
	a.mu.RLock()
	cached, ok := a.memo[key]
	a.mu.RUnlock()
	if ok {
		return cached, nil
	}

	start, end := core.MonthBounds(year, month)
	items, err := a.source.GetPayrollItems(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrUpstreamUnavailable, err)
	}

	mp := &MonthlyPayroll{
		Year:   year,
		Month:  month,
		Totals: make(map[string]*core.EmployeeMonthlyTotal),
	}
	for _, item := range items {
		total, ok := mp.Totals[item.EmployeeID]
		if !ok {
			total = &core.EmployeeMonthlyTotal{EmployeeID: item.EmployeeID}
			mp.Totals[item.EmployeeID] = total
			mp.Order = append(mp.Order, item.EmployeeID)
		}
		total.EmployeeName = item.EmployeeName
		total.Department = item.Department
		total.Total = total.Total.Add(item.Amount)
		total.Items = append(total.Items, item)
	}

	a.logger.InfoContext(ctx, "Aggregated monthly payroll",
		log.FieldOperation, log.OpAggregate,
		log.FieldYear, year,
		log.FieldMonth, month,
		"items", len(items),
		"employees", len(mp.Order))

	a.mu.Lock()
	a.memo[key] = mp
	a.mu.Unlock()

	return mp, nil
}
