package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/core"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/log"
)

// GetTrends returns organization-wide monthly summaries for a window of
// consecutive months ending at (endYear, endMonth), oldest first. Passing
// zero for endYear or endMonth resolves the window against the current date.
//
// Months whose aggregation or budget lookup fails are logged and dropped
// from the series; the call succeeds with a shorter result. Results are
// cached per (months, endYear, endMonth) until the cache TTL lapses.
func (s *Service) GetTrends(ctx context.Context, months, endYear, endMonth int) ([]core.TrendRow, error) {
	if months <= 0 {
		return nil, fmt.Errorf("%w: window of %d months", core.ErrInvalidPeriod, months)
	}
	if endYear == 0 || endMonth == 0 {
		now := s.now()
		endYear, endMonth = now.Year(), int(now.Month())
	}
	if !core.ValidMonth(endMonth) {
		return nil, fmt.Errorf("%w: month %d", core.ErrInvalidPeriod, endMonth)
	}

	cacheKey := fmt.Sprintf("trends_%d_%d_%02d", months, endYear, endMonth)
	if cached, ok := s.trendCache.Get(cacheKey); ok {
		s.logger.DebugContext(ctx, "Trend cache hit", log.FieldOperation, log.OpTrends, "key", cacheKey)
		return cached, nil
	}

	rows := make([]core.TrendRow, 0, months)
	year, month := endYear, endMonth
	for i := 0; i < months; i++ {
		row, err := s.monthSummary(ctx, year, month)
		if err != nil {
			s.logger.WarnContext(ctx, "Skipping month in trend series",
				log.FieldOperation, log.OpTrends,
				log.FieldYear, year,
				log.FieldMonth, month,
				log.FieldError, err)
		} else {
			rows = append(rows, row)
		}
		year, month = core.PreviousMonth(year, month)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Month < rows[j].Month })

	s.trendCache.Set(cacheKey, rows)
	s.logger.InfoContext(ctx, "Computed historical trends",
		log.FieldOperation, log.OpTrends,
		log.FieldMonths, months,
		log.FieldRowCount, len(rows))

	return rows, nil
}

// monthSummary computes one organization-wide trend row. Total budget covers
// every provisioned entry for the month, not only employees with payroll
// activity.
func (s *Service) monthSummary(ctx context.Context, year, month int) (core.TrendRow, error) {
	payroll, err := s.aggregator.MonthlyTotals(ctx, year, month)
	if err != nil {
		return core.TrendRow{}, err
	}

	entries, err := s.budgets.GetAllBudgets(ctx, core.MonthString(month), year)
	if err != nil {
		return core.TrendRow{}, fmt.Errorf("all budgets for %s: %w", core.MonthLabel(year, month), err)
	}

	var totalBudget decimal.Decimal
	for _, entry := range entries {
		totalBudget = totalBudget.Add(entry.Amount)
	}

	var totalActual decimal.Decimal
	for _, total := range payroll.Totals {
		totalActual = totalActual.Add(total.Total)
	}

	variance := totalActual.Sub(totalBudget)
	return core.TrendRow{
		Month:           core.MonthLabel(year, month),
		TotalBudget:     totalBudget.Round(2),
		TotalActual:     totalActual.Round(2),
		TotalVariance:   variance.Round(2),
		VariancePercent: core.VariancePercent(variance, totalBudget).Round(2),
	}, nil
}
