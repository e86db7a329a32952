// Package sync pushes variance reports and trend series to the configured
// spreadsheet, either on demand or in response to queued sync requests.
package sync

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/export"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/log"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/report"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/sheets"
)

// DefaultHistoricalMonths is the trend window used by SyncAll.
const DefaultHistoricalMonths = 12

// Service writes reports to a spreadsheet target. It recomputes every report
// at sync time so the sheet always reflects current source data.
type Service struct {
	reports *report.Service
	writer  sheets.RowWriter
	logger  *log.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock, used by tests to pin "current month".
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a sync Service writing through writer.
func NewService(reports *report.Service, writer sheets.RowWriter, logger *log.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentSync)
	}
	s := &Service{
		reports: reports,
		writer:  writer,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SyncLatest writes the current month's report to the rolling LatestReport
// sheet, which always holds the most recent data.
func (s *Service) SyncLatest(ctx context.Context) error {
	now := s.now()
	return s.syncVariance(ctx, now.Year(), int(now.Month()), sheets.LatestSheetName)
}

// SyncCurrentMonth writes the current month's report to its own
// CurrentMonth_YYYY_MM sheet.
func (s *Service) SyncCurrentMonth(ctx context.Context) error {
	now := s.now()
	year, month := now.Year(), int(now.Month())
	return s.syncVariance(ctx, year, month, sheets.CurrentMonthSheetName(year, month))
}

// SyncMonth archives one month's report to its VarianceReport_YYYY_MM sheet.
func (s *Service) SyncMonth(ctx context.Context, year, month int) error {
	return s.syncVariance(ctx, year, month, sheets.VarianceSheetName(year, month))
}

func (s *Service) syncVariance(ctx context.Context, year, month int, sheetName string) error {
	rows, err := s.reports.GenerateVariance(ctx, year, month)
	if err != nil {
		return fmt.Errorf("generate variance for sync: %w", err)
	}
	rows = report.WithStatus(rows)

	if err := s.writer.WriteSheet(ctx, sheetName, export.VarianceValues(rows)); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Synced variance report",
		log.FieldOperation, log.OpSync,
		log.FieldYear, year,
		log.FieldMonth, month,
		log.FieldSheetName, sheetName,
		log.FieldRowCount, len(rows))
	return nil
}

// SyncHistorical writes a trend series for the last months months to its
// HistoricalTrends_NMonths sheet.
func (s *Service) SyncHistorical(ctx context.Context, months int) error {
	rows, err := s.reports.GetTrends(ctx, months, 0, 0)
	if err != nil {
		return fmt.Errorf("get trends for sync: %w", err)
	}

	sheetName := sheets.TrendsSheetName(months)
	if err := s.writer.WriteSheet(ctx, sheetName, export.TrendValues(rows)); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Synced historical trends",
		log.FieldOperation, log.OpSync,
		log.FieldMonths, months,
		log.FieldSheetName, sheetName,
		log.FieldRowCount, len(rows))
	return nil
}

// AllResults reports the outcome of each target of a SyncAll call.
type AllResults struct {
	Latest       bool `json:"latest"`
	CurrentMonth bool `json:"current_month"`
	Historical   bool `json:"historical"`
}

// OK reports whether every target synced.
func (r AllResults) OK() bool {
	return r.Latest && r.CurrentMonth && r.Historical
}

// SyncAll pushes all three targets concurrently. A failing target is logged
// and reflected in the results; the other targets still run.
func (s *Service) SyncAll(ctx context.Context) AllResults {
	var results AllResults

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		results.Latest = s.runTarget(gctx, "latest", s.SyncLatest)
		return nil
	})
	g.Go(func() error {
		results.CurrentMonth = s.runTarget(gctx, "current_month", s.SyncCurrentMonth)
		return nil
	})
	g.Go(func() error {
		results.Historical = s.runTarget(gctx, "historical", func(ctx context.Context) error {
			return s.SyncHistorical(ctx, DefaultHistoricalMonths)
		})
		return nil
	})
	g.Wait()

	return results
}

func (s *Service) runTarget(ctx context.Context, name string, fn func(context.Context) error) bool {
	if err := fn(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Sync target failed",
			log.FieldSyncType, name,
			log.FieldError, err)
		return false
	}
	return true
}
