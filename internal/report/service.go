// Package report contains the variance and trend engines: monthly payroll
// aggregates joined against the budget store, rolled up by department, and
// walked across a sliding window of months.
package report

import (
	"time"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/budget"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/cache"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/core"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/log"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/payroll"
)

const (
	defaultTrendCacheTTL  = 5 * time.Minute
	defaultTrendCacheSize = 64
)

// Service computes variance reports and historical trends.
type Service struct {
	aggregator *payroll.Aggregator
	budgets    budget.Store
	logger     *log.Logger

	trendCache *cache.TTLCache[[]core.TrendRow]
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithTrendCacheTTL overrides the default 5-minute trend cache TTL.
func WithTrendCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.trendCache = cache.New[[]core.TrendRow](defaultTrendCacheSize, ttl)
	}
}

// WithClock overrides the wall clock, used by tests to pin "current month".
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a report Service. The trend cache is owned by the
// service and lives as long as it does.
func NewService(aggregator *payroll.Aggregator, budgets budget.Store, logger *log.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentReport)
	}
	s := &Service{
		aggregator: aggregator,
		budgets:    budgets,
		logger:     logger,
		trendCache: cache.New[[]core.TrendRow](defaultTrendCacheSize, defaultTrendCacheTTL),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TrendCache exposes the trend cache for janitor registration.
func (s *Service) TrendCache() *cache.TTLCache[[]core.TrendRow] {
	return s.trendCache
}
