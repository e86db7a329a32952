package sync

import (
	"context"
	"time"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/amqp"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/log"
)

// Publisher enqueues sync requests for the background worker.
type Publisher interface {
	PublishReportSync(ctx context.Context, msg *amqp.ReportSyncMessage) error
}

// AutoSync keeps the LatestReport sheet fresh by enqueueing a sync request
// whenever current-month data is served. Failures are logged and swallowed;
// auto-sync must never fail the request that triggered it.
type AutoSync struct {
	publisher Publisher
	logger    *log.Logger
	now       func() time.Time
}

// NewAutoSync creates an AutoSync trigger. A nil publisher disables it.
func NewAutoSync(publisher Publisher, logger *log.Logger) *AutoSync {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentSync)
	}
	return &AutoSync{publisher: publisher, logger: logger, now: time.Now}
}

// OnReportAccess enqueues a latest-report sync when the served report covers
// the current calendar month.
func (a *AutoSync) OnReportAccess(ctx context.Context, year, month int) {
	if a == nil || a.publisher == nil {
		return
	}
	now := a.now()
	if year != now.Year() || month != int(now.Month()) {
		return
	}
	a.publish(ctx)
}

// OnDataAccess enqueues a latest-report sync unconditionally.
func (a *AutoSync) OnDataAccess(ctx context.Context) {
	if a == nil || a.publisher == nil {
		return
	}
	a.publish(ctx)
}

func (a *AutoSync) publish(ctx context.Context) {
	msg := amqp.NewReportSyncMessage(amqp.SyncLatest)
	if err := a.publisher.PublishReportSync(ctx, msg); err != nil {
		a.logger.WarnContext(ctx, "Auto-sync enqueue failed",
			log.FieldSyncType, amqp.SyncLatest,
			log.FieldError, err)
		return
	}
	a.logger.DebugContext(ctx, "Auto-sync enqueued", log.FieldSyncType, amqp.SyncLatest)
}
