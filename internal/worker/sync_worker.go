// Package worker runs the background report sync loop: it serves queued sync
// requests and periodically refreshes every sheet as a safety net for lost
// messages.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/amqp"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/log"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/sync"
)

// SyncWorker executes report sync requests against the spreadsheet target.
type SyncWorker struct {
	syncService *sync.Service
	logger      *log.Logger
	interval    time.Duration
}

// NewSyncWorker creates a worker refreshing all sheets every interval.
func NewSyncWorker(syncService *sync.Service, interval time.Duration, logger *log.Logger) *SyncWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentWorker)
	}
	return &SyncWorker{
		syncService: syncService,
		logger:      logger,
		interval:    interval,
	}
}

// HandleSyncMessage processes a single queued sync request.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.ReportSyncMessage) error {
	w.logger.InfoContext(ctx, "Processing sync request", log.FieldSyncType, msg.SyncType)

	switch msg.SyncType {
	case amqp.SyncLatest:
		return w.syncService.SyncLatest(ctx)
	case amqp.SyncCurrentMonth:
		return w.syncService.SyncCurrentMonth(ctx)
	case amqp.SyncHistorical:
		return w.syncService.SyncHistorical(ctx, msg.Months)
	case amqp.SyncAll:
		if results := w.syncService.SyncAll(ctx); !results.OK() {
			return fmt.Errorf("sync all completed partially: %+v", results)
		}
		return nil
	default:
		return fmt.Errorf("unknown sync type %q", msg.SyncType)
	}
}

// StartupSync refreshes every sheet once at worker startup, recovering from
// messages missed while the worker was down.
func (w *SyncWorker) StartupSync(ctx context.Context) {
	w.logger.InfoContext(ctx, "Running startup sync", log.FieldOperation, log.OpStartup)
	results := w.syncService.SyncAll(ctx)
	w.logger.InfoContext(ctx, "Startup sync completed",
		"latest", results.Latest,
		"current_month", results.CurrentMonth,
		"historical", results.Historical)
}

// RunPeriodic refreshes every sheet on a fixed interval until ctx is
// cancelled.
func (w *SyncWorker) RunPeriodic(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.InfoContext(ctx, "Periodic sync started", "interval", w.interval.String())
	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "Periodic sync stopped", log.FieldOperation, log.OpShutdown)
			return
		case <-ticker.C:
			if results := w.syncService.SyncAll(ctx); !results.OK() {
				w.logger.WarnContext(ctx, "Periodic sync completed partially",
					"latest", results.Latest,
					"current_month", results.CurrentMonth,
					"historical", results.Historical)
			}
		}
	}
}
