package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/budget"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/config"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/log"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/payroll"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/payroll/quickbooks"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/report"
	gsheet "github.com/sparklingTalent/Quickbook-account-automation/internal/sheets/google"
	syncsvc "github.com/sparklingTalent/Quickbook-account-automation/internal/sync"
)

// One-shot exporter: pushes the variance report and historical trends to the
// configured Google Spreadsheet and exits.
func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	target := flag.String("target", "all", "sync target: latest, current, historical, all")
	months := flag.Int("months", syncsvc.DefaultHistoricalMonths, "trend window for the historical target")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(slogger)

	logger := log.New(log.Config{Handler: slogger.Handler(), Component: log.ComponentSync})

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if !cfg.SheetsConfigured() {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for sheet export")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store, cleanup, err := budget.FromConfig(cfg, logger.WithComponent(log.ComponentBudget))
	if err != nil {
		logger.Error("Failed to initialize budget store", log.FieldError, err)
		os.Exit(1)
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				logger.Error("Budget store cleanup failed", log.FieldError, err)
			}
		}()
	}

	source := quickbooks.FromConfig(cfg, logger.WithComponent(log.ComponentPayroll))
	aggregator := payroll.NewAggregator(source, logger.WithComponent(log.ComponentPayroll))
	reports := report.NewService(aggregator, store, logger.WithComponent(log.ComponentReport))

	sheetsClient, err := gsheet.New(ctx, cfg, logger.WithComponent(log.ComponentSheets))
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}

	svc := syncsvc.NewService(reports, sheetsClient, logger)

	switch *target {
	case "latest":
		err = svc.SyncLatest(ctx)
	case "current":
		err = svc.SyncCurrentMonth(ctx)
	case "historical":
		err = svc.SyncHistorical(ctx, *months)
	case "all":
		results := svc.SyncAll(ctx)
		if !results.OK() {
			logger.Error("Sync completed partially",
				"latest", results.Latest,
				"current_month", results.CurrentMonth,
				"historical", results.Historical)
			os.Exit(1)
		}
	default:
		logger.Error("Unknown sync target", log.FieldSyncType, *target)
		os.Exit(1)
	}
	if err != nil {
		logger.Error("Sync failed", log.FieldError, err, log.FieldSyncType, *target)
		os.Exit(1)
	}

	logger.Info("Sync completed", log.FieldSyncType, *target)
}
