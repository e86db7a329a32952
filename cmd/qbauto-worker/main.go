package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/amqp"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/budget"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/config"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/log"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/payroll"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/payroll/quickbooks"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/report"
	gsheet "github.com/sparklingTalent/Quickbook-account-automation/internal/sheets/google"
	syncsvc "github.com/sparklingTalent/Quickbook-account-automation/internal/sync"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(slogger)

	logger := log.New(log.Config{Handler: slogger.Handler(), Component: log.ComponentWorker})
	logger.Info("Starting qbauto-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if !cfg.SheetsConfigured() {
		logger.Error("GOOGLE_SPREADSHEET_ID is required: the worker only exports to Google Sheets")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Budget store
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

	// Payroll source and report engine
	source := quickbooks.FromConfig(cfg, logger.WithComponent(log.ComponentPayroll))
	aggregator := payroll.NewAggregator(source, logger.WithComponent(log.ComponentPayroll))
	reports := report.NewService(aggregator, store, logger.WithComponent(log.ComponentReport),
		report.WithTrendCacheTTL(cfg.TrendCacheTTL))

	// Google Sheets client for sync operations
	sheetsClient, err := gsheet.New(ctx, cfg, logger.WithComponent(log.ComponentSheets))
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	syncService := syncsvc.NewService(reports, sheetsClient, logger.WithComponent(log.ComponentSync))
	syncWorker := worker.NewSyncWorker(syncService, cfg.SyncInterval, logger)

	// On startup, refresh every sheet to recover from missed messages.
	syncWorker.StartupSync(ctx)

	// Consume sync requests when a broker is configured; periodic sync alone
	// keeps the sheets fresh otherwise.
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue,
			logger.WithComponent(log.ComponentAMQP))
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		go func() {
			handle := func(msg *amqp.ReportSyncMessage) error {
				return syncWorker.HandleSyncMessage(ctx, msg)
			}
			if err := amqpClient.ConsumeReportSync(ctx, handle); err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.Error("Message consumption failed", log.FieldError, err)
				}
				cancel()
			}
		}()
	} else {
		logger.Info("AMQP consumption disabled - no AMQP_URL provided")
	}

	go syncWorker.RunPeriodic(ctx)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	cancel()
	logger.Info("Worker stopped gracefully")
}
