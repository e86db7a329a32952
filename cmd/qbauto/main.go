package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/amqp"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/budget"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/cache"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/config"
	apphttp "github.com/sparklingTalent/Quickbook-account-automation/internal/http"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/log"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/middleware/ratelimit"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/payroll"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/payroll/quickbooks"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/report"
	gsheet "github.com/sparklingTalent/Quickbook-account-automation/internal/sheets/google"
	syncsvc "github.com/sparklingTalent/Quickbook-account-automation/internal/sync"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(slogger)

	logger := log.New(log.Config{Handler: slogger.Handler(), Component: log.ComponentApp})
	logger.Info("Starting qbauto server")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
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

	janitor := cache.NewJanitor()
	janitor.Register(reports.TrendCache())
	janitor.Start(time.Minute)
	defer janitor.Stop()

	// Google Sheets export (optional)
	var syncService *syncsvc.Service
	if cfg.SheetsConfigured() {
		sheetsClient, err := gsheet.New(ctx, cfg, logger.WithComponent(log.ComponentSheets))
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		syncService = syncsvc.NewService(reports, sheetsClient, logger.WithComponent(log.ComponentSync))
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	// AMQP publisher for auto-sync notifications (optional)
	var autoSync *syncsvc.AutoSync
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue,
			logger.WithComponent(log.ComponentAMQP))
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		autoSync = syncsvc.NewAutoSync(amqpClient, logger.WithComponent(log.ComponentSync))
		logger.Info("Auto-sync publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Auto-sync publishing disabled - no AMQP_URL provided")
	}

	// HTTP layer
	limiter := ratelimit.NewLimiter(ratelimit.DefaultConfig())
	defer limiter.Stop()

	handler := apphttp.NewHandler(reports, source, store, syncService, autoSync,
		logger.WithComponent(log.ComponentHTTP))
	router := apphttp.NewRouter(handler, cfg, logger.WithComponent(log.ComponentHTTP), limiter)
	srv := apphttp.NewServer(cfg, router, logger.WithComponent(log.ComponentHTTP))

	// Graceful shutdown handling
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	if err := srv.Start(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
