package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/budget"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/config"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/core"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/log"
)

// seedEmployee mirrors the roster served by the mock payroll source so that
// seeded budgets line up with mock payroll data out of the box.
type seedEmployee struct {
	id     string
	name   string
	dept   string
	amount int64
}

var roster = []seedEmployee{
	{"emp_001", "John Smith", "Engineering", 12000},
	{"emp_002", "Sarah Johnson", "Engineering", 10000},
	{"emp_003", "Michael Chen", "Architecture", 13000},
	{"emp_004", "Emily Rodriguez", "Architecture", 11000},
	{"emp_005", "David Kim", "Engineering", 9500},
	{"emp_006", "Lisa Anderson", "Architecture", 10500},
}

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	fromYear := flag.Int("from", 2022, "first year to seed")
	toYear := flag.Int("to", time.Now().Year()+1, "last year to seed")
	flag.Parse()

	slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(slogger)

	logger := log.New(log.Config{Handler: slogger.Handler(), Component: log.ComponentBudget})

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if *fromYear > *toYear {
		logger.Error("Invalid year range", "from", *fromYear, "to", *toYear)
		os.Exit(1)
	}

	store, cleanup, err := budget.FromConfig(cfg, logger)
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

	ctx := context.Background()
	seeded := 0
	for year := *fromYear; year <= *toYear; year++ {
		for month := 1; month <= 12; month++ {
			for _, emp := range roster {
				entry := core.BudgetEntry{
					EmployeeID:   emp.id,
					EmployeeName: emp.name,
					Department:   emp.dept,
					Month:        core.MonthString(month),
					Year:         year,
					Amount:       decimal.NewFromInt(emp.amount),
				}
				if err := store.SetBudget(ctx, entry); err != nil {
					logger.Error("Failed to seed budget",
						log.FieldError, err,
						log.FieldEmployeeID, emp.id,
						log.FieldYear, year,
						log.FieldMonth, entry.Month)
					os.Exit(1)
				}
				seeded++
			}
		}
	}

	logger.Info("Seeded budgets",
		"entries", seeded,
		"employees", len(roster),
		"from", *fromYear,
		"to", *toYear)
}
