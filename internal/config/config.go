package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Budget store backends.
const (
	BudgetBackendJSON   = "json"
	BudgetBackendSQLite = "sqlite"
)

type Config struct {
	// HTTP server
	Port           string
	AllowedOrigins []string

	// QuickBooks (mock is used when UseMockData is set or credentials are missing)
	UseMockData    bool
	QBClientID     string
	QBClientSecret string
	QBAccessToken  string
	QBCompanyID    string
	QBEnvironment  string // sandbox or production

	// Budget store
	BudgetBackend string
	BudgetFile    string
	SQLiteDBPath  string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Report engine
	TrendCacheTTL time.Duration

	// Worker
	SyncInterval time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8000"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),

		UseMockData:    getEnvBool("USE_MOCK_DATA", true),
		QBClientID:     getEnv("QB_CLIENT_ID", ""),
		QBClientSecret: getEnv("QB_CLIENT_SECRET", ""),
		QBAccessToken:  getEnv("QB_ACCESS_TOKEN", ""),
		QBCompanyID:    getEnv("QB_COMPANY_ID", ""),
		QBEnvironment:  getEnv("QB_ENVIRONMENT", "sandbox"),

		BudgetBackend: getEnv("BUDGET_BACKEND", BudgetBackendJSON),
		BudgetFile:    getEnv("BUDGET_FILE", "./data/budgets.json"),
		SQLiteDBPath:  getEnv("SQLITE_DB_PATH", "./data/budgets.db"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "qbauto"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "report_sync"),

		TrendCacheTTL: getEnvDuration("TREND_CACHE_TTL", 5*time.Minute),
		SyncInterval:  getEnvDuration("SYNC_INTERVAL", 30*time.Second),
	}

	return cfg
}

// UseMock reports whether the mock payroll source should be used: either
// explicitly requested or forced by missing QuickBooks credentials.
func (c *Config) UseMock() bool {
	if c.UseMockData {
		return true
	}
	return c.QBClientID == "" || c.QBClientSecret == ""
}

// SheetsConfigured reports whether a Google Sheets target is configured.
func (c *Config) SheetsConfigured() bool {
	return c.GoogleSpreadsheetID != ""
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.BudgetBackend {
	case BudgetBackendJSON:
		if c.BudgetFile == "" {
			errs = append(errs, "budget file path cannot be empty when using json backend")
		} else if dir := filepath.Dir(c.BudgetFile); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create budget directory '%s': %v", dir, err))
				}
			}
		}
	case BudgetBackendSQLite:
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite directory '%s': %v", dir, err))
				}
			}
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid budget backend '%s': must be one of [%s %s]",
			c.BudgetBackend, BudgetBackendJSON, BudgetBackendSQLite))
	}

	if c.QBEnvironment != "sandbox" && c.QBEnvironment != "production" {
		errs = append(errs, fmt.Sprintf("invalid QuickBooks environment '%s': must be 'sandbox' or 'production'", c.QBEnvironment))
	}
	if !c.UseMock() {
		if c.QBAccessToken == "" {
			errs = append(errs, "QB_ACCESS_TOKEN is required when not using mock data")
		}
		if c.QBCompanyID == "" {
			errs = append(errs, "QB_COMPANY_ID is required when not using mock data")
		}
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SheetsConfigured() {
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" &&
			os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
			errs = append(errs, "either GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS must be provided for sheets export")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errs = append(errs, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if c.TrendCacheTTL < time.Second {
		errs = append(errs, fmt.Sprintf("invalid trend cache TTL %v: must be at least 1 second", c.TrendCacheTTL))
	}
	if c.SyncInterval < time.Second {
		errs = append(errs, fmt.Sprintf("invalid sync interval %v: must be at least 1 second", c.SyncInterval))
	} else if c.SyncInterval > 24*time.Hour {
		errs = append(errs, fmt.Sprintf("invalid sync interval %v: must be at most 24 hours", c.SyncInterval))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
