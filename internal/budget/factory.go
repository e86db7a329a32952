package budget

import (
	"fmt"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/config"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/log"
)

// CleanupFunc releases resources held by a store.
type CleanupFunc func() error

// FromConfig builds the configured budget store. The returned cleanup may be
// nil when the backend holds no resources.
func FromConfig(cfg *config.Config, logger *log.Logger) (Store, CleanupFunc, error) {
	switch cfg.BudgetBackend {
	case config.BudgetBackendJSON:
		store, err := NewJSONStore(cfg.BudgetFile)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize json budget store: %w", err)
		}
		logger.Info("Initialized budget store",
			log.FieldBackend, cfg.BudgetBackend, "path", cfg.BudgetFile)
		return store, nil, nil

	case config.BudgetBackendSQLite:
		store, err := NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize sqlite budget store: %w", err)
		}
		logger.Info("Initialized budget store",
			log.FieldBackend, cfg.BudgetBackend, "path", cfg.SQLiteDBPath)
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported budget backend: %s", cfg.BudgetBackend)
	}
}
