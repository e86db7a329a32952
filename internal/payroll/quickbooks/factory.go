package quickbooks

import (
	"github.com/sparklingTalent/Quickbook-account-automation/internal/config"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/log"
	"github.com/sparklingTalent/Quickbook-account-automation/internal/payroll"
)

// FromConfig selects the payroll source: the live client when real
// credentials are configured, the deterministic mock otherwise.
func FromConfig(cfg *config.Config, logger *log.Logger) payroll.Source {
	if cfg.UseMock() {
		logger.Info("Using mock payroll source", log.FieldBackend, "mock")
		return NewMockClient()
	}
	logger.Info("Using QuickBooks payroll source",
		log.FieldBackend, "quickbooks",
		"environment", cfg.QBEnvironment)
	return NewClient(cfg.QBAccessToken, cfg.QBCompanyID, cfg.QBEnvironment)
}
