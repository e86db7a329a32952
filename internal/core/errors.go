package core

import "errors"

// Error kinds surfaced by the report engines and the export boundary.
// Missing budget data is intentionally absent: a missing budget defaults to
// zero and flows through the variance-percent suppression rule.
var (
	// ErrUpstreamUnavailable wraps failures of the payroll source.
	ErrUpstreamUnavailable = errors.New("payroll source unavailable")

	// ErrExporterUnavailable wraps failures of the export collaborator.
	ErrExporterUnavailable = errors.New("report exporter unavailable")

	// ErrSheetsNotConfigured is returned when a sheets export is requested
	// without spreadsheet credentials.
	ErrSheetsNotConfigured = errors.New("google sheets not configured")

	// ErrInvalidPeriod is returned for a month outside 1..12 or a
	// non-positive window length.
	ErrInvalidPeriod = errors.New("invalid reporting period")
)
