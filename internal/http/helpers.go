package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/core"
)

// errorResponse is the error body shape: {"detail": "..."}.
type errorResponse struct {
	Detail string `json:"detail"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, errorResponse{Detail: detail})
}

// respondCoreError maps the engine's error taxonomy to HTTP statuses:
// invalid input and missing sheets config are the caller's problem, upstream
// and exporter failures are bad gateways, anything else is a 500.
func respondCoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidPeriod), errors.Is(err, core.ErrSheetsNotConfigured):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrUpstreamUnavailable), errors.Is(err, core.ErrExporterUnavailable):
		respondError(w, http.StatusBadGateway, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// queryInt parses an integer query parameter, falling back to def when the
// parameter is absent. A present but malformed value is an error.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	return v, nil
}
