// internal/api/respond.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/FairForge/signalcraft/internal/alerting"
	"github.com/FairForge/signalcraft/internal/analytics"
	"github.com/FairForge/signalcraft/internal/anomaly"
	"github.com/FairForge/signalcraft/internal/dashboard"
	"github.com/FairForge/signalcraft/internal/reporting"
	"github.com/FairForge/signalcraft/internal/session"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, alerting.ErrNotFound),
		errors.Is(err, anomaly.ErrNotFound),
		errors.Is(err, dashboard.ErrNotFound),
		errors.Is(err, reporting.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, dashboard.ErrAlreadyPresent):
		status = http.StatusConflict
	case errors.Is(err, dashboard.ErrNotAvailable),
		errors.Is(err, reporting.ErrNotAvailable):
		status = http.StatusForbidden
	case errors.Is(err, session.ErrUserExists):
		status = http.StatusConflict
	case errors.Is(err, session.ErrInvalidCredentials),
		errors.Is(err, session.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, analytics.ErrUnknownTab),
		errors.Is(err, dashboard.ErrUnknownType),
		errors.Is(err, dashboard.ErrInvalidSize),
		errors.Is(err, reporting.ErrInvalidSections),
		errors.Is(err, reporting.ErrInvalidFormat),
		errors.Is(err, reporting.ErrInvalidTimeframe),
		errors.Is(err, reporting.ErrUnknownSection),
		errors.Is(err, reporting.ErrMissingDateRange):
		status = http.StatusBadRequest
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeValidationError reports a request-shape problem as a 400.
func writeValidationError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}
