// internal/api/anomalies.go
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/FairForge/signalcraft/internal/anomaly"
)

// handleListAnomalies returns anomaly records newest first. With source and
// min_severity query parameters it narrows to recent records for one source,
// the same lookup the anomaly alert condition uses.
func (s *Server) handleListAnomalies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	source := q.Get("source")
	minSeverity := q.Get("min_severity")

	if source == "" && minSeverity == "" {
		writeJSON(w, http.StatusOK, s.anomalies.List())
		return
	}

	minSev := anomaly.Severity(minSeverity)
	if minSeverity == "" {
		minSev = anomaly.SeverityLow
	} else if !minSev.Valid() {
		http.Error(w, "unknown min_severity", http.StatusBadRequest)
		return
	}

	since := time.Now().Add(-72 * time.Hour)
	if raw := q.Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "since must be RFC 3339", http.StatusBadRequest)
			return
		}
		since = parsed
	}

	writeJSON(w, http.StatusOK, s.anomalies.RecentWithMinSeverity(source, since, minSev))
}

func (s *Server) handleAcknowledgeAnomaly(w http.ResponseWriter, r *http.Request) {
	record, err := s.anomalies.Acknowledge(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}
