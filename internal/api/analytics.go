// internal/api/analytics.go
package api

import (
	"encoding/json"
	"net/http"

	"github.com/FairForge/signalcraft/internal/analytics"
	"github.com/FairForge/signalcraft/internal/datasource"
	"github.com/FairForge/signalcraft/internal/session"
	"github.com/FairForge/signalcraft/internal/usage"
)

func (s *Server) handleGetTab(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"active_tab": s.view.ActiveTab()})
}

type setTabRequest struct {
	Tab string `json:"tab"`
}

func (s *Server) handleSetTab(w http.ResponseWriter, r *http.Request) {
	var req setTabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.view.SetTab(req.Tab); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"active_tab": req.Tab})
}

type refreshRequest struct {
	SourceID    string `json:"source_id,omitempty"`
	ScopeID     string `json:"scope_id,omitempty"`
	HorizonDays int    `json:"horizon_days,omitempty"`
}

type refreshResponse struct {
	Refreshed  bool              `json:"refreshed"`
	ErrorNotes map[string]string `json:"error_notes,omitempty"`
}

// handleRefresh re-fetches every dataset. Individual fetch failures keep the
// previous data and surface as per-tab error notes, never as a failed request.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())

	req := refreshRequest{
		SourceID:    s.config.Data.DefaultSourceID,
		ScopeID:     "default",
		HorizonDays: s.config.Data.HorizonDays,
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.SourceID == "" {
			req.SourceID = s.config.Data.DefaultSourceID
		}
		if req.ScopeID == "" {
			req.ScopeID = "default"
		}
		if req.HorizonDays <= 0 {
			req.HorizonDays = s.config.Data.HorizonDays
		}
	}

	_ = s.view.Refresh(r.Context(), req.SourceID, req.ScopeID, req.HorizonDays, sess.User.Tier)

	writeJSON(w, http.StatusOK, refreshResponse{
		Refreshed:  true,
		ErrorNotes: s.collectErrorNotes(),
	})
}

func (s *Server) collectErrorNotes(tabs ...string) map[string]string {
	if len(tabs) == 0 {
		tabs = []string{analytics.TabForecasts, analytics.TabAnomalies, analytics.TabAlerts, analytics.TabUsage}
	}
	notes := make(map[string]string)
	for _, tab := range tabs {
		if note, ok := s.view.ErrorNote(tab); ok {
			notes[tab] = note
		}
	}
	if len(notes) == 0 {
		return nil
	}
	return notes
}

type forecastResponse struct {
	Points    []datasource.ForecastPoint `json:"points"`
	ErrorNote string                     `json:"error_note,omitempty"`
}

func (s *Server) handleGetForecast(w http.ResponseWriter, r *http.Request) {
	note, _ := s.view.ErrorNote(analytics.TabForecasts)
	writeJSON(w, http.StatusOK, forecastResponse{
		Points:    s.view.Forecast(),
		ErrorNote: note,
	})
}

type generateForecastRequest struct {
	SourceID  string `json:"source_id"`
	ModelType string `json:"model_type,omitempty"`
}

func (s *Server) handleGenerateForecast(w http.ResponseWriter, r *http.Request) {
	var req generateForecastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.SourceID == "" {
		req.SourceID = s.config.Data.DefaultSourceID
	}

	if err := s.provider.GenerateForecast(r.Context(), req.SourceID, req.ModelType); err != nil {
		writeError(w, err)
		return
	}
	_ = s.view.RefreshForecast(r.Context(), req.SourceID, s.config.Data.HorizonDays)

	note, _ := s.view.ErrorNote(analytics.TabForecasts)
	writeJSON(w, http.StatusOK, forecastResponse{
		Points:    s.view.Forecast(),
		ErrorNote: note,
	})
}

type usageResponse struct {
	Usage     *usage.Data `json:"usage"`
	ErrorNote string      `json:"error_note,omitempty"`
}

func (s *Server) handleGetUsage(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())

	// Usage reflects the caller's current tier, so re-fetch on every read.
	_ = s.view.RefreshUsage(r.Context(), sess.User.Tier)

	note, _ := s.view.ErrorNote(analytics.TabUsage)
	writeJSON(w, http.StatusOK, usageResponse{
		Usage:     s.view.Usage(),
		ErrorNote: note,
	})
}
