// internal/api/alerts.go
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/FairForge/signalcraft/internal/alerting"
)

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.alerts.List())
}

func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var config alerting.RuleConfig
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	rule, err := s.alerts.Create(&config)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	s.logger.Info("alert rule created",
		zap.String("rule_id", rule.ID),
		zap.String("source_id", rule.SourceID),
	)
	writeJSON(w, http.StatusCreated, rule)
}

func (s *Server) handleGetAlert(w http.ResponseWriter, r *http.Request) {
	rule, err := s.alerts.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func (s *Server) handleUpdateAlert(w http.ResponseWriter, r *http.Request) {
	var update alerting.RuleUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := update.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	rule, err := s.alerts.Update(mux.Vars(r)["id"], &update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func (s *Server) handleToggleAlert(w http.ResponseWriter, r *http.Request) {
	rule, err := s.alerts.Toggle(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func (s *Server) handleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	if err := s.alerts.Delete(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
