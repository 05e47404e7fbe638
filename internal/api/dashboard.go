// internal/api/dashboard.go
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/FairForge/signalcraft/internal/dashboard"
	"github.com/FairForge/signalcraft/internal/session"
)

func (s *Server) handleWidgetCatalog(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	writeJSON(w, http.StatusOK, dashboard.Catalog(sess.User.Tier))
}

func (s *Server) handleListWidgets(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	layout := s.dashboards.ForUser(sess.User.ID)
	writeJSON(w, http.StatusOK, layout.Widgets())
}

type addWidgetRequest struct {
	Type string `json:"type"`
}

func (s *Server) handleAddWidget(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())

	var req addWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	layout := s.dashboards.ForUser(sess.User.ID)
	widget, err := layout.Add(req.Type, sess.User.Tier)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, widget)
}

func (s *Server) handleRemoveWidget(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())

	layout := s.dashboards.ForUser(sess.User.ID)
	if err := layout.Remove(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	MovedID  string `json:"moved_id"`
	TargetID string `json:"target_id"`
}

func (s *Server) handleReorderWidgets(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	layout := s.dashboards.ForUser(sess.User.ID)
	if err := layout.Reorder(req.MovedID, req.TargetID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, layout.Widgets())
}

type resizeRequest struct {
	Size string `json:"size"`
}

func (s *Server) handleResizeWidget(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())

	var req resizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	layout := s.dashboards.ForUser(sess.User.ID)
	if err := layout.Resize(mux.Vars(r)["id"], req.Size); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type visibilityRequest struct {
	Visible bool `json:"visible"`
}

func (s *Server) handleWidgetVisibility(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())

	var req visibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	layout := s.dashboards.ForUser(sess.User.ID)
	if err := layout.SetVisible(mux.Vars(r)["id"], req.Visible); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
