// internal/api/auth.go
package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/FairForge/signalcraft/internal/session"
	"github.com/FairForge/signalcraft/internal/tier"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

type authResponse struct {
	Token string        `json:"token"`
	User  *session.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sess, token, err := s.sessions.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info("user registered", zap.String("user_id", sess.User.ID))
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: &sess.User})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sess, token, err := s.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: &sess.User})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	s.sessions.Logout(r.Context(), sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	writeJSON(w, http.StatusOK, sess.User)
}

type setTierRequest struct {
	Tier string `json:"tier"`
}

func (s *Server) handleSetTier(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())

	var req setTierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	t, err := tier.Parse(req.Tier)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	if err := s.sessions.SetTier(sess.User.ID, t); err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info("tier changed",
		zap.String("user_id", sess.User.ID),
		zap.String("tier", string(t)),
	)
	writeJSON(w, http.StatusOK, map[string]string{"tier": string(t)})
}
