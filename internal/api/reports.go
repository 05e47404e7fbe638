// internal/api/reports.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/FairForge/signalcraft/internal/datasource"
	"github.com/FairForge/signalcraft/internal/reporting"
	"github.com/FairForge/signalcraft/internal/session"
)

func (s *Server) handleReportSections(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	writeJSON(w, http.StatusOK, reporting.AvailableSections(sess.User.Tier))
}

func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())

	var opts reporting.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := s.exporter.Export(&opts, sess.User.Tier)
	if err != nil {
		writeError(w, err)
		return
	}

	s.metrics.IncrementExport(opts.Format)
	s.logger.Info("report export requested",
		zap.String("user_id", sess.User.ID),
		zap.String("file_name", result.FileName),
	)
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	payload, fileName, err := s.exporter.Open(mux.Vars(r)["ref"])
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	_, _ = w.Write(payload)
}

type sourceEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	sources := datasource.Sources()
	result := make([]sourceEntry, 0, len(sources))
	for id, name := range sources {
		result = append(result, sourceEntry{ID: id, Name: name})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	writeJSON(w, http.StatusOK, result)
}
