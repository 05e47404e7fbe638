// internal/api/server.go
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/FairForge/signalcraft/internal/alerting"
	"github.com/FairForge/signalcraft/internal/analytics"
	"github.com/FairForge/signalcraft/internal/anomaly"
	"github.com/FairForge/signalcraft/internal/config"
	"github.com/FairForge/signalcraft/internal/dashboard"
	"github.com/FairForge/signalcraft/internal/datasource"
	"github.com/FairForge/signalcraft/internal/reporting"
	"github.com/FairForge/signalcraft/internal/session"
	"github.com/FairForge/signalcraft/internal/tier"
)

type Server struct {
	config     *config.Config
	logger     *zap.Logger
	router     *mux.Router
	httpServer *http.Server
	metrics    *Metrics
	limiter    *RateLimiter

	sessions   *session.Manager
	dashboards *dashboard.Registry
	alerts     *alerting.Store
	anomalies  *anomaly.Store
	view       *analytics.View
	exporter   *reporting.Exporter
	provider   datasource.Provider

	requestCount int64
	startTime    time.Time
}

func NewServer(cfg *config.Config, logger *zap.Logger, provider datasource.Provider) *Server {
	alerts := alerting.NewStore()
	anomalies := anomaly.NewStore()

	s := &Server{
		config:     cfg,
		logger:     logger,
		router:     mux.NewRouter(),
		metrics:    NewMetrics(),
		limiter:    NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		sessions:   session.NewManager([]byte(cfg.Auth.JWTSecret)),
		dashboards: dashboard.NewRegistry(),
		alerts:     alerts,
		anomalies:  anomalies,
		view:       analytics.NewView(provider, alerts, anomalies, logger),
		exporter:   reporting.NewExporter(logger),
		provider:   provider,
		startTime:  time.Now(),
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/ready", s.handleReady).Methods("GET")
	s.router.HandleFunc("/version", s.handleVersion).Methods("GET")
	s.router.Handle("/metrics", s.metrics.Handler()).Methods("GET")

	s.router.HandleFunc("/api/v1/auth/register", s.handleRegister).Methods("POST")
	s.router.HandleFunc("/api/v1/auth/login", s.handleLogin).Methods("POST")

	// Everything below requires a valid session token.
	authed := s.router.PathPrefix("/api/v1").Subrouter()
	authed.Use(s.authMiddleware, s.rateLimitMiddleware)

	authed.HandleFunc("/auth/logout", s.handleLogout).Methods("POST")
	authed.HandleFunc("/auth/me", s.handleMe).Methods("GET")
	authed.HandleFunc("/account/tier", s.handleSetTier).Methods("PUT")

	authed.HandleFunc("/sources", s.handleListSources).Methods("GET")

	authed.HandleFunc("/dashboard/catalog", s.handleWidgetCatalog).Methods("GET")
	authed.HandleFunc("/dashboard/widgets", s.handleListWidgets).Methods("GET")
	authed.HandleFunc("/dashboard/widgets", s.handleAddWidget).Methods("POST")
	authed.HandleFunc("/dashboard/widgets/reorder", s.handleReorderWidgets).Methods("POST")
	authed.HandleFunc("/dashboard/widgets/{id}", s.handleRemoveWidget).Methods("DELETE")
	authed.HandleFunc("/dashboard/widgets/{id}/size", s.handleResizeWidget).Methods("PUT")
	authed.HandleFunc("/dashboard/widgets/{id}/visibility", s.handleWidgetVisibility).Methods("PUT")

	authed.HandleFunc("/analytics/tab", s.handleGetTab).Methods("GET")
	authed.HandleFunc("/analytics/tab", s.handleSetTab).Methods("PUT")
	authed.HandleFunc("/analytics/refresh", s.handleRefresh).Methods("POST")
	authed.HandleFunc("/analytics/forecast", s.handleGetForecast).Methods("GET")
	authed.HandleFunc("/analytics/forecast/generate", s.handleGenerateForecast).Methods("POST")
	authed.HandleFunc("/analytics/usage", s.handleGetUsage).Methods("GET")

	authed.HandleFunc("/alerts", s.handleListAlerts).Methods("GET")
	authed.HandleFunc("/alerts", s.handleCreateAlert).Methods("POST")
	authed.HandleFunc("/alerts/{id}", s.handleGetAlert).Methods("GET")
	authed.HandleFunc("/alerts/{id}", s.handleUpdateAlert).Methods("PATCH")
	authed.HandleFunc("/alerts/{id}", s.handleDeleteAlert).Methods("DELETE")
	authed.HandleFunc("/alerts/{id}/toggle", s.handleToggleAlert).Methods("POST")

	authed.HandleFunc("/anomalies", s.handleListAnomalies).Methods("GET")
	authed.HandleFunc("/anomalies/{id}/acknowledge", s.handleAcknowledgeAnomaly).Methods("POST")

	authed.HandleFunc("/reports/sections", s.handleReportSections).Methods("GET")
	authed.HandleFunc("/reports/export", s.handleExportReport).Methods("POST")
	authed.HandleFunc("/reports/download/{ref}", s.handleDownloadReport).Methods("GET")

	s.router.Use(s.loggingMiddleware)
}

// Bootstrap seeds the analytics view and the alert and anomaly stores from
// the data boundary. Fetch failures are recorded as error notes on the view
// and do not abort startup.
func (s *Server) Bootstrap(ctx context.Context) error {
	return s.view.Refresh(ctx,
		s.config.Data.DefaultSourceID, "default", s.config.Data.HorizonDays, tier.Free)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":  "healthy",
		"version": "0.1.0",
		"uptime":  time.Since(s.startTime).Seconds(),
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(health)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ready := map[string]interface{}{
		"ready":     true,
		"memory_mb": getMemoryUsageMB(),
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ready)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	version := map[string]string{
		"version": "0.1.0",
		"go":      runtime.Version(),
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(version)
}

func (s *Server) Start() error {
	s.logger.Info("Starting server", zap.Int("port", s.config.Server.Port))
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func getMemoryUsageMB() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc / 1024 / 1024
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&s.requestCount, 1)
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		s.metrics.IncrementRequest(r.Method, r.URL.Path, rec.status)
		s.metrics.RecordLatency(r.Method, r.URL.Path, elapsed.Seconds())

		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("latency", elapsed),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
