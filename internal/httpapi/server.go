// internal/httpapi/server.go
package httpapi

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"
	"strings"
	"time"

	apperrors "leadgen/internal/common/errors"
	"leadgen/internal/common/logger"
	"leadgen/internal/leads/app"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed web
var webFS embed.FS

type Config struct {
	CookieName string
	SessionTTL time.Duration
}

// ReadinessCheck reports whether backing services are reachable.
type ReadinessCheck func(ctx context.Context) error

// Server exposes the lead controller over JSON.
type Server struct {
	config     *Config
	controller *app.Controller
	errHandler *apperrors.ErrorHandler
	ready      ReadinessCheck
	logger     logger.Logger
}

func NewServer(config *Config, controller *app.Controller, ready ReadinessCheck, log logger.Logger) *Server {
	if config.CookieName == "" {
		config.CookieName = "leadgen_session"
	}
	log = log.With(map[string]interface{}{"component": "httpapi"})
	return &Server{
		config:     config,
		controller: controller,
		errHandler: apperrors.NewErrorHandler(log),
		ready:      ready,
		logger:     log,
	}
}

// Handler returns the full route table wrapped in middleware.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /api/catalog", s.handleCatalog)
	api.HandleFunc("GET /api/state", s.handleState)
	api.HandleFunc("POST /api/query", s.handleQuery)
	api.HandleFunc("POST /api/location", s.handleLocation)
	api.HandleFunc("POST /api/geolocation", s.handleGeolocation)
	api.HandleFunc("POST /api/search", s.handleSearch(false))
	api.HandleFunc("POST /api/load-more", s.handleSearch(true))
	api.HandleFunc("POST /api/clear", s.handleClear)
	api.HandleFunc("POST /api/filter", s.handleFilter)
	api.HandleFunc("POST /api/filter/locate", s.handleLocateFilter)
	api.HandleFunc("POST /api/selection/toggle", s.handleToggle)
	api.HandleFunc("POST /api/selection/all", s.handleSelectAll)
	api.HandleFunc("GET /api/export/{format}", s.handleExport)
	api.HandleFunc("POST /api/map/view", s.handleMapView)
	api.HandleFunc("POST /api/map/marker", s.handleMarker)
	api.HandleFunc("POST /api/map/search-area", s.handleSearchArea)

	static, _ := fs.Sub(webFS, "web")

	mux := http.NewServeMux()
	mux.Handle("/api/", withSession(s.config.CookieName, s.config.SessionTTL, api))
	mux.Handle("GET /{$}", withSession(s.config.CookieName, s.config.SessionTTL, http.FileServerFS(static)))
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	routeOf := func(r *http.Request) string {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			_, pattern := api.Handler(r)
			return pattern
		}
		_, pattern := mux.Handler(r)
		return pattern
	}
	return withLogging(s.logger, routeOf, mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			s.errHandler.HandleHTTPError(w, r, apperrors.NewServiceUnavailableError(err))
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
