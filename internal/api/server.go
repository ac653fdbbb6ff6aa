// internal/api/server.go
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riandyrn/otelchi"

	"pro-discovery/internal/common/config"
	"pro-discovery/internal/common/logger"
	"pro-discovery/internal/models"
)

// Discovery is the read API the HTTP handlers serve.
type Discovery interface {
	Search(ctx context.Context, req models.SearchFilterRequest) (*models.SearchResult, error)
	Suggest(ctx context.Context, req models.SuggestRequest) ([]models.Suggestion, error)
	Facets(ctx context.Context) (*models.Facets, error)
}

// ReadinessCheck pings one backing store. A failing optional check marks the
// service degraded but keeps it ready.
type ReadinessCheck struct {
	Name     string
	Ping     func(ctx context.Context) error
	Optional bool
}

type Server struct {
	cfg         config.ServerConfig
	serviceName string
	discovery   Discovery
	checks      []ReadinessCheck
	logger      logger.Logger
	router      chi.Router
	server      *http.Server
}

func NewServer(cfg config.ServerConfig, serviceName string, discovery Discovery, checks []ReadinessCheck, log logger.Logger) *Server {
	s := &Server{
		cfg:         cfg,
		serviceName: serviceName,
		discovery:   discovery,
		checks:      checks,
		logger:      log.WithFields(map[string]interface{}{"component": "http"}),
	}
	s.router = s.routes()
	return s
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(otelchi.Middleware(s.serviceName, otelchi.WithChiRoutes(r)))
	r.Use(s.accessLog)
	if timeout := time.Duration(s.cfg.RequestTimeout) * time.Millisecond; timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}

	r.Get("/health", s.health)
	r.Get("/ready", s.ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/professionals/search", s.searchProfessionals)
		r.Get("/search/suggestions", s.suggestions)
		r.Get("/search/facets", s.facets)
	})
	return r
}

// Start serves in the background. Listen errors other than a clean shutdown are logged.
func (s *Server) Start() {
	s.server = &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(s.cfg.WriteTimeout) * time.Millisecond,
	}

	go func() {
		s.logger.Info("http server listening", map[string]interface{}{"address": s.cfg.Address})
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", map[string]interface{}{"error": err.Error()})
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server graceful shutdown failed: %w", err)
	}
	s.logger.Info("http server stopped", nil)
	return nil
}
