// Package server serves extracted Zig documentation over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"zigdoc/internal/collect"
	"zigdoc/internal/metrics"
	"zigdoc/internal/slogutil"
	"zigdoc/internal/store"
)

// Options configures a Server.
type Options struct {
	// Root is the directory whose files are served.
	Root string

	Collector *collect.Collector

	// Store enables /api/search when set.
	Store *store.Store

	HeadingLevel int

	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// Server represents the HTTP documentation server
type Server struct {
	router chi.Router
	server *http.Server

	root         string
	collector    *collect.Collector
	store        *store.Store
	headingLevel int

	logger   *slog.Logger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
}

// New creates a server listening on addr once started.
func New(addr string, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slogutil.NewDiscardLogger()
	}
	if opts.Collector == nil {
		opts.Collector = collect.New(collect.Options{Logger: opts.Logger, Metrics: opts.Metrics})
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.HeadingLevel == 0 {
		opts.HeadingLevel = 1
	}

	s := &Server{
		router:       chi.NewRouter(),
		root:         opts.Root,
		collector:    opts.Collector,
		store:        opts.Store,
		headingLevel: opts.HeadingLevel,
		logger:       opts.Logger,
		metrics:      opts.Metrics,
		gatherer:     opts.Gatherer,
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	r := s.router
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.logger, s.metrics))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/modules", s.handleListModules)
		r.Get("/modules/*", s.handleGetModule)
		if s.store != nil {
			r.Get("/search", s.handleSearch)
		}
	})

	r.Get("/docs", s.handleDocs)
	r.Get("/docs/*", s.handleDocs)
}

// Start listens and serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", "addr", s.server.Addr, "root", s.root)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
