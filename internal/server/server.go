// Package server exposes the AND/OR search over HTTP.
//
// Routes:
//
//	POST /v1/search    search a JSON graph document from a start node
//	POST /v1/validate  check a JSON graph document for structural errors
//	GET  /healthz      liveness check
//	GET  /metrics      Prometheus metrics
//
// Graphs are bounded in size and every search in work (Config.MaxVisits);
// a search over the budget fails with LIMIT_EXCEEDED.
//
// Every response carries an X-Request-ID header. Errors are returned as
// {"error": {"code": ..., "message": ...}, "request_id": ...} with the
// status from errors.HTTPStatus.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/aostar/pkg/pipeline"
)

// Defaults for Config fields left at zero.
const (
	DefaultAddr         = "localhost:8080"
	DefaultMaxBodyBytes = 8 << 20
	DefaultMaxNodes     = 100_000
	DefaultMaxEdges     = 1_000_000
	DefaultMaxVisits    = 1_000_000

	shutdownTimeout = 5 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr         string
	MaxBodyBytes int64
	MaxNodes     int // Largest graph accepted by /v1/search and /v1/validate
	MaxEdges     int
	MaxVisits    int // Work budget of one search; see andor.WithMaxVisits
	Logger       *log.Logger
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.MaxNodes == 0 {
		c.MaxNodes = DefaultMaxNodes
	}
	if c.MaxEdges == 0 {
		c.MaxEdges = DefaultMaxEdges
	}
	if c.MaxVisits <= 0 {
		c.MaxVisits = DefaultMaxVisits
	}
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Server is the HTTP API. Create it with New.
type Server struct {
	cfg     Config
	logger  *log.Logger
	runner  *pipeline.Runner
	metrics *Metrics
	router  chi.Router
}

// New builds a server and its routes. Metrics are collected on a private
// registry; call observability.SetSearchHooks and SetHTTPHooks with
// Metrics() to feed it.
func New(cfg Config) *Server {
	cfg.setDefaults()
	s := &Server{
		cfg:     cfg,
		logger:  cfg.Logger,
		runner:  pipeline.NewRunner(cfg.Logger),
		metrics: NewMetrics(),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Post("/validate", s.handleValidate)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Metrics returns the server's Prometheus collectors.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.cfg.Addr }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
