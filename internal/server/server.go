// Package server exposes the solver over HTTP.
//
// Routes:
//
//	POST /v1/solve   grid text or {"grid": "...", "refresh": bool} -> solve result
//	POST /v1/graph   grid text or JSON                              -> dependency DAG
//	GET  /healthz                                                   -> {"status": "ok"}
//
// Errors are JSON objects {"code": ..., "message": ...} with status 400 for
// invalid input and 500 otherwise.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/beamsplit/pkg/observability"
	"github.com/matzehuels/beamsplit/pkg/pipeline"
)

// Config holds settings for [New].
type Config struct {
	Addr        string           // Address to listen on
	Runner      *pipeline.Runner // Shared solver; must not be nil
	Logger      *log.Logger
	Unreachable string // Default policy when a request names none

	// RequestTimeout bounds one request; zero means 30s.
	RequestTimeout time.Duration
}

// Server is the HTTP API.
type Server struct {
	addr        string
	runner      *pipeline.Runner
	logger      *log.Logger
	unreachable string
	timeout     time.Duration
}

// New creates a server from cfg.
func New(cfg Config) *Server {
	s := &Server{
		addr:        cfg.Addr,
		runner:      cfg.Runner,
		logger:      cfg.Logger,
		unreachable: cfg.Unreachable,
		timeout:     cfg.RequestTimeout,
	}
	if s.logger == nil {
		s.logger = cfg.Runner.Logger
	}
	if s.timeout == 0 {
		s.timeout = 30 * time.Second
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.solve)
		r.Post("/graph", s.graph)
	})
	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		d := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, route, ww.Status(), d)
		s.logger.Info("request",
			"method", r.Method,
			"route", route,
			"status", ww.Status(),
			"duration", d,
			"id", middleware.GetReqID(r.Context()))
	})
}
