// Package server exposes the event catalog over a read-only JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gitlab.com/tinyland/lab/eventreel/pkg/catalog"
)

// Options configures a Server. Zero values get sensible defaults.
type Options struct {
	Addr            string
	RateLimit       float64 // requests per second per client; <= 0 disables
	RateBurst       int
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
	// Counter reports the live catalog size for /healthz. Optional.
	Counter interface{ Len() int }
}

// Server is the HTTP front of a catalog.Store.
type Server struct {
	store   catalog.Store
	opts    Options
	logger  *slog.Logger
	metrics *metrics
	reg     *prometheus.Registry
	handler http.Handler
	started time.Time
}

// New builds the router and middleware chain for store.
func New(store catalog.Store, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = "127.0.0.1:5000"
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 20
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	reg := prometheus.NewRegistry()
	s := &Server{
		store:   store,
		opts:    opts,
		logger:  opts.Logger,
		metrics: newMetrics(reg),
		reg:     reg,
		started: time.Now(),
	}
	s.handler = s.routes()
	return s
}

// readMethods are accepted on every API route; OPTIONS is answered by the
// CORS middleware.
var readMethods = []string{http.MethodGet, http.MethodOptions}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, s.recoverMiddleware, s.logMiddleware, s.metrics.middleware, corsMiddleware)
	if s.opts.RateLimit > 0 {
		r.Use(newRateLimiter(s.opts.RateLimit, s.opts.RateBurst, s.logger).middleware)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/events", s.handleEvents).Methods(readMethods...)
	// featured must precede {id} or it would be parsed as an id.
	api.HandleFunc("/events/featured", s.handleFeatured).Methods(readMethods...)
	api.HandleFunc("/events/{id}", s.handleEvent).Methods(readMethods...)
	api.HandleFunc("/events/{id}/photos", s.handlePhotos).Methods(readMethods...)
	api.HandleFunc("/categories", s.handleCategories).Methods(readMethods...)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	s.logger.Info("api shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
