// Package server exposes a diagram store over a local JSON HTTP API.
//
// The store is single-writer, so every request holding it runs under one
// mutex. Exports snapshot the store under the lock and render outside it.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/sysmlite/pkg/diagram"
	"github.com/matzehuels/sysmlite/pkg/export"
	diagramio "github.com/matzehuels/sysmlite/pkg/io"
)

// ShutdownTimeout bounds graceful shutdown in ListenAndServe.
const ShutdownTimeout = 5 * time.Second

// Server serves one diagram store.
type Server struct {
	mu       sync.Mutex
	store    *diagram.Store
	runner   *export.Runner
	logger   *log.Logger
	origins  []string
	autosave string
	defaults export.Options
}

// Option configures a Server.
type Option func(*Server)

// WithCORSOrigins sets the allowed browser origins. Wildcards such as
// "http://localhost:*" are accepted.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithAutosave writes the snapshot to path after every successful mutation.
func WithAutosave(path string) Option {
	return func(s *Server) { s.autosave = path }
}

// WithExportDefaults sets the options export requests start from.
func WithExportDefaults(opts export.Options) Option {
	return func(s *Server) { s.defaults = opts }
}

// New creates a server around store. A nil runner renders without caching.
func New(store *diagram.Store, runner *export.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = export.NewRunner(nil, nil, logger)
	}
	s := &Server{store: store, runner: runner, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))
	if len(s.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/snapshot", s.getSnapshot)
		r.Put("/snapshot", s.putSnapshot)

		r.Post("/elements", s.addElement)
		r.Patch("/elements/{id}", s.updateElement)

		r.Get("/placements/{id}", s.getPlacement)
		r.Post("/placements/changes", s.placementChanges)

		r.Post("/connections", s.connect)
		r.Patch("/connections/{id}", s.updateConnection)
		r.Delete("/connections/{id}", s.deleteConnection)
		r.Post("/connections/changes", s.connectionChanges)

		r.Get("/selection", s.getSelection)
		r.Put("/selection", s.putSelection)

		r.Get("/export/{format}", s.exportFormat)
	})

	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// mutate runs fn under the store lock and autosaves when fn reports a change.
func (s *Server) mutate(fn func(*diagram.Store) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := fn(s.store)
	if changed && s.autosave != "" {
		if err := diagramio.ExportJSON(s.store.Snapshot(), s.autosave); err != nil {
			s.logger.Warn("autosave failed", "path", s.autosave, "err", err)
		}
	}
	return changed
}

// read runs fn under the store lock.
func (s *Server) read(fn func(*diagram.Store)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.store)
}
