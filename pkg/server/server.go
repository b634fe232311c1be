// Package server exposes mind map generation and snapshots over HTTP.
//
// Routes:
//
//	POST /generate          {"url": ..., "max_depth": 3} -> TreeModel
//	POST /save              {"modelData": ..., "filename": ...} -> {"success": true}
//	GET  /load/{name}       stored TreeModel
//	POST /delete/{name}     {"success": true}
//	GET  /list              {"files": [...]}
//	GET  /healthz
//	GET  /metrics           Prometheus exposition, when metrics are enabled
//
// /get_mindmap/{name} and /get_json_files remain as aliases of /load and
// /list for older front ends.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/wikimap/pkg/observability"
	"github.com/matzehuels/wikimap/pkg/pipeline"
	"github.com/matzehuels/wikimap/pkg/snapshot"
)

// maxBodyBytes bounds request bodies. Saved maps are the largest payload.
const maxBodyBytes = 8 << 20

// Options configures a [Server].
type Options struct {
	Runner  *pipeline.Runner
	Store   snapshot.Store
	Metrics *observability.Prometheus // nil disables /metrics
	Logger  *log.Logger

	// Defaults applied to generate requests.
	Concurrency int
	Timeout     time.Duration
}

// Server is the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	store   snapshot.Store
	metrics *observability.Prometheus
	logger  *log.Logger

	concurrency int
	timeout     time.Duration

	router chi.Router
}

// New builds the router. Runner and Store are required.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	s := &Server{
		runner:      opts.Runner,
		store:       opts.Store,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		concurrency: opts.Concurrency,
		timeout:     opts.Timeout,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(maxBodyBytes))

	r.Get("/healthz", s.handleHealth)
	r.Post("/generate", s.handleGenerate)
	r.Post("/save", s.handleSave)
	r.Get("/load/{name}", s.handleLoad)
	r.Post("/delete/{name}", s.handleDelete)
	r.Get("/list", s.handleList)

	r.Get("/get_mindmap/{name}", s.handleLoad)
	r.Get("/get_json_files", s.handleListLegacy)

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
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
}
