// Package server implements the domainmap HTTP API.
//
// The API exposes two resource families:
//
//   - datasets: uploaded workbooks, assembled into node tables and persisted
//     in the dataset store keyed by content hash
//   - sessions: per-viewer focus state over one dataset, driving the
//     resolved, highlighted views
//
// All responses are JSON. Errors carry a machine-readable code from
// pkg/errors alongside the message.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mkoller/domainmap/pkg/pipeline"
	"github.com/mkoller/domainmap/pkg/session"
	"github.com/mkoller/domainmap/pkg/store"
)

// Server wires the pipeline, dataset store and session store behind the
// HTTP API.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	sessions session.Store
	logger   *log.Logger

	// LeafDeps is the server-wide default for dependency matching; requests
	// can override it per view.
	LeafDeps bool
}

// New creates a server. A nil session store gets an in-memory one; runner and
// dataset store are required.
func New(runner *pipeline.Runner, datasets store.Store, sessions session.Store, logger *log.Logger) *Server {
	if sessions == nil {
		sessions = session.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner:   runner,
		store:    datasets,
		sessions: sessions,
		logger:   logger,
	}
}

// Router builds the chi router with all API routes registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Route("/datasets", func(r chi.Router) {
			r.Post("/", s.handleCreateDataset)
			r.Get("/", s.handleListDatasets)
			r.Get("/{dataset}/nodes", s.handleDatasetNodes)
		})
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{session}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Get("/view", s.handleView)
				r.Post("/focus", s.handleFocus)
				r.Post("/search", s.handleSearch)
				r.Post("/reset", s.handleReset)
			})
		})
	})

	r.Get("/healthz", s.handleHealth)

	return r
}

// logRequests logs one line per request with the structured logger.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
