// Package server implements the lineplanner HTTP API.
//
// The API exposes the in-memory line network for editing from a browser
// frontend: creating lines, adding stops, exporting GeoJSON, and saving
// or restoring snapshots through a configurable storage backend.
//
// All mutating handlers serialize through a single mutex; the network
// store itself is not safe for concurrent use.
package server

import (
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/lineplanner/pkg/network"
	"github.com/matzehuels/lineplanner/pkg/storage"
)

// =============================================================================
// Server
// =============================================================================

// Server holds the network state and its persistence backend.
type Server struct {
	mu      sync.Mutex
	net     *network.Store
	store   storage.Store
	logger  *log.Logger
	origins []string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. Defaults to a stderr logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithStorage sets the snapshot backend. Defaults to an in-memory store.
func WithStorage(st storage.Store) Option {
	return func(s *Server) { s.store = st }
}

// WithCORSOrigins sets the origins allowed to call the API from a browser.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) { s.origins = origins }
}

// New creates a Server around the given network store.
func New(net *network.Store, opts ...Option) *Server {
	s := &Server{
		net:    net,
		store:  storage.NewMemoryStore(),
		logger: log.New(os.Stderr),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(s.cors)

	r.Get("/healthz", s.handleHealth)

	r.Route("/lines", func(r chi.Router) {
		r.Get("/", s.handleListLines)
		r.Post("/", s.handleCreateLine)
		r.Get("/{lineID}", s.handleGetLine)
		r.Patch("/{lineID}", s.handleRenameLine)
		r.Get("/{lineID}/path", s.handleLinePath)
		r.Post("/{lineID}/points", s.handleAddPoint)
		r.Put("/{lineID}/points/{pointID}", s.handleAttachPoint)
	})

	r.Route("/points", func(r chi.Router) {
		r.Get("/", s.handleListPoints)
		r.Get("/{pointID}", s.handleGetPoint)
	})

	r.Route("/network", func(r chi.Router) {
		r.Get("/", s.handleExport)
		r.Put("/", s.handleImport)
		r.Get("/geojson", s.handleGeoJSON)
	})

	r.Route("/snapshots", func(r chi.Router) {
		r.Get("/", s.handleListSnapshots)
		r.Post("/", s.handleSaveSnapshot)
		r.Post("/{snapshotID}/restore", s.handleRestoreSnapshot)
	})

	return r
}

// =============================================================================
// Middleware
// =============================================================================

// logRequests logs one line per request with method, path, status and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}

// cors allows the configured frontend origins to call the API.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			h.Set("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, o := range s.origins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

// =============================================================================
// Shared state helpers
// =============================================================================

// withNetwork runs fn while holding the store mutex.
func (s *Server) withNetwork(fn func(n *network.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.net)
}
