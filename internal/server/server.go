package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"

	"vigil/internal/engine"
	"vigil/internal/store"
)

// Server is the vigil HTTP API server.
type Server struct {
	db      *store.DB
	engine  *engine.Engine
	clock   clockwork.Clock
	router  chi.Router
	version string
	started time.Time
}

// New creates a new Server over the given store and scoring engine.
func New(db *store.DB, eng *engine.Engine, clock clockwork.Clock, version string) *Server {
	s := &Server{
		db:      db,
		engine:  eng,
		clock:   clock,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/seed", s.handleSeed)

		r.Post("/suppliers", s.handleCreateSupplier)
		r.Get("/suppliers", s.handleListSuppliers)
		r.Post("/suppliers/{supplierID}/issues", s.handleCreateIssue)
		r.Get("/suppliers/{supplierID}/risk", s.handleSupplierRisk)

		r.Post("/invoices", s.handleCreateInvoice)
		r.Post("/invoices/{invoiceID}/risk", s.handleProcessInvoice)

		r.Post("/lifecycle/sweep", s.handleSweep)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
