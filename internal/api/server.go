package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/docanchor/internal/config"
	"github.com/dgallion1/docanchor/internal/store"
)

// Server is the HTTP API server for docanchor.
type Server struct {
	router chi.Router
	store  store.Store
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(st store.Store, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store: st,
		log:   log,
		cfg:   cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Route("/api/books/{bookID}", func(r chi.Router) {
			r.Get("/highlights", s.handleListHighlights)
			r.Delete("/highlights", s.handleDeleteByText)
			r.Post("/chapters/{chapterIdx}/highlights", s.handleCreateHighlight)
			r.Post("/chapters/{chapterIdx}/anchor", s.handleAnchorChapter)
		})

		r.Put("/api/highlights/{id}/note", s.handleUpdateNote)
		r.Delete("/api/highlights/{id}", s.handleDeleteHighlight)

		r.Post("/api/scroll", s.handleScroll)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
