// Package api exposes the scouting backend over REST.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/scout-api/internal/enrich"
	"github.com/sells-group/scout-api/internal/store"
)

// Server bundles the handlers' dependencies.
type Server struct {
	store    store.Store
	enricher *enrich.Service
}

// NewServer creates a Server.
func NewServer(st store.Store, enricher *enrich.Service) *Server {
	return &Server{store: st, enricher: enricher}
}

// Handler builds the routing tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/companies", func(r chi.Router) {
			r.Get("/", s.listCompanies)
			r.Post("/", s.createCompany)
			r.Get("/{id}", s.getCompany)
			r.Put("/{id}", s.updateCompany)
			r.Delete("/{id}", s.deleteCompany)
		})

		r.Route("/enrich", func(r chi.Router) {
			r.Get("/{companyId}", s.getEnrichment)
			r.Post("/", s.enrichCompany)
		})

		r.Route("/lists", func(r chi.Router) {
			r.Get("/", s.listLists)
			r.Post("/", s.createList)
			r.Get("/{id}", s.getList)
			r.Delete("/{id}", s.deleteList)
			r.Put("/{id}/add", s.addToList)
			r.Put("/{id}/remove", s.removeFromList)
			r.Get("/{id}/export", s.exportList)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Get("/{companyId}", s.listNotes)
			r.Post("/", s.createNote)
			r.Delete("/{id}", s.deleteNote)
		})
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
