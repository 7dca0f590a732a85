package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/jezper/faver/internal/curator"
	"github.com/jezper/faver/internal/web/handlers"
)

// Server is the review API server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
}

// NewServer creates the review API server around a curator. The place
// labeler is optional; nil leaves moments unlabeled.
func NewServer(c *curator.Curator, places handlers.PlaceLabeler, port int, host string) *Server {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(2 * time.Minute))

	s := &Server{router: r}
	s.setupRoutes(c, places)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute, // rebuilds enumerate the whole library
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes(c *curator.Curator, places handlers.PlaceLabeler) {
	momentsHandler := handlers.NewMomentsHandler(c, places)
	reviewHandler := handlers.NewReviewHandler(c)
	mapHandler := handlers.NewMapHandler(c)

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/rebuild", momentsHandler.Rebuild)
		r.Get("/moments", momentsHandler.List)
		r.Get("/moments/suggested", momentsHandler.Suggested)

		r.Post("/events/{id}/reviewed", reviewHandler.MarkReviewed)
		r.Post("/events/{id}/curated", reviewHandler.SetCurated)

		r.Get("/map/pins", mapHandler.Pins)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	log.Printf("Starting review server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down review server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Router returns the chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
