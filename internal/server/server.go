package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-buddy/backend/config"
	"github.com/pageza/recipe-buddy/backend/internal/api"
	"github.com/pageza/recipe-buddy/backend/internal/router"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	deps   *Dependencies
}

// New connects every dependency named by cfg and builds the server.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	deps, err := NewDependencies(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewWithDependencies(cfg, deps), nil
}

// NewWithDependencies builds the server over already connected dependencies.
func NewWithDependencies(cfg *config.Config, deps *Dependencies) *Server {
	handlers := api.NewHandlers(deps.Users, deps.Suggestions, deps.Limiter)
	r := router.SetupRouter(cfg, handlers)

	return &Server{
		router: r,
		deps:   deps,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and closes its dependencies.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	if cerr := s.deps.Close(); cerr != nil {
		log.Printf("Error closing dependencies: %v", cerr)
	}
	return err
}
