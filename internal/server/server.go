// Package server exposes the card pipeline over HTTP.
//
// Routes (all JSON unless noted):
//
//	GET    /healthz
//	GET    /api/v1/styles
//	GET    /api/v1/occasions
//	GET    /api/v1/backgrounds
//	POST   /api/v1/users/{userID}/cards
//	GET    /api/v1/users/{userID}/cards
//	GET    /api/v1/users/{userID}/cards/{name}   (image/png)
//	DELETE /api/v1/users/{userID}/cards
//
// Renders run in the request goroutine and stop when the client goes away.
package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/postcard/pkg/catalog"
	"github.com/matzehuels/postcard/pkg/pipeline"
	"github.com/matzehuels/postcard/pkg/storage"
)

const shutdownTimeout = 10 * time.Second

// Options wires the server to the rest of the application.
type Options struct {
	Runner         *pipeline.Runner
	Store          *storage.Store
	Occasions      *catalog.Occasions
	BackgroundsDir string
	Logger         *log.Logger
	AllowedOrigins []string // CORS; empty disables
	PublicURL      string   // prefix for card URLs; empty gives relative URLs
}

// Server is the HTTP API.
type Server struct {
	runner         *pipeline.Runner
	store          *storage.Store
	occasions      *catalog.Occasions
	backgroundsDir string
	logger         *log.Logger
	publicURL      string
	router         chi.Router
}

// New builds the router. Runner and Store are required.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Occasions == nil {
		opts.Occasions = catalog.DefaultOccasions()
	}
	s := &Server{
		runner:         opts.Runner,
		store:          opts.Store,
		occasions:      opts.Occasions,
		backgroundsDir: opts.BackgroundsDir,
		logger:         opts.Logger,
		publicURL:      strings.TrimSuffix(opts.PublicURL, "/"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/styles", s.handleListStyles)
		r.Get("/occasions", s.handleListOccasions)
		r.Get("/backgrounds", s.handleListBackgrounds)
		r.Route("/users/{userID}/cards", func(r chi.Router) {
			r.Post("/", s.handleCreateCards)
			r.Get("/", s.handleListCards)
			r.Delete("/", s.handleClearCards)
			r.Get("/{name}", s.handleGetCard)
		})
	})
	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
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
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}
