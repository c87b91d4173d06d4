// Package api provides the HTTP API server and handlers for the ClipStream application.
package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/clipstream/clipstream-server/internal/config"
	"github.com/clipstream/clipstream-server/internal/media"
	"github.com/clipstream/clipstream-server/internal/store"
)

// apiVersion is reported in the OpenAPI document.
const apiVersion = "1.0.0"

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           *store.Store
	services        *Services
	storage         *media.Storage
	uploadLimits    config.UploadConfig
	router          *chi.Mux
	api             huma.API
	authRateLimiter *RateLimiter
	logger          *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(store *store.Store, services *Services, storage *media.Storage, cfg *config.Config, logger *slog.Logger) *Server {
	s := &Server{
		store:           store,
		services:        services,
		storage:         storage,
		uploadLimits:    cfg.Upload,
		router:          chi.NewRouter(),
		authRateLimiter: NewRateLimiter(20, time.Minute, 10),
		logger:          logger,
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig(cfg.Server.Name, apiVersion)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases resources held by the server.
func (s *Server) Close() {
	s.authRateLimiter.Stop()
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Identity resolution runs for every request so Huma handlers can
	// read the user ID from context.
	s.router.Use(identityMiddleware(s.services.Auth))

	// Credential endpoints are brute-force targets; everything else is
	// left unlimited.
	limit := RateLimitMiddleware(s.authRateLimiter, s.logger)
	s.router.Use(func(next http.Handler) http.Handler {
		limited := limit(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/api/v1/auth/") {
				limited.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	})
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerVideoRoutes()
	s.registerCommentRoutes()
	s.registerSocialRoutes()
	s.registerSearchRoutes()

	// Multipart upload bypasses Huma; it's registered directly on chi.
	s.router.Post("/api/v1/videos", s.handleUploadVideo)

	// Uploaded media is served as plain static files.
	s.router.Handle(media.URLPrefix+"/*", http.StripPrefix(media.URLPrefix+"/",
		http.FileServer(http.Dir(s.storage.Root()))))
}
