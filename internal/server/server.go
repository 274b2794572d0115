// Package server provides the HTTP server setup and wiring.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/pendergraft/framemint/internal/config"
	frameDomain "github.com/pendergraft/framemint/internal/frame/domain"
	frameTransport "github.com/pendergraft/framemint/internal/frame/transport"
	"github.com/pendergraft/framemint/internal/middleware/logging"
	"github.com/pendergraft/framemint/internal/middleware/ratelimit"
	"github.com/pendergraft/framemint/internal/middleware/realip"
	"github.com/pendergraft/framemint/internal/middleware/security"
	"github.com/pendergraft/framemint/internal/mint"
	"github.com/pendergraft/framemint/internal/observability/metrics"
	"github.com/pendergraft/framemint/internal/recipient"
	"github.com/pendergraft/framemint/internal/views"
)

// Server is the HTTP server
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	router  *chi.Mux
	catalog *views.Catalog

	frameSvc    frameTransport.Service
	stopLimiter func()
}

// New creates a new server around the given collaborators.
func New(cfg *config.Config, c Collaborators, logger *slog.Logger) (*Server, error) {
	catalog, err := NewCatalog(cfg)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		router:  chi.NewRouter(),
		catalog: catalog,
	}

	frameImpl := frameDomain.NewService(frameDomain.Dependencies{
		Resolver:     recipient.NewResolver(c.ENS, c.SNS),
		Builder:      mint.NewBuilder(cfg.Crossmint.Collections),
		Minter:       c.Minter,
		Validator:    c.Validator,
		Views:        catalog,
		CrossmintEnv: cfg.Crossmint.Env,
	})
	s.frameSvc = frameDomain.LoggingMiddleware(logger)(frameImpl)

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// NewCatalog builds the view catalog, applying the views file when one is
// configured.
func NewCatalog(cfg *config.Config) (*views.Catalog, error) {
	var overrides *views.Overrides
	if cfg.Views.File != "" {
		o, err := views.LoadOverrides(cfg.Views.File)
		if err != nil {
			return nil, fmt.Errorf("loading views: %w", err)
		}
		overrides = o
	}
	return views.NewCatalog(cfg.Frame.PublicURL, cfg.Crossmint.Env, overrides), nil
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases background resources.
func (s *Server) Close() {
	if s.stopLimiter != nil {
		s.stopLimiter()
	}
}

func (s *Server) setupMiddleware() {
	// Order matters! Security middleware runs first to block malicious requests early.

	// 1. Real IP extraction (must be first to set client IP for other middleware)
	s.router.Use(realip.Middleware(realip.Config{
		TrustProxy:     s.cfg.Proxy.TrustProxy,
		TrustedProxies: s.cfg.Proxy.TrustedProxies,
	}))

	// 2. Security filter
	s.router.Use(security.Filter(s.cfg.Security.FilterEnabled))

	// 3. Body size limit
	s.router.Use(security.LimitBody(s.cfg.Security.MaxBodySizeKB))

	// 4. Rate limiting (bypasses health checks)
	limit, stop := ratelimit.Middleware(ratelimit.Config{
		Enabled:        s.cfg.RateLimit.Enabled,
		RequestsPerMin: s.cfg.RateLimit.RequestsPerMin,
		BurstSize:      s.cfg.RateLimit.BurstSize,
		CleanupMinutes: s.cfg.RateLimit.CleanupMinutes,
		Exempt:         []string{"/health", "/healthz", "/readyz", "/metrics"},
	})
	s.stopLimiter = stop
	s.router.Use(limit)

	// 5. Standard middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(logging.Middleware(s.logger))
	s.router.Use(metrics.Middleware)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(time.Duration(s.cfg.Server.RequestTimeout) * time.Second))
	}

	// 6. CORS; frame debuggers post from the browser
	s.router.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}).Handler)
}

func (s *Server) setupRoutes() {
	// Health checks
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/readyz", s.handleHealth)

	if metrics.Enabled() {
		s.router.Handle("/metrics", metrics.Handler())
	}

	frameHandler := frameTransport.NewHandler(s.frameSvc, s.catalog, s.logger)
	frameHandler.RegisterRoutes(s.router)

	// Frame images and any other public assets
	if dir := s.cfg.Server.StaticDir; dir != "" {
		files := http.FileServer(http.Dir(dir))
		s.router.Get("/*", files.ServeHTTP)
		s.router.Head("/*", files.ServeHTTP)
	}
}

// Health check handler
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
