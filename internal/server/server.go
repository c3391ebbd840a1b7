package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mkrentals/backoffice/internal/config"
	"github.com/mkrentals/backoffice/internal/handler"
	"github.com/mkrentals/backoffice/internal/server/middleware"
	"github.com/mkrentals/backoffice/internal/service"
	"github.com/mkrentals/backoffice/internal/ui"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	LoginRateLimit  int // per IP per minute on login and setup; 0 disables
	BaseURL         string
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            8080,
		ShutdownTimeout: 30 * time.Second,
		LoginRateLimit:  10,
	}
}

// ConfigFromSettings derives the server configuration from process settings.
func ConfigFromSettings(s config.Settings) Config {
	cfg := DefaultConfig()
	cfg.Host = s.Server.Host
	cfg.Port = s.Server.Port
	cfg.CORSOrigins = s.Server.CORSOrigins
	cfg.LoginRateLimit = s.Server.LoginRateLimit
	cfg.BaseURL = s.App.BaseURL
	return cfg
}

// Services bundles the collaborators the HTTP layer needs.
type Services struct {
	Store     *config.Store
	Auth      *service.AuthService
	Bootstrap *service.BootstrapCoordinator
	Sessions  *service.SessionManager
}

// Server is the top-level HTTP server for the back office. It owns the Chi
// router and routes every request through the session guard.
type Server struct {
	cfg        Config
	router     chi.Router
	svc        Services
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a new Server, wires up all routes and middleware, and returns
// it ready to listen. Call ListenAndServe to start accepting connections.
func New(cfg Config, svc Services, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		svc:    svc,
		logger: logger,
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// --- Global middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	if len(s.cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(chimw.Compress(5))
	// Single chokepoint for every page route; the allow-list lives in the
	// middleware.
	r.Use(middleware.Guard(s.svc.Sessions, s.logger))

	// --- Health checks (no auth required) ---
	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)

	// --- OpenAPI document (no auth required) ---
	r.Get("/openapi.json", handler.NewOpenAPIHandler(s.svc.Sessions.CookieName(), s.cfg.BaseURL).ServeSpec)

	// --- API routes ---
	authHandler := handler.NewAuthHandler(s.svc.Auth, s.svc.Sessions, s.logger)
	setupHandler := handler.NewSetupHandler(s.svc.Bootstrap, s.logger)
	limit := middleware.RateLimit(s.cfg.LoginRateLimit)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(limit).Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.With(middleware.RequireSession(s.svc.Sessions)).Get("/me", authHandler.Me)
		})
		r.Route("/setup", func(r chi.Router) {
			r.Get("/check", setupHandler.Check)
			r.With(limit).Post("/", setupHandler.Setup)
		})
	})

	// --- Embedded pages ---
	files, err := ui.Files()
	if err != nil {
		s.logger.Error("failed to create sub filesystem for UI", "error", err)
	} else {
		pages := handler.NewPageHandler(files, s.svc.Sessions, s.logger)
		static := pages.Static()
		r.Handle("/assets/*", static)
		r.Handle("/favicon.ico", static)
		r.Handle("/robots.txt", static)
		r.Get("/login", pages.Login)
		// Every other page is the dashboard shell, behind the guard.
		r.Get("/*", pages.Dashboard)
	}

	s.router = r
}

// handleHealthz is a liveness probe. Returns 200 if the process is running.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// handleReadyz is a readiness probe. Returns 200 when the credential store
// is reachable, or 503 otherwise.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	httpStatus := http.StatusOK
	checks := map[string]string{"store": "ok"}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.svc.Store.Ping(ctx); err != nil {
		s.logger.Warn("readiness check failed", "check", "store", "error", err)
		checks["store"] = "unavailable"
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}

// ListenAndServe starts the HTTP server and blocks until a SIGINT or SIGTERM
// is received. It then performs a graceful shutdown, draining in-flight
// requests.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Listen for shutdown signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server in background goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server listen: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Router returns the underlying Chi router, useful for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler, delegating to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
