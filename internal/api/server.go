package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"rent-reconciliation/internal/domain"
	"rent-reconciliation/internal/gateway"
)

// Reconciler runs a reconciliation over two uploaded files.
type Reconciler interface {
	Reconcile(ctx context.Context, ledger, statement domain.Upload) (*domain.Report, error)
}

// Config holds API server configuration.
type Config struct {
	Port           int
	MaxUploadMB    int
	AllowedOrigins []string
	ReportFormat   gateway.ReportFormat
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:         8000,
		MaxUploadMB:  32,
		ReportFormat: gateway.ReportXLSX,
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
	reconciler Reconciler
	writer     *gateway.ReportWriter
}

// NewServer creates a new API server.
func NewServer(cfg Config, reconciler Reconciler, writer *gateway.ReportWriter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = DefaultConfig().MaxUploadMB
	}
	if cfg.ReportFormat == "" {
		cfg.ReportFormat = gateway.ReportXLSX
	}

	s := &Server{
		config:     cfg,
		router:     chi.NewRouter(),
		logger:     logger,
		reconciler: reconciler,
		writer:     writer,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.Recoverer)
	s.router.Use(CORS(s.config.AllowedOrigins))
	s.router.Use(Logging(s.logger))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.health)
	s.router.Get("/", s.uploadForm)

	s.router.Post("/analyze", s.analyze)
	s.router.Post("/analyze/", s.analyze)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
