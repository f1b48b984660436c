// Package server provides the HTTP server for the plan generation API
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fitforge/backend/internal/infrastructure/config"
	"github.com/fitforge/backend/internal/infrastructure/http/handlers"
	"github.com/fitforge/backend/internal/infrastructure/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server represents the HTTP server
type Server struct {
	config *config.Config
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	planHandlers *handlers.PlanAPIHandlers,
	mw *middleware.Middleware,
	gatherer prometheus.Gatherer,
) (*Server, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if len(cfg.Server.TrustedProxies) > 0 {
		if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
			return nil, fmt.Errorf("invalid trusted proxies: %w", err)
		}
	}

	router.Use(
		mw.RequestID(),
		mw.Recovery(),
		mw.Logger(),
		mw.Security(),
		mw.CORS(),
		mw.RateLimit(),
		mw.Timeout(cfg.Server.RequestTimeout),
		mw.ErrorHandler(),
	)

	router.GET("/health", planHandlers.Health)
	if cfg.Server.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	ai := router.Group("/ai")
	{
		ai.POST("/generate-diet", planHandlers.GenerateDiet)
		ai.POST("/generate-workout", planHandlers.GenerateWorkout)
	}

	return &Server{
		config: cfg,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}, nil
}

// Start begins serving requests. It blocks until the listener fails or the
// server is shut down.
func (s *Server) Start() error {
	s.logger.Info("HTTP server starting",
		zap.String("addr", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server, draining in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.server.Shutdown(ctx)
}
