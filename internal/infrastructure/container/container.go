// Package container provides dependency injection using Uber FX
// This implements the Dependency Inversion Principle from SOLID
package container

import (
	"context"

	"github.com/fitforge/backend/internal/application/healthctx"
	"github.com/fitforge/backend/internal/application/planner"
	"github.com/fitforge/backend/internal/infrastructure/ai/huggingface"
	"github.com/fitforge/backend/internal/infrastructure/config"
	"github.com/fitforge/backend/internal/infrastructure/http/handlers"
	"github.com/fitforge/backend/internal/infrastructure/http/middleware"
	"github.com/fitforge/backend/internal/infrastructure/http/server"
	"github.com/fitforge/backend/internal/infrastructure/search/qdrant"
	"github.com/fitforge/backend/internal/ports/inbound"
	"github.com/fitforge/backend/internal/ports/outbound"
	"github.com/fitforge/backend/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	MetricsModule,
	ClientModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// MetricsModule provides the metrics registry. A dedicated registry keeps
// the /metrics output limited to what this service registers.
var MetricsModule = fx.Provide(
	func() *prometheus.Registry {
		return prometheus.NewRegistry()
	},
	func(reg *prometheus.Registry) prometheus.Registerer { return reg },
	func(reg *prometheus.Registry) prometheus.Gatherer { return reg },
)

// ClientModule provides the outbound clients
var ClientModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) *huggingface.Client {
		return huggingface.NewClient(huggingface.Config{
			BaseURL:         cfg.AI.BaseURL,
			APIKey:          cfg.AI.APIKey,
			EmbeddingModel:  cfg.AI.EmbeddingModel,
			CompletionModel: cfg.AI.CompletionModel,
			Timeout:         cfg.AITimeout(),
			MaxAttempts:     cfg.AI.MaxAttempts,
		}, log)
	},
	func(c *huggingface.Client) outbound.CompletionService { return c },
	func(c *huggingface.Client) outbound.EmbeddingService { return c },

	fx.Annotate(
		func(cfg *config.Config, log *zap.Logger) *qdrant.Client {
			return qdrant.NewClient(qdrant.Config{
				URL:        cfg.Qdrant.URL,
				APIKey:     cfg.Qdrant.APIKey,
				Collection: cfg.Qdrant.Collection,
				MinScore:   cfg.Qdrant.MinScore,
			}, log)
		},
		fx.As(new(outbound.HealthConstraintIndex)),
	),
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(
		embedder outbound.EmbeddingService,
		index outbound.HealthConstraintIndex,
		cfg *config.Config,
		log *zap.Logger,
	) *healthctx.Retriever {
		return healthctx.NewRetriever(embedder, index, cfg.Qdrant.TopK, log)
	},

	func(reg prometheus.Registerer) *planner.Metrics {
		return planner.NewMetrics(reg)
	},

	fx.Annotate(
		func(
			completion outbound.CompletionService,
			retriever *healthctx.Retriever,
			cfg *config.Config,
			metrics *planner.Metrics,
			log *zap.Logger,
		) *planner.Service {
			return planner.NewService(completion, retriever, cfg.AI.MaxTokens, metrics, log)
		},
		fx.As(new(inbound.PlannerService)),
	),
)

// HTTPModule provides the HTTP layer
var HTTPModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger, reg prometheus.Registerer) *middleware.Middleware {
		return middleware.New(cfg, log, reg)
	},
	handlers.NewPlanAPIHandlers,
	server.NewServer,
)

// LifecycleModule manages the server lifecycle
var LifecycleModule = fx.Invoke(
	func(lc fx.Lifecycle, srv *server.Server, log *zap.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					if err := srv.Start(); err != nil {
						log.Fatal("HTTP server failed", zap.Error(err))
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return srv.Shutdown(ctx)
			},
		})
	},
)
