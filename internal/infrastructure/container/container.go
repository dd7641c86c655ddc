// Package container provides dependency injection using Uber FX
package container

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/savoria/engine/internal/application/recommend"
	"github.com/savoria/engine/internal/infrastructure/cache"
	"github.com/savoria/engine/internal/infrastructure/config"
	"github.com/savoria/engine/internal/infrastructure/http/server"
	"github.com/savoria/engine/internal/infrastructure/modelstore"
	"github.com/savoria/engine/internal/infrastructure/monitoring"
	"github.com/savoria/engine/internal/infrastructure/persistence/memory"
	"github.com/savoria/engine/internal/infrastructure/persistence/migrations"
	"github.com/savoria/engine/internal/infrastructure/persistence/postgres"
	"github.com/savoria/engine/internal/ports/inbound"
	"github.com/savoria/engine/internal/ports/outbound"
	"github.com/savoria/engine/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	RepositoryModule,
	EngineModule,
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

// DatabaseModule provides the PostgreSQL connection pool and runs the
// schema migrations before anything else touches the database.
var DatabaseModule = fx.Options(
	fx.Provide(
		func(cfg *config.Config, log *zap.Logger) (*pgxpool.Pool, error) {
			return postgres.NewPool(context.Background(), cfg, log)
		},
	),
	fx.Invoke(func(cfg *config.Config, pool *pgxpool.Pool, log *zap.Logger) error {
		if !cfg.Database.AutoMigrate {
			return nil
		}
		migrator, err := migrations.New(pool, log)
		if err != nil {
			return err
		}
		return migrator.Up()
	}),
)

// CacheModule provides the recommendation cache, Redis when enabled and
// in-memory otherwise.
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) outbound.RecommendationCache {
		if !cfg.Redis.Enabled {
			log.Info("Using in-memory recommendation cache")
			return memory.NewCache()
		}
		client, err := cache.NewRedisClient(&cfg.Redis, log)
		if err != nil {
			log.Warn("Redis unavailable, falling back to in-memory cache", zap.Error(err))
			return memory.NewCache()
		}
		return cache.NewRedisCache(client, log)
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	postgres.NewItemRepository,
	postgres.NewRatingRepository,
	postgres.NewUserRepository,
	func(cfg *config.Config, log *zap.Logger) (outbound.ModelStore, error) {
		return modelstore.NewFileStore(cfg.Engine.ModelDir, log)
	},
)

// EngineModule provides the recommendation engine and its metrics.
var EngineModule = fx.Provide(
	monitoring.NewMetricsCollector,
	func(m *monitoring.MetricsCollector) outbound.EngineMetrics { return m },
	func(
		cfg *config.Config,
		items outbound.ItemRepository,
		ratings outbound.RatingRepository,
		users outbound.UserRepository,
		cache outbound.RecommendationCache,
		store outbound.ModelStore,
		metrics outbound.EngineMetrics,
		log *zap.Logger,
	) inbound.RecommenderService {
		return recommend.NewEngine(items, ratings, users, cache, store, metrics, log).
			WithOptions(recommend.Options{
				CacheTTL:  cfg.Engine.CacheTTL,
				MaxItems:  cfg.Engine.MaxItems,
				FamilyCap: cfg.Engine.FamilyCap,
			})
	},
)

// HTTPModule provides HTTP server and handlers
var HTTPModule = fx.Provide(
	server.NewAPIServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	pool *pgxpool.Pool,
	engine inbound.RecommenderService,
	srv *server.APIServer,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting Savoria engine",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			if cfg.Engine.TrainOnStart {
				if _, err := engine.Train(ctx); err != nil {
					// An empty ratings store is a cold start, not a failure.
					log.Warn("Initial training skipped", zap.Error(err))
				}
			}

			go func() {
				if err := srv.Start(); err != nil {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Savoria engine")

			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}
			pool.Close()
			_ = log.Sync()
			return nil
		},
	})
}
