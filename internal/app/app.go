// Package app wires configuration into a running recipe server.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-genai/backend/config"
	"github.com/pageza/alchemorsel-genai/backend/internal/api"
	"github.com/pageza/alchemorsel-genai/backend/internal/archive"
	"github.com/pageza/alchemorsel-genai/backend/internal/cache"
	"github.com/pageza/alchemorsel-genai/backend/internal/database"
	"github.com/pageza/alchemorsel-genai/backend/internal/history"
	"github.com/pageza/alchemorsel-genai/backend/internal/llm"
	"github.com/pageza/alchemorsel-genai/backend/internal/ratelimit"
	"github.com/pageza/alchemorsel-genai/backend/internal/server"
	"github.com/pageza/alchemorsel-genai/backend/internal/service"
)

const probeTimeout = 30 * time.Second

// App owns every long-lived component. Close releases them in reverse
// construction order.
type App struct {
	Server  *server.Server
	Service *service.RecipeService

	logger  *zap.Logger
	closers []func() error
}

// New builds the application. A model client that cannot be created (or
// fails the startup probe) leaves the service nil; the server still starts
// and reports genai_initialized=false.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (_ *App, err error) {
	a := &App{logger: logger}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	var rdb *redis.Client
	if cfg.CacheBackend == config.BackendRedis || cfg.RateLimitBackend == config.BackendRedis {
		rdb, err = database.NewRedisClient(cfg, logger)
		if err != nil {
			return nil, err
		}
		a.onClose(rdb.Close)
	}

	model := a.newModel(ctx, cfg)

	var recipes service.RecipeCache
	switch cfg.CacheBackend {
	case config.BackendRedis:
		recipes = cache.NewRedisCache(rdb, cfg.CacheTTL(), logger.Named("cache"))
	default:
		mc := cache.NewMemoryCache(cfg.CacheTTL(),
			cache.WithMaxEntries(cfg.CacheMaxEntries),
			cache.WithLogger(logger.Named("cache")),
		)
		mc.StartSweeper(cfg.CacheSweepInterval(), time.Now)
		a.onClose(mc.Close)
		recipes = mc
	}

	var limiter service.RateLimiter
	switch cfg.RateLimitBackend {
	case config.BackendRedis:
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimitPerMinute, logger.Named("ratelimit"))
	default:
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimitPerMinute)
	}

	var repo *history.Repository
	if cfg.DBDriver != config.DriverNone {
		db, err := database.Open(cfg, logger)
		if err != nil {
			return nil, err
		}
		a.onClose(func() error { return database.Close(db) })
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		repo = history.NewRepository(db)
	}

	var archiver *archive.S3Archiver
	if cfg.ArchiveBucket != "" {
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to configure recipe archive: %w", err)
		}
		archiver = archive.FromConfig(s3cfg)
		logger.Info("archiving generated recipes", zap.String("bucket", s3cfg.BucketName))
	}

	routes := api.Routes{
		Info: api.ServiceInfo{
			Model:      cfg.GenAIModel,
			ModelLabel: cfg.GenAIModelLabel,
			RateLimit:  cfg.RateLimitPerMinute,
		},
	}

	if model != nil {
		opts := []service.Option{
			service.WithModelLabel(cfg.GenAIModelLabel),
			service.WithTimeout(cfg.GenAITimeout()),
			service.WithLogger(logger.Named("recipe")),
		}
		if repo != nil {
			opts = append(opts, service.WithHistory(repo))
		}
		if archiver != nil {
			opts = append(opts, service.WithArchive(archiver))
		}
		a.Service = service.NewRecipeService(model, recipes, limiter, opts...)
		a.onClose(func() error { a.Service.Close(); return nil })
		routes.Generator = a.Service
	}
	if repo != nil {
		routes.History = repo
	}
	if cfg.JWTSecret != "" {
		auth, err := service.NewAuthService(cfg.JWTSecret)
		if err != nil {
			return nil, err
		}
		routes.Auth = auth
	}

	a.Server = server.New(cfg, routes, logger.Named("http"))
	return a, nil
}

func (a *App) newModel(ctx context.Context, cfg *config.Config) llm.Client {
	model, err := llm.New(ctx, cfg)
	if err != nil {
		a.logger.Error("failed to initialize generative AI client", zap.String("provider", cfg.GenAIProvider), zap.Error(err))
		return nil
	}
	if cfg.GenAIProbeOnStartup {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()
		if err := llm.Probe(probeCtx, model); err != nil {
			a.logger.Error("generative AI probe failed", zap.Error(err))
			return nil
		}
	}
	a.logger.Info("generative AI client initialized",
		zap.String("provider", cfg.GenAIProvider),
		zap.String("model", cfg.GenAIModel),
	)
	return model
}

func (a *App) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Close releases components; the server must already be stopped.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
