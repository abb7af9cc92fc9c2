package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"meshsync/internal/adapter/repo"
	"meshsync/internal/cache"
	"meshsync/internal/infra"
	"meshsync/internal/meshapi"
	"meshsync/internal/reconcile"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("reconciler: db connection failed")
	}
	defer pool.Close()

	var statusCache cache.Cache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("reconciler: failed to configure redis")
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("reconciler: redis unreachable, status cache disabled")
		} else {
			statusCache = redisCache
		}
	}

	jobRepo := repo.NewJobRepository(pool)

	meshClient, err := meshapi.NewClient(meshapi.Options{
		BaseURL:        cfg.MeshAPIBaseURL,
		APIKey:         cfg.MeshAPIKey,
		RequestTimeout: cfg.FetchTimeout,
		Logger:         &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("reconciler: failed to configure mesh api client")
	}

	reconciler := reconcile.NewReconciler(reconcile.Options{
		Repo:         jobRepo,
		Client:       meshClient,
		URLs:         reconcile.NewURLNormalizer(cfg.StorageBaseURL),
		Cache:        statusCache,
		CacheTTL:     cfg.StatusCacheTTL,
		FetchTimeout: cfg.FetchTimeout,
		Logger:       logger,
	})

	loop := reconcile.NewLoop(reconcile.LoopOptions{
		Repo:       jobRepo,
		Reconciler: reconciler,
		Interval:   cfg.PollInterval,
		BatchSize:  cfg.BatchSize,
		BatchDelay: cfg.BatchDelay,
		ScanLimit:  cfg.ScanLimit,
		Logger:     logger,
	})

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("reconciler: stopped with error")
	}
	logger.Info().Msg("reconciler: stopped")
}
