package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"meshsync/internal/adapter/repo"
	"meshsync/internal/cache"
	"meshsync/internal/http/handlers"
	"meshsync/internal/http/httpapi"
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

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: failed to connect database")
	}
	defer dbpool.Close()

	if err := infra.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		logger.Fatal().Err(err).Msg("api: failed to run migrations")
	}

	var statusCache cache.Cache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("api: failed to configure redis")
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("api: redis unreachable, status cache disabled")
		} else {
			statusCache = redisCache
		}
	}

	jobRepo := repo.NewJobRepository(dbpool)

	meshClient, err := meshapi.NewClient(meshapi.Options{
		BaseURL:        cfg.MeshAPIBaseURL,
		APIKey:         cfg.MeshAPIKey,
		RequestTimeout: cfg.FetchTimeout,
		Logger:         &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("api: failed to configure mesh api client")
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

	app := handlers.NewApp(jobRepo, reconciler, statusCache, cfg.StatusCacheTTL, logger)
	router := httpapi.NewRouter(app, cfg, logger)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("api: http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("api: failed to shutdown server")
	}
	logger.Info().Msg("api: server stopped")
}
