package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"vms/api/internal/cache"
	"vms/api/internal/config"
	"vms/api/internal/database"
	"vms/api/internal/handlers"
	"vms/api/internal/jobs"
	"vms/api/internal/log"
	"vms/api/internal/server"
	"vms/api/internal/service"
	"vms/api/internal/storage"
	"vms/api/internal/store"
	localstore "vms/api/internal/store/local"
	pgstore "vms/api/internal/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	dataStore, dbPool := selectBackend(ctx, cfg, logger)

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, stats cache disabled")
		redisClient = nil
	}

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Warn().Err(err).Msg("object store unavailable, logos and backups disabled")
		objectStore = nil
	}
	if objectStore != nil {
		if err := objectStore.EnsureBuckets(ctx); err != nil {
			logger.Warn().Err(err).Msg("ensure buckets failed")
		}
	}

	handlerSet := handlers.NewHandlerSet(logger, dataStore, redisClient, objectStore, cfg)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	auditor := service.NewAuditor(dataStore, logger)
	backups := service.NewBackupService(dataStore, objectStore, auditor, logger)
	scheduler := jobs.NewScheduler(dataStore, backups, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient)
}

// selectBackend probes postgres once and falls back to the file-backed
// demo store when it is unreachable. The selected backend is fixed for
// the life of the process.
func selectBackend(ctx context.Context, cfg *config.AppConfig, logger zerolog.Logger) (store.Store, *pgxpool.Pool) {
	pool, err := database.Connect(ctx, cfg.Postgres)
	if err == nil {
		if err := database.Migrate(cfg.Postgres.DSN); err != nil {
			logger.Fatal().Err(err).Msg("database migration failed")
		}
		logger.Info().Msg("postgres backend selected")
		return pgstore.New(pool), pool
	}

	logger.Warn().Err(err).Msg("postgres unreachable, falling back to demo mode")

	local, lerr := localstore.New(cfg.Local.DataDir)
	if lerr != nil {
		logger.Fatal().Err(lerr).Str("data_dir", cfg.Local.DataDir).Msg("local store init failed")
	}
	logger.Info().Str("data_dir", cfg.Local.DataDir).Msg("local backend selected")
	return local, nil
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	scheduler.Stop()

	if db != nil {
		db.Close()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("server exited cleanly")
}
