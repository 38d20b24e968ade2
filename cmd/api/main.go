package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pageza/cookbook/config"
	"github.com/pageza/cookbook/internal/cache"
	"github.com/pageza/cookbook/internal/database"
	"github.com/pageza/cookbook/internal/logger"
	"github.com/pageza/cookbook/internal/server"
)

func main() {
	// .env is optional; deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file found, using system env vars")
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := database.New(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.RunMigrations(db, "migrations"); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	store, err := buildStore(cfg)
	if err != nil {
		logger.Fatal("failed to open cache store", zap.Error(err))
	}

	srv := server.New(cfg, db, store)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("received signal", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := store.Close(); err != nil {
		logger.Error("close cache store", zap.Error(err))
	}
	logger.Info("server stopped")
}

// buildStore opens the cache backend named by CACHE_BACKEND. The
// memory backend needs no external service and suits single-process
// deployments; bolt persists across restarts; redis is the default.
func buildStore(cfg *config.Config) (cache.Store, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		client, err := database.NewRedisClient(cfg)
		if err != nil {
			return nil, err
		}
		return cache.NewRedisStore(client, cfg.CacheTTL()), nil
	case config.CacheBackendBolt:
		return cache.OpenBolt(cfg.CachePath, cfg.CacheTTL())
	default:
		return cache.NewMemoryStore(cfg.CacheTTL()), nil
	}
}
