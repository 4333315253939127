package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tacticalops/clanhub/internal/api"
	"tacticalops/clanhub/internal/common"
	"tacticalops/clanhub/internal/config"
	"tacticalops/clanhub/internal/db"
	"tacticalops/clanhub/internal/logging"
	"tacticalops/clanhub/internal/metrics"
	"tacticalops/clanhub/internal/routes"
	"tacticalops/clanhub/internal/workers"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

func main() {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
	}

	if err := logging.Init(appEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	if err := run(appEnv); err != nil {
		logging.Error("Server exited with error", "error", err.Error())
		logging.Close()
		os.Exit(1)
	}
}

func run(appEnv string) error {
	cfg, err := config.Load(appEnv)
	if err != nil {
		return err
	}

	logging.Info("Clanhub starting up",
		"environment", appEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	sqlDB, err := db.InitPostgres(cfg.PostgresDSN())
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	logging.Info("Connected to Postgres (sqlx)")

	gdb, err := db.InitPostgresORM(cfg.PostgresDSN())
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gdb); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient = common.NewRedisClient(cfg.RedisAddr(), cfg.Redis.Password)
		defer redisClient.Close()
	} else {
		logging.Warn("REDIS_HOST not set, locking and cache invalidation stay in-process")
	}

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)

	deps, err := api.InitDependencies(cfg, gdb, sqlDB, redisClient, metricsReg)
	if err != nil {
		return fmt.Errorf("init dependencies: %w", err)
	}
	defer deps.Services.Cache.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wc := workers.InitWorkers(ctx, deps.Services.Ranks, deps.Services.Store, deps.Bus, cfg.Ranks.RefreshInterval)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           routes.RegisterRoutes(cfg, deps, sqlDB, redisClient, time.Now()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logging.Info("Server starting", "port", cfg.App.Port, "environment", appEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		logging.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	stop()
	wc.Wait()
	logging.Info("Server stopped")
	return nil
}
