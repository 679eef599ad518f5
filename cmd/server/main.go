package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/socialchef/planner/internal/api"
	"github.com/socialchef/planner/internal/cache"
	"github.com/socialchef/planner/internal/config"
	"github.com/socialchef/planner/internal/db"
	"github.com/socialchef/planner/internal/logger"
	"github.com/socialchef/planner/internal/sentry"
	"github.com/socialchef/planner/internal/services/planner"
	"github.com/socialchef/planner/internal/services/provider"
	"github.com/socialchef/planner/internal/telemetry"
	"github.com/socialchef/planner/internal/worker"
)

func main() {
	defer sentry.Recover()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize telemetry
	if cfg.OtelExporterOTLPEndpoint != "" {
		shutdown, err := telemetry.InitTelemetry(ctx, cfg.ServiceName, cfg.ServiceVersion, cfg.Env, cfg.OtelExporterOTLPEndpoint, cfg.OTLPHeaders())
		if err != nil {
			slog.Warn("Failed to init telemetry", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	// Initialize Sentry
	if err := sentry.Init(cfg); err != nil {
		slog.Warn("Failed to init Sentry", "error", err)
	}
	defer sentry.Flush(2 * time.Second)

	// Initialize logger with OTel support
	slog.SetDefault(logger.New(cfg.Env))

	// Database connection
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	store := db.NewStore(pool)

	// Redis for the recipe cache
	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Asynq client for enqueuing tasks
	asynqClient, err := worker.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to create task client: %v", err)
	}
	defer asynqClient.Close()

	factory := provider.NewFactory(cfg.Providers, nil)
	plannerService := planner.NewService(factory, cache.NewRecipeCache(redisClient, cfg.Jobs.RecipeCacheTTL))

	apiServer := api.NewServer(cfg, store, asynqClient, plannerService, factory)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(apiServer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting server", "port", cfg.Port, "env", cfg.Env)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
