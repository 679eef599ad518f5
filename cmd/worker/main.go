package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/sync/errgroup"

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

// cleanupSchedule runs the job cleanup once a day at 03:00 UTC
const cleanupSchedule = "0 3 * * *"

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
		shutdown, err := telemetry.InitTelemetry(ctx, cfg.ServiceName+"-worker", cfg.ServiceVersion, cfg.Env, cfg.OtelExporterOTLPEndpoint, cfg.OTLPHeaders())
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

	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	workerMetrics, err := worker.NewWorkerMetrics()
	if err != nil {
		slog.Warn("Failed to init worker metrics", "error", err)
	}

	plannerService := planner.NewService(
		provider.NewFactory(cfg.Providers, nil),
		cache.NewRecipeCache(redisClient, cfg.Jobs.RecipeCacheTTL),
	)
	processor := worker.NewMealPlanProcessor(db.NewStore(pool), plannerService, workerMetrics, cfg.Jobs.Retention)

	srv, err := worker.NewServer(cfg.RedisURL, cfg.Jobs)
	if err != nil {
		log.Fatalf("Failed to create worker server: %v", err)
	}
	scheduler, err := worker.NewScheduler(cfg.RedisURL, cleanupSchedule)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	if err := srv.Start(worker.NewMux(processor)); err != nil {
		log.Fatalf("Worker failed to start: %v", err)
	}
	if err := scheduler.Start(); err != nil {
		srv.Shutdown()
		log.Fatalf("Scheduler failed to start: %v", err)
	}

	slog.Info("Worker started", "concurrency", cfg.Jobs.Concurrency, "job_timeout", cfg.Jobs.Timeout)
	<-ctx.Done()
	slog.Info("Shutting down worker...")

	var g errgroup.Group
	g.Go(func() error {
		scheduler.Shutdown()
		return nil
	})
	g.Go(func() error {
		srv.Shutdown()
		return nil
	})
	_ = g.Wait()
}
