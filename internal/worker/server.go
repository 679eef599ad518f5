package worker

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/socialchef/planner/internal/config"
)

// NewServer creates a new Asynq server for processing tasks
func NewServer(redisURL string, jobs config.JobsConfig) (*asynq.Server, error) {
	opt, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}

	return asynq.NewServer(
		opt,
		asynq.Config{
			Concurrency: jobs.Concurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				slog.ErrorContext(ctx, "Task failed", "type", task.Type(), "error", err)
			}),
		},
	), nil
}

// NewMux routes planner tasks through the tracing and Sentry middleware
func NewMux(p *MealPlanProcessor) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Use(OTelMiddleware, SentryMiddleware)
	mux.HandleFunc(TypeGenerateMealPlan, p.HandleGenerateMealPlan)
	mux.HandleFunc(TypeCleanupJobs, p.HandleCleanupJobs)
	return mux
}

// NewScheduler registers the periodic cleanup task
func NewScheduler(redisURL, cronspec string) (*asynq.Scheduler, error) {
	opt, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}

	scheduler := asynq.NewScheduler(opt, nil)
	if _, err := scheduler.Register(cronspec, NewCleanupJobsTask()); err != nil {
		return nil, err
	}
	return scheduler, nil
}
