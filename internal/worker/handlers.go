package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/socialchef/planner/internal/db"
	"github.com/socialchef/planner/internal/mealplan"
)

// JobStore is the persistence used by the task handlers
type JobStore interface {
	GetPreferences(ctx context.Context, userID string) (mealplan.UserPreferences, error)
	MarkPlanJobProcessing(ctx context.Context, id string) error
	FailPlanJob(ctx context.Context, id, message string) error
	CompletePlanJob(ctx context.Context, jobID string, plan db.SavedPlan) error
	PurgePlanJobs(ctx context.Context, cutoff time.Time) (int64, error)
}

// Planner generates meal plans
type Planner interface {
	GeneratePlan(ctx context.Context, req mealplan.PlanRequest) (mealplan.MealPlanResponse, error)
}

const missingPreferencesMessage = "please save your preferences before generating a meal plan"

type MealPlanProcessor struct {
	store     JobStore
	planner   Planner
	metrics   *WorkerMetrics
	retention time.Duration
	now       func() time.Time
}

func NewMealPlanProcessor(store JobStore, planner Planner, metrics *WorkerMetrics, retention time.Duration) *MealPlanProcessor {
	return &MealPlanProcessor{
		store:     store,
		planner:   planner,
		metrics:   metrics,
		retention: retention,
		now:       time.Now,
	}
}

func (p *MealPlanProcessor) HandleGenerateMealPlan(ctx context.Context, t *asynq.Task) error {
	var payload GenerateMealPlanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	start := p.now()
	status := "failed"
	defer func() {
		p.metrics.RecordJob(ctx, TypeGenerateMealPlan, status, p.now().Sub(start).Seconds())
	}()

	slog.InfoContext(ctx, "Generating meal plan", "job_id", payload.JobID, "start_date", payload.StartDate, "end_date", payload.EndDate)

	if err := p.store.MarkPlanJobProcessing(ctx, payload.JobID); err != nil {
		return fmt.Errorf("mark job processing: %w", err)
	}

	prefs, err := p.store.GetPreferences(ctx, payload.UserID)
	if errors.Is(err, db.ErrNotFound) {
		return p.fail(ctx, payload.JobID, missingPreferencesMessage, err)
	}
	if err != nil {
		return p.fail(ctx, payload.JobID, "failed to load preferences", err)
	}

	req := mealplan.PlanRequest{
		UserPreferences: prefs,
		StartDate:       payload.StartDate,
		EndDate:         payload.EndDate,
	}

	plan, err := p.planner.GeneratePlan(ctx, req)
	if err != nil {
		return p.fail(ctx, payload.JobID, err.Error(), err)
	}

	saved := db.SavedPlan{
		ID:        uuid.NewString(),
		UserID:    payload.UserID,
		Provider:  string(mealplan.ParseProviderID(string(prefs.AIProvider))),
		StartDate: payload.StartDate,
		EndDate:   payload.EndDate,
		Plan:      plan,
	}
	if err := p.store.CompletePlanJob(ctx, payload.JobID, saved); err != nil {
		return p.fail(ctx, payload.JobID, "failed to save meal plan", err)
	}

	status = "completed"
	slog.InfoContext(ctx, "Meal plan saved", "job_id", payload.JobID, "plan_id", saved.ID, "days", len(plan.WeekPlan))
	return nil
}

func (p *MealPlanProcessor) HandleCleanupJobs(ctx context.Context, t *asynq.Task) error {
	cutoff := p.now().Add(-p.retention)
	deleted, err := p.store.PurgePlanJobs(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("purge plan jobs: %w", err)
	}
	slog.InfoContext(ctx, "Cleaned up meal plan jobs", "deleted", deleted, "cutoff", cutoff)
	return nil
}

// fail records message on the job and stops the task without retrying.
// The job row is written even when ctx has already been cancelled.
func (p *MealPlanProcessor) fail(ctx context.Context, jobID, message string, cause error) error {
	slog.ErrorContext(ctx, "Job failed", "job_id", jobID, "error", cause)

	if err := p.store.FailPlanJob(context.WithoutCancel(ctx), jobID, message); err != nil {
		slog.ErrorContext(ctx, "Failed to record job failure", "job_id", jobID, "error", err)
	}
	return fmt.Errorf("%w: %w", cause, asynq.SkipRetry)
}
