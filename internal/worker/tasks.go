package worker

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	TypeGenerateMealPlan = "mealplan:generate"
	TypeCleanupJobs      = "cleanup:jobs"
)

// GenerateMealPlanPayload is the payload for meal plan generation tasks.
// Preferences and the API key are read from the database by the worker.
type GenerateMealPlanPayload struct {
	JobID     string `json:"job_id"`
	UserID    string `json:"user_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// NewGenerateMealPlanTask creates a meal plan task. Provider calls are paid
// for with the user's key, so the task is never retried.
func NewGenerateMealPlanTask(payload GenerateMealPlanPayload, timeout time.Duration) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	opts := []asynq.Option{asynq.MaxRetry(0), asynq.TaskID(payload.JobID)}
	if timeout > 0 {
		opts = append(opts, asynq.Timeout(timeout))
	}
	return asynq.NewTask(TypeGenerateMealPlan, data, opts...), nil
}

// NewCleanupJobsTask creates a new cleanup task
func NewCleanupJobsTask() *asynq.Task {
	return asynq.NewTask(TypeCleanupJobs, nil, asynq.MaxRetry(1))
}
