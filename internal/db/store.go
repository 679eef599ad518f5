package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/socialchef/planner/internal/mealplan"
)

// Job statuses
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// ErrNotFound is returned when the requested row does not exist
var ErrNotFound = errors.New("not found")

// Conn is a DBTX that can also open transactions
type Conn interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PlanJob tracks one asynchronous meal plan generation
type PlanJob struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Status    string    `json:"status"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Error     string    `json:"error,omitempty"`
	PlanID    string    `json:"plan_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SavedPlan is a validated meal plan persisted for a user
type SavedPlan struct {
	ID        string                    `json:"id"`
	UserID    string                    `json:"-"`
	Provider  string                    `json:"provider"`
	StartDate string                    `json:"start_date"`
	EndDate   string                    `json:"end_date"`
	Plan      mealplan.MealPlanResponse `json:"plan"`
	CreatedAt time.Time                 `json:"created_at"`
}

// Store maps planner records onto the generated queries
type Store struct {
	conn Conn
	q    *Queries
}

func NewStore(conn Conn) *Store {
	return &Store{conn: conn, q: New(conn)}
}

func (s *Store) SavePreferences(ctx context.Context, userID string, prefs mealplan.UserPreferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.q.UpsertPreferences(ctx, userID, data)
}

func (s *Store) GetPreferences(ctx context.Context, userID string) (mealplan.UserPreferences, error) {
	var prefs mealplan.UserPreferences
	row, err := s.q.GetPreferences(ctx, userID)
	if err != nil {
		return prefs, notFound(err)
	}
	if err := json.Unmarshal(row.Preferences, &prefs); err != nil {
		return prefs, fmt.Errorf("decode preferences: %w", err)
	}
	return prefs, nil
}

func (s *Store) CreatePlanJob(ctx context.Context, job PlanJob) (PlanJob, error) {
	start, err := toDate(job.StartDate)
	if err != nil {
		return PlanJob{}, err
	}
	end, err := toDate(job.EndDate)
	if err != nil {
		return PlanJob{}, err
	}

	status := job.Status
	if status == "" {
		status = StatusPending
	}

	row, err := s.q.CreatePlanJob(ctx, CreatePlanJobParams{
		ID:        job.ID,
		UserID:    job.UserID,
		Status:    status,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return PlanJob{}, err
	}
	return fromJobRow(row), nil
}

func (s *Store) GetPlanJob(ctx context.Context, id string) (PlanJob, error) {
	row, err := s.q.GetPlanJob(ctx, id)
	if err != nil {
		return PlanJob{}, notFound(err)
	}
	return fromJobRow(row), nil
}

func (s *Store) MarkPlanJobProcessing(ctx context.Context, id string) error {
	return s.q.UpdatePlanJobStatus(ctx, UpdatePlanJobStatusParams{ID: id, Status: StatusProcessing})
}

// FailPlanJob records message verbatim as the job error
func (s *Store) FailPlanJob(ctx context.Context, id, message string) error {
	return s.q.UpdatePlanJobStatus(ctx, UpdatePlanJobStatusParams{
		ID:     id,
		Status: StatusFailed,
		Error:  pgtype.Text{String: message, Valid: true},
	})
}

// CompletePlanJob stores plan and links it to the job in one transaction
func (s *Store) CompletePlanJob(ctx context.Context, jobID string, plan SavedPlan) error {
	start, err := toDate(plan.StartDate)
	if err != nil {
		return err
	}
	end, err := toDate(plan.EndDate)
	if err != nil {
		return err
	}
	data, err := json.Marshal(plan.Plan)
	if err != nil {
		return err
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	q := s.q.WithTx(tx)
	if err := q.CreateMealPlan(ctx, CreateMealPlanParams{
		ID:        plan.ID,
		UserID:    plan.UserID,
		Provider:  plan.Provider,
		StartDate: start,
		EndDate:   end,
		Plan:      data,
	}); err != nil {
		return fmt.Errorf("insert meal plan: %w", err)
	}
	if err := q.CompletePlanJob(ctx, jobID, plan.ID); err != nil {
		return fmt.Errorf("complete job: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *Store) GetLatestMealPlan(ctx context.Context, userID string) (SavedPlan, error) {
	row, err := s.q.GetLatestMealPlan(ctx, userID)
	if err != nil {
		return SavedPlan{}, notFound(err)
	}
	return fromPlanRow(row)
}

func (s *Store) GetMealPlan(ctx context.Context, id string) (SavedPlan, error) {
	row, err := s.q.GetMealPlan(ctx, id)
	if err != nil {
		return SavedPlan{}, notFound(err)
	}
	return fromPlanRow(row)
}

// PurgePlanJobs deletes finished jobs last updated before cutoff
func (s *Store) PurgePlanJobs(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.q.DeleteOldPlanJobs(ctx, cutoff)
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func toDate(s string) (pgtype.Date, error) {
	t, err := time.Parse(mealplan.DateLayout, s)
	if err != nil {
		return pgtype.Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return pgtype.Date{Time: t, Valid: true}, nil
}

func fromDate(d pgtype.Date) string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(mealplan.DateLayout)
}

func fromJobRow(row MealPlanJob) PlanJob {
	return PlanJob{
		ID:        row.ID,
		UserID:    row.UserID,
		Status:    row.Status,
		StartDate: fromDate(row.StartDate),
		EndDate:   fromDate(row.EndDate),
		Error:     row.Error.String,
		PlanID:    row.PlanID.String,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

func fromPlanRow(row MealPlan) (SavedPlan, error) {
	plan := SavedPlan{
		ID:        row.ID,
		UserID:    row.UserID,
		Provider:  row.Provider,
		StartDate: fromDate(row.StartDate),
		EndDate:   fromDate(row.EndDate),
		CreatedAt: row.CreatedAt.Time,
	}
	if err := json.Unmarshal(row.Plan, &plan.Plan); err != nil {
		return SavedPlan{}, fmt.Errorf("decode meal plan: %w", err)
	}
	return plan, nil
}
