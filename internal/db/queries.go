package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

type UserPreference struct {
	UserID      string
	Preferences []byte
	UpdatedAt   pgtype.Timestamptz
}

type MealPlanJob struct {
	ID        string
	UserID    string
	Status    string
	StartDate pgtype.Date
	EndDate   pgtype.Date
	Error     pgtype.Text
	PlanID    pgtype.Text
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type MealPlan struct {
	ID        string
	UserID    string
	Provider  string
	StartDate pgtype.Date
	EndDate   pgtype.Date
	Plan      []byte
	CreatedAt pgtype.Timestamptz
}

const upsertPreferences = `-- name: UpsertPreferences :exec
INSERT INTO user_preferences (user_id, preferences, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (user_id) DO UPDATE SET preferences = EXCLUDED.preferences, updated_at = now()
`

func (q *Queries) UpsertPreferences(ctx context.Context, userID string, preferences []byte) error {
	_, err := q.db.Exec(ctx, upsertPreferences, userID, preferences)
	return err
}

const getPreferences = `-- name: GetPreferences :one
SELECT user_id, preferences, updated_at FROM user_preferences WHERE user_id = $1
`

func (q *Queries) GetPreferences(ctx context.Context, userID string) (UserPreference, error) {
	row := q.db.QueryRow(ctx, getPreferences, userID)
	var i UserPreference
	err := row.Scan(&i.UserID, &i.Preferences, &i.UpdatedAt)
	return i, err
}

const createPlanJob = `-- name: CreatePlanJob :one
INSERT INTO meal_plan_jobs (id, user_id, status, start_date, end_date)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, user_id, status, start_date, end_date, error, plan_id, created_at, updated_at
`

type CreatePlanJobParams struct {
	ID        string
	UserID    string
	Status    string
	StartDate pgtype.Date
	EndDate   pgtype.Date
}

func (q *Queries) CreatePlanJob(ctx context.Context, arg CreatePlanJobParams) (MealPlanJob, error) {
	row := q.db.QueryRow(ctx, createPlanJob, arg.ID, arg.UserID, arg.Status, arg.StartDate, arg.EndDate)
	return scanPlanJob(row)
}

const getPlanJob = `-- name: GetPlanJob :one
SELECT id, user_id, status, start_date, end_date, error, plan_id, created_at, updated_at
FROM meal_plan_jobs WHERE id = $1
`

func (q *Queries) GetPlanJob(ctx context.Context, id string) (MealPlanJob, error) {
	return scanPlanJob(q.db.QueryRow(ctx, getPlanJob, id))
}

const updatePlanJobStatus = `-- name: UpdatePlanJobStatus :exec
UPDATE meal_plan_jobs SET status = $2, error = $3, updated_at = now() WHERE id = $1
`

type UpdatePlanJobStatusParams struct {
	ID     string
	Status string
	Error  pgtype.Text
}

func (q *Queries) UpdatePlanJobStatus(ctx context.Context, arg UpdatePlanJobStatusParams) error {
	_, err := q.db.Exec(ctx, updatePlanJobStatus, arg.ID, arg.Status, arg.Error)
	return err
}

const completePlanJob = `-- name: CompletePlanJob :exec
UPDATE meal_plan_jobs SET status = 'completed', plan_id = $2, error = NULL, updated_at = now() WHERE id = $1
`

func (q *Queries) CompletePlanJob(ctx context.Context, id, planID string) error {
	_, err := q.db.Exec(ctx, completePlanJob, id, planID)
	return err
}

const createMealPlan = `-- name: CreateMealPlan :exec
INSERT INTO meal_plans (id, user_id, provider, start_date, end_date, plan)
VALUES ($1, $2, $3, $4, $5, $6)
`

type CreateMealPlanParams struct {
	ID        string
	UserID    string
	Provider  string
	StartDate pgtype.Date
	EndDate   pgtype.Date
	Plan      []byte
}

func (q *Queries) CreateMealPlan(ctx context.Context, arg CreateMealPlanParams) error {
	_, err := q.db.Exec(ctx, createMealPlan, arg.ID, arg.UserID, arg.Provider, arg.StartDate, arg.EndDate, arg.Plan)
	return err
}

const getMealPlan = `-- name: GetMealPlan :one
SELECT id, user_id, provider, start_date, end_date, plan, created_at FROM meal_plans WHERE id = $1
`

func (q *Queries) GetMealPlan(ctx context.Context, id string) (MealPlan, error) {
	return scanMealPlan(q.db.QueryRow(ctx, getMealPlan, id))
}

const getLatestMealPlan = `-- name: GetLatestMealPlan :one
SELECT id, user_id, provider, start_date, end_date, plan, created_at FROM meal_plans
WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1
`

func (q *Queries) GetLatestMealPlan(ctx context.Context, userID string) (MealPlan, error) {
	return scanMealPlan(q.db.QueryRow(ctx, getLatestMealPlan, userID))
}

const deleteOldPlanJobs = `-- name: DeleteOldPlanJobs :execrows
DELETE FROM meal_plan_jobs WHERE status IN ('completed', 'failed') AND updated_at < $1
`

func (q *Queries) DeleteOldPlanJobs(ctx context.Context, before time.Time) (int64, error) {
	result, err := q.db.Exec(ctx, deleteOldPlanJobs, pgtype.Timestamptz{Time: before, Valid: true})
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func scanPlanJob(row pgx.Row) (MealPlanJob, error) {
	var i MealPlanJob
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Status,
		&i.StartDate,
		&i.EndDate,
		&i.Error,
		&i.PlanID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func scanMealPlan(row pgx.Row) (MealPlan, error) {
	var i MealPlan
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Provider,
		&i.StartDate,
		&i.EndDate,
		&i.Plan,
		&i.CreatedAt,
	)
	return i, err
}
