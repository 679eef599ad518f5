package db

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialchef/planner/internal/mealplan"
)

type execCall struct {
	sql  string
	args []interface{}
}

// fakeRow scans fixed values into the destinations by assignment
type fakeRow struct {
	values []interface{}
	err    error
}

func (r fakeRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("column count mismatch")
	}
	for i, v := range r.values {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}

type fakeConn struct {
	execs   []execCall
	execErr map[string]error
	rows    map[string]fakeRow
	tx      *fakeTx
}

func newFakeConn() *fakeConn {
	return &fakeConn{execErr: map[string]error{}, rows: map[string]fakeRow{}}
}

// queryName extracts the "-- name: X" annotation
func queryName(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) > 2 && fields[1] == "name:" {
		return fields[2]
	}
	return sql
}

func (c *fakeConn) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	name := queryName(sql)
	c.execs = append(c.execs, execCall{sql: name, args: args})
	if err := c.execErr[name]; err != nil {
		return pgconn.CommandTag{}, err
	}
	if name == "DeleteOldPlanJobs" {
		return pgconn.NewCommandTag("DELETE 3"), nil
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (c *fakeConn) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (c *fakeConn) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	name := queryName(sql)
	c.execs = append(c.execs, execCall{sql: name, args: args})
	row, ok := c.rows[name]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return row
}

func (c *fakeConn) Begin(context.Context) (pgx.Tx, error) {
	c.tx = &fakeTx{conn: c}
	return c.tx, nil
}

type fakeTx struct {
	pgx.Tx
	conn       *fakeConn
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return t.conn.Exec(ctx, sql, args...)
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return t.conn.Query(ctx, sql, args...)
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return t.conn.QueryRow(ctx, sql, args...)
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

func date(s string) pgtype.Date {
	d, _ := time.Parse(mealplan.DateLayout, s)
	return pgtype.Date{Time: d, Valid: true}
}

func TestStore_Preferences(t *testing.T) {
	conn := newFakeConn()
	store := NewStore(conn)
	ctx := context.Background()

	prefs := mealplan.UserPreferences{Calories: 2100, AIProvider: mealplan.ProviderClaude, APIKey: "sk-ant-123"}
	require.NoError(t, store.SavePreferences(ctx, "user-1", prefs))
	require.Len(t, conn.execs, 1)
	assert.Equal(t, "UpsertPreferences", conn.execs[0].sql)
	assert.Equal(t, "user-1", conn.execs[0].args[0])

	stored := conn.execs[0].args[1].([]byte)
	conn.rows["GetPreferences"] = fakeRow{values: []interface{}{"user-1", stored, pgtype.Timestamptz{}}}

	got, err := store.GetPreferences(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, prefs, got)
}

func TestStore_NotFound(t *testing.T) {
	store := NewStore(newFakeConn())
	ctx := context.Background()

	_, err := store.GetPreferences(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetPlanJob(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetLatestMealPlan(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_CreatePlanJob(t *testing.T) {
	conn := newFakeConn()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	conn.rows["CreatePlanJob"] = fakeRow{values: []interface{}{
		"job-1", "user-1", StatusPending, date("2024-03-01"), date("2024-03-07"),
		pgtype.Text{}, pgtype.Text{},
		pgtype.Timestamptz{Time: now, Valid: true}, pgtype.Timestamptz{Time: now, Valid: true},
	}}
	store := NewStore(conn)

	job, err := store.CreatePlanJob(context.Background(), PlanJob{
		ID: "job-1", UserID: "user-1", StartDate: "2024-03-01", EndDate: "2024-03-07",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, job.Status)
	assert.Equal(t, "2024-03-07", job.EndDate)
	assert.Equal(t, now, job.CreatedAt)
	assert.Equal(t, StatusPending, conn.execs[0].args[2])

	_, err = store.CreatePlanJob(context.Background(), PlanJob{ID: "job-2", StartDate: "03/01/2024", EndDate: "2024-03-07"})
	assert.ErrorContains(t, err, "invalid date")
}

func TestStore_FailPlanJob(t *testing.T) {
	conn := newFakeConn()
	store := NewStore(conn)

	msg := "Claude API error: invalid response format: weekPlan must be an array"
	require.NoError(t, store.FailPlanJob(context.Background(), "job-1", msg))

	require.Len(t, conn.execs, 1)
	assert.Equal(t, "UpdatePlanJobStatus", conn.execs[0].sql)
	assert.Equal(t, StatusFailed, conn.execs[0].args[1])
	assert.Equal(t, pgtype.Text{String: msg, Valid: true}, conn.execs[0].args[2])
}

func TestStore_CompletePlanJob(t *testing.T) {
	plan := SavedPlan{
		ID: "plan-1", UserID: "user-1", Provider: "openai",
		StartDate: "2024-03-01", EndDate: "2024-03-01",
		Plan: mealplan.MealPlanResponse{WeekPlan: []mealplan.DayPlan{{Date: "2024-03-01", Meals: []mealplan.Meal{{Name: "Oatmeal"}}}}},
	}

	t.Run("commits both writes", func(t *testing.T) {
		conn := newFakeConn()
		require.NoError(t, NewStore(conn).CompletePlanJob(context.Background(), "job-1", plan))

		require.Len(t, conn.execs, 2)
		assert.Equal(t, "CreateMealPlan", conn.execs[0].sql)
		assert.Equal(t, "CompletePlanJob", conn.execs[1].sql)
		assert.Equal(t, []interface{}{"job-1", "plan-1"}, conn.execs[1].args)
		assert.True(t, conn.tx.committed)
	})

	t.Run("rolls back on insert failure", func(t *testing.T) {
		conn := newFakeConn()
		conn.execErr["CreateMealPlan"] = errors.New("duplicate key")

		err := NewStore(conn).CompletePlanJob(context.Background(), "job-1", plan)
		assert.ErrorContains(t, err, "insert meal plan")
		assert.False(t, conn.tx.committed)
		assert.True(t, conn.tx.rolledBack)
	})
}

func TestStore_GetLatestMealPlan(t *testing.T) {
	conn := newFakeConn()
	conn.rows["GetLatestMealPlan"] = fakeRow{values: []interface{}{
		"plan-1", "user-1", "gemini", date("2024-03-01"), date("2024-03-01"),
		[]byte(`{"weekPlan":[{"date":"2024-03-01","meals":[]}]}`),
		pgtype.Timestamptz{},
	}}

	plan, err := NewStore(conn).GetLatestMealPlan(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "gemini", plan.Provider)
	require.Len(t, plan.Plan.WeekPlan, 1)
	assert.Equal(t, "2024-03-01", plan.Plan.WeekPlan[0].Date)
}

func TestStore_PurgePlanJobs(t *testing.T) {
	conn := newFakeConn()
	n, err := NewStore(conn).PurgePlanJobs(context.Background(), time.Now().Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestSchemaDefinesTables(t *testing.T) {
	for _, table := range []string{"user_preferences", "meal_plans", "meal_plan_jobs"} {
		if !strings.Contains(schema, "CREATE TABLE IF NOT EXISTS "+table) {
			t.Errorf("schema missing table %s", table)
		}
	}
}

func TestNewPool_InvalidURL(t *testing.T) {
	_, err := NewPool(context.Background(), "://not a url")
	assert.ErrorContains(t, err, "parse database url")
}
