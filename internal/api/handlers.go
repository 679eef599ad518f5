package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/socialchef/planner/internal/config"
	"github.com/socialchef/planner/internal/db"
	apperrors "github.com/socialchef/planner/internal/errors"
	"github.com/socialchef/planner/internal/mealplan"
	"github.com/socialchef/planner/internal/middleware"
	"github.com/socialchef/planner/internal/services/provider"
	"github.com/socialchef/planner/internal/worker"
)

// Store is the persistence used by the HTTP handlers
type Store interface {
	GetPreferences(ctx context.Context, userID string) (mealplan.UserPreferences, error)
	SavePreferences(ctx context.Context, userID string, prefs mealplan.UserPreferences) error
	CreatePlanJob(ctx context.Context, job db.PlanJob) (db.PlanJob, error)
	GetPlanJob(ctx context.Context, id string) (db.PlanJob, error)
	FailPlanJob(ctx context.Context, id, message string) error
	GetMealPlan(ctx context.Context, id string) (db.SavedPlan, error)
	GetLatestMealPlan(ctx context.Context, userID string) (db.SavedPlan, error)
}

// Enqueuer is satisfied by *asynq.Client
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Planner generates recipe details
type Planner interface {
	RecipeDetails(ctx context.Context, prefs mealplan.UserPreferences, meal mealplan.Meal) (mealplan.RecipeResponse, error)
}

// ProviderFactory is used to check a provider selection before a job is queued
type ProviderFactory interface {
	CreateProvider(prefs mealplan.UserPreferences) (provider.Provider, error)
}

type Server struct {
	cfg     *config.Config
	store   Store
	queue   Enqueuer
	planner Planner
	factory ProviderFactory
	now     func() time.Time
}

func NewServer(cfg *config.Config, store Store, queue Enqueuer, planner Planner, factory ProviderFactory) *Server {
	return &Server{
		cfg:     cfg,
		store:   store,
		queue:   queue,
		planner: planner,
		factory: factory,
		now:     time.Now,
	}
}

func (s *Server) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		apperrors.NewUnauthorizedError("authentication required").WriteJSON(w)
	}
	return userID, ok
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.NewValidationError("invalid request body", "INVALID_BODY", "Send a JSON object matching the endpoint's schema.")
	}
	return nil
}

// loadPreferences returns the stored preferences, or a validation error
// pointing the user at the preference form when there are none
func (s *Server) loadPreferences(ctx context.Context, userID string) (mealplan.UserPreferences, error) {
	prefs, err := s.store.GetPreferences(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return prefs, apperrors.NewValidationError("no preferences saved", "PREFERENCES_REQUIRED", "Save your meal preferences first.")
	}
	return prefs, err
}

func maskPreferences(prefs mealplan.UserPreferences) mealplan.UserPreferences {
	prefs.APIKey = prefs.MaskedAPIKey()
	return prefs
}

func (s *Server) HandleGetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	prefs, err := s.store.GetPreferences(r.Context(), userID)
	if errors.Is(err, db.ErrNotFound) {
		apperrors.NewNotFoundError("no preferences saved", "PREFERENCES_NOT_FOUND", "Save your meal preferences first.").WriteJSON(w)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, maskPreferences(prefs))
}

func (s *Server) HandlePutPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var prefs mealplan.UserPreferences
	if err := decodeBody(w, r, &prefs); err != nil {
		writeError(w, r, err)
		return
	}

	// the form echoes back the masked key when the user did not change it
	if key := strings.TrimSpace(prefs.APIKey); key == "" || strings.HasPrefix(key, "*") {
		existing, err := s.store.GetPreferences(r.Context(), userID)
		switch {
		case err == nil:
			prefs.APIKey = existing.APIKey
		case errors.Is(err, db.ErrNotFound):
			prefs.APIKey = ""
		default:
			writeError(w, r, err)
			return
		}
	}

	prefs.AIProvider = mealplan.ParseProviderID(string(prefs.AIProvider))
	if err := prefs.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.store.SavePreferences(r.Context(), userID, prefs); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, maskPreferences(prefs))
}

type CreateMealPlanRequest struct {
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

type CreateMealPlanResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

func (s *Server) HandleCreateMealPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var body CreateMealPlanRequest
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &body); err != nil {
			writeError(w, r, err)
			return
		}
	}
	if body.StartDate == "" && body.EndDate == "" {
		body.StartDate, body.EndDate = mealplan.DefaultDateRange(s.now())
	}

	prefs, err := s.loadPreferences(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	req := mealplan.PlanRequest{UserPreferences: prefs, StartDate: body.StartDate, EndDate: body.EndDate}
	if err := req.ValidateDates(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := prefs.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := s.factory.CreateProvider(prefs); err != nil {
		writeError(w, r, err)
		return
	}

	job, err := s.store.CreatePlanJob(r.Context(), db.PlanJob{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    db.StatusPending,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	task, err := worker.NewGenerateMealPlanTask(worker.GenerateMealPlanPayload{
		JobID:     job.ID,
		UserID:    userID,
		StartDate: job.StartDate,
		EndDate:   job.EndDate,
	}, s.cfg.Jobs.Timeout)
	if err == nil {
		_, err = s.queue.EnqueueContext(r.Context(), task)
	}
	if err != nil {
		if failErr := s.store.FailPlanJob(context.WithoutCancel(r.Context()), job.ID, "failed to queue meal plan generation"); failErr != nil {
			err = errors.Join(err, failErr)
		}
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, CreateMealPlanResponse{JobID: job.ID, Status: job.Status})
}

type JobStatusResponse struct {
	db.PlanJob
	Plan *db.SavedPlan `json:"plan,omitempty"`
}

func (s *Server) HandleJobStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	jobID := r.URL.Query().Get("job_id")
	if jobID == "" {
		apperrors.NewValidationError("job_id is required", "MISSING_JOB_ID", "").WriteJSON(w)
		return
	}

	job, err := s.store.GetPlanJob(r.Context(), jobID)
	if err == nil && job.UserID != userID {
		err = db.ErrNotFound
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := JobStatusResponse{PlanJob: job}
	if job.Status == db.StatusCompleted && job.PlanID != "" {
		plan, err := s.store.GetMealPlan(r.Context(), job.PlanID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp.Plan = &plan
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) HandleLatestMealPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	plan, err := s.store.GetLatestMealPlan(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}
