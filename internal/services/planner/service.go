// Package planner runs meal plan and recipe generation on behalf of a user,
// choosing the provider from the user's preferences for every call.
package planner

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/socialchef/planner/internal/mealplan"
	"github.com/socialchef/planner/internal/metrics"
	"github.com/socialchef/planner/internal/services/provider"
)

// ProviderFactory builds a fresh adapter for a set of preferences
type ProviderFactory interface {
	CreateProvider(prefs mealplan.UserPreferences) (provider.Provider, error)
}

// RecipeCache remembers recipe details per provider and meal
type RecipeCache interface {
	Get(ctx context.Context, provider mealplan.ProviderID, meal mealplan.Meal) (mealplan.RecipeResponse, bool)
	Set(ctx context.Context, provider mealplan.ProviderID, meal mealplan.Meal, recipe mealplan.RecipeResponse)
}

type Service struct {
	factory ProviderFactory
	cache   RecipeCache
}

// NewService creates a planner. cache may be nil.
func NewService(factory ProviderFactory, cache RecipeCache) *Service {
	return &Service{factory: factory, cache: cache}
}

// GeneratePlan asks the user's provider for a validated meal plan
func (s *Service) GeneratePlan(ctx context.Context, req mealplan.PlanRequest) (mealplan.MealPlanResponse, error) {
	p, err := s.factory.CreateProvider(req.UserPreferences)
	if err != nil {
		return mealplan.MealPlanResponse{}, err
	}

	start := time.Now()
	plan, err := p.GenerateMealPlan(ctx, req)
	status := "success"
	if err != nil {
		status = "failed"
	}
	metrics.MealPlanGenerationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", p.Name()),
		attribute.String("status", status),
	))

	if err != nil {
		slog.ErrorContext(ctx, "Meal plan generation failed",
			"provider", p.Name(),
			"duration", time.Since(start),
			"error", err,
		)
		return mealplan.MealPlanResponse{}, err
	}

	if want := req.Days(); want > 0 && len(plan.WeekPlan) != want {
		slog.WarnContext(ctx, "Provider returned unexpected number of days",
			"provider", p.Name(),
			"requested", want,
			"returned", len(plan.WeekPlan),
		)
	}

	slog.InfoContext(ctx, "Meal plan generated",
		"provider", p.Name(),
		"days", len(plan.WeekPlan),
		"duration", time.Since(start),
	)
	return plan, nil
}

// RecipeDetails returns the recipe for meal, from cache when possible
func (s *Service) RecipeDetails(ctx context.Context, prefs mealplan.UserPreferences, meal mealplan.Meal) (mealplan.RecipeResponse, error) {
	p, err := s.factory.CreateProvider(prefs)
	if err != nil {
		return mealplan.RecipeResponse{}, err
	}

	id := mealplan.ParseProviderID(string(prefs.AIProvider))
	attrs := metric.WithAttributes(attribute.String("provider", string(id)))

	if s.cache != nil {
		if recipe, ok := s.cache.Get(ctx, id, meal); ok {
			metrics.RecipeCacheHitsTotal.Add(ctx, 1, attrs)
			return recipe, nil
		}
		metrics.RecipeCacheMissesTotal.Add(ctx, 1, attrs)
	}

	recipe, err := p.GetRecipeDetails(ctx, meal)
	status := "success"
	if err != nil {
		status = "failed"
	}
	metrics.RecipeDetailsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", p.Name()),
		attribute.String("status", status),
	))
	if err != nil {
		slog.ErrorContext(ctx, "Recipe details failed", "provider", p.Name(), "meal", meal.Name, "error", err)
		return mealplan.RecipeResponse{}, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, id, meal, recipe)
	}
	return recipe, nil
}
