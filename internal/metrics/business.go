package metrics

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter = otel.Meter("socialchef/planner")

	// Meal plan metrics
	MealPlanGenerationsTotal metric.Int64Counter
	RecipeDetailsTotal       metric.Int64Counter
	ValidationFailuresTotal  metric.Int64Counter

	// External API metrics
	ExternalAPICallsTotal metric.Int64Counter
	ExternalAPIDuration   metric.Float64Histogram

	// AI metrics
	AIGenerationDuration metric.Float64Histogram

	// Cache metrics
	RecipeCacheHitsTotal   metric.Int64Counter
	RecipeCacheMissesTotal metric.Int64Counter
)

// Instruments resolve through the global meter provider, so they are usable
// before telemetry is configured and start exporting once it is.
func init() {
	if err := Init(); err != nil {
		otel.Handle(err)
	}
}

func Init() error {
	var err error

	MealPlanGenerationsTotal, err = meter.Int64Counter(
		"mealplan.generations.total",
		metric.WithDescription("Total number of meal plan generations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	RecipeDetailsTotal, err = meter.Int64Counter(
		"mealplan.recipe_details.total",
		metric.WithDescription("Total number of recipe detail requests sent to a provider"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ValidationFailuresTotal, err = meter.Int64Counter(
		"mealplan.validation_failures.total",
		metric.WithDescription("Total number of model responses rejected by validation"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	// External API metrics
	ExternalAPICallsTotal, err = meter.Int64Counter(
		"external.api.calls.total",
		metric.WithDescription("Total number of external API calls"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ExternalAPIDuration, err = meter.Float64Histogram(
		"external.api.duration",
		metric.WithDescription("Duration of external API calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30),
	)
	if err != nil {
		return err
	}

	AIGenerationDuration, err = meter.Float64Histogram(
		"ai.generation.duration",
		metric.WithDescription("Duration of AI generation including validation"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 1, 2, 5, 10, 30, 60, 120),
	)
	if err != nil {
		return err
	}

	RecipeCacheHitsTotal, err = meter.Int64Counter(
		"recipe.cache.hits.total",
		metric.WithDescription("Recipe detail lookups served from cache"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	RecipeCacheMissesTotal, err = meter.Int64Counter(
		"recipe.cache.misses.total",
		metric.WithDescription("Recipe detail lookups that required a provider call"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	return nil
}
