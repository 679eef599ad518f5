package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/socialchef/planner/internal/httpclient"
	"github.com/socialchef/planner/internal/metrics"
)

const (
	operationMealPlan = "meal_plan"
	operationRecipe   = "recipe_details"
)

// completer sends one prompt to a vendor and returns the raw text answer.
// Implementations may return partial text together with an error when a
// streamed response ends early.
type completer interface {
	Name() string
	complete(ctx context.Context, prompt string) (string, error)
}

// generate runs the call discipline shared by all adapters: send the prompt,
// reject empty output, validate, and wrap every failure in a ProviderError
func generate[T any](ctx context.Context, c completer, operation, prompt string, validate func(string) (T, error)) (T, error) {
	var zero T
	name := c.Name()

	start := time.Now()
	status := "success"
	defer func() {
		attrs := metric.WithAttributes(
			attribute.String("provider", name),
			attribute.String("operation", operation),
			attribute.String("status", status),
		)
		metrics.AIGenerationDuration.Record(ctx, time.Since(start).Seconds(), attrs)
		metrics.ExternalAPICallsTotal.Add(ctx, 1, attrs)
	}()

	text, callErr := c.complete(httpclient.WithProvider(ctx, name), prompt)
	metrics.ExternalAPIDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("provider", name),
		attribute.String("operation", operation),
	))

	if callErr != nil && strings.TrimSpace(text) == "" {
		status = "error"
		return zero, newProviderError(name, callErr)
	}
	if strings.TrimSpace(text) == "" {
		status = "empty"
		return zero, newProviderError(name, fmt.Errorf("%w from %s", ErrEmptyResponse, name))
	}

	result, err := validate(text)
	if err != nil {
		status = "invalid"
		metrics.ValidationFailuresTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("provider", name),
			attribute.String("operation", operation),
		))
		if callErr != nil {
			err = fmt.Errorf("%w (stream interrupted: %w)", err, callErr)
		}
		return zero, newProviderError(name, err)
	}
	if callErr != nil {
		status = "error"
		return zero, newProviderError(name, callErr)
	}

	return result, nil
}
