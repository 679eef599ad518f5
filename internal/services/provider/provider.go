// Package provider adapts the supported AI vendors to one meal planning
// interface and creates the adapter that matches a user's preferences.
package provider

import (
	"context"
	"net/http"

	"github.com/socialchef/planner/internal/config"
	"github.com/socialchef/planner/internal/httpclient"
	"github.com/socialchef/planner/internal/mealplan"
)

// Provider generates meal plans and recipe details with one AI vendor
type Provider interface {
	// Name is the vendor display name used in error messages
	Name() string
	GenerateMealPlan(ctx context.Context, req mealplan.PlanRequest) (mealplan.MealPlanResponse, error)
	GetRecipeDetails(ctx context.Context, meal mealplan.Meal) (mealplan.RecipeResponse, error)
}

// Option configures an adapter at construction time
type Option func(*options)

type options struct {
	model       string
	baseURL     string
	httpClient  *http.Client
	maxTokens   int64
	temperature float64
}

// WithModel overrides the vendor model identifier
func WithModel(model string) Option {
	return func(o *options) {
		if model != "" {
			o.model = model
		}
	}
}

// WithBaseURL points the adapter at a different API endpoint
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithHTTPClient sets the HTTP client used for vendor requests
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithMaxTokens limits the length of the model output
func WithMaxTokens(n int64) Option {
	return func(o *options) { o.maxTokens = n }
}

// WithTemperature sets the sampling temperature
func WithTemperature(t float64) Option {
	return func(o *options) { o.temperature = t }
}

// WithConfig applies the model settings of one configured vendor
func WithConfig(cfg config.ProviderConfig) Option {
	return func(o *options) {
		if cfg.Model != "" {
			o.model = cfg.Model
		}
		if cfg.BaseURL != "" {
			o.baseURL = cfg.BaseURL
		}
		if cfg.MaxTokens > 0 {
			o.maxTokens = cfg.MaxTokens
		}
		if cfg.Temperature > 0 {
			o.temperature = cfg.Temperature
		}
	}
}

func newOptions(defaults config.ProviderConfig, opts []Option) options {
	o := options{httpClient: httpclient.ProviderClient}
	WithConfig(defaults)(&o)
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
