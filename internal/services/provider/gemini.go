package provider

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/socialchef/planner/internal/config"
	"github.com/socialchef/planner/internal/mealplan"
	"github.com/socialchef/planner/internal/services/ai"
	"github.com/socialchef/planner/internal/validation"
)

// GeminiProvider talks to the Gemini GenerateContent API
type GeminiProvider struct {
	client      *genai.Client
	model       string
	maxTokens   int64
	temperature float64
}

// NewGeminiProvider creates a Gemini adapter; apiKey must not be blank
func NewGeminiProvider(apiKey string, opts ...Option) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrInvalidCredential
	}
	o := newOptions(config.DefaultProviders().Gemini, opts)

	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: o.httpClient,
	}
	if o.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: o.baseURL}
	}

	// Creating a Gemini API client performs no network calls.
	client, err := genai.NewClient(context.Background(), cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiProvider{
		client:      client,
		model:       o.model,
		maxTokens:   o.maxTokens,
		temperature: o.temperature,
	}, nil
}

func (p *GeminiProvider) Name() string {
	return "Gemini"
}

// GenerateMealPlan requests a meal plan for the given preferences and dates
func (p *GeminiProvider) GenerateMealPlan(ctx context.Context, req mealplan.PlanRequest) (mealplan.MealPlanResponse, error) {
	return generate(ctx, p, operationMealPlan, ai.BuildMealPlanPrompt(req), validation.ValidateMealPlan)
}

// GetRecipeDetails requests the full recipe for a planned meal
func (p *GeminiProvider) GetRecipeDetails(ctx context.Context, meal mealplan.Meal) (mealplan.RecipeResponse, error) {
	return generate(ctx, p, operationRecipe, ai.BuildRecipePrompt(meal), validation.ValidateRecipe)
}

func (p *GeminiProvider) complete(ctx context.Context, prompt string) (string, error) {
	var cfg *genai.GenerateContentConfig
	if p.temperature > 0 || p.maxTokens > 0 {
		cfg = &genai.GenerateContentConfig{}
		if p.temperature > 0 {
			t := float32(p.temperature)
			cfg.Temperature = &t
		}
		if p.maxTokens > 0 {
			cfg.MaxOutputTokens = int32(p.maxTokens)
		}
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", nil
	}
	return resp.Text(), nil
}
