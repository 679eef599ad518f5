package provider

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/socialchef/planner/internal/config"
	"github.com/socialchef/planner/internal/mealplan"
	"github.com/socialchef/planner/internal/services/ai"
	"github.com/socialchef/planner/internal/validation"
)

// ClaudeProvider talks to the Anthropic Messages API
type ClaudeProvider struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
}

// NewClaudeProvider creates a Claude adapter; apiKey must not be blank
func NewClaudeProvider(apiKey string, opts ...Option) (*ClaudeProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrInvalidCredential
	}
	o := newOptions(config.DefaultProviders().Claude, opts)

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(o.httpClient),
		option.WithMaxRetries(0),
	}
	if o.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(o.baseURL))
	}

	return &ClaudeProvider{
		client:      anthropic.NewClient(reqOpts...),
		model:       o.model,
		maxTokens:   o.maxTokens,
		temperature: o.temperature,
	}, nil
}

func (p *ClaudeProvider) Name() string {
	return "Claude"
}

// GenerateMealPlan requests a meal plan for the given preferences and dates
func (p *ClaudeProvider) GenerateMealPlan(ctx context.Context, req mealplan.PlanRequest) (mealplan.MealPlanResponse, error) {
	return generate(ctx, p, operationMealPlan, ai.BuildMealPlanPrompt(req), validation.ValidateMealPlan)
}

// GetRecipeDetails requests the full recipe for a planned meal
func (p *ClaudeProvider) GetRecipeDetails(ctx context.Context, meal mealplan.Meal) (mealplan.RecipeResponse, error) {
	return generate(ctx, p, operationRecipe, ai.BuildRecipePrompt(meal), validation.ValidateRecipe)
}

func (p *ClaudeProvider) complete(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: p.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if p.temperature > 0 {
		params.Temperature = anthropic.Float(p.temperature)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}
