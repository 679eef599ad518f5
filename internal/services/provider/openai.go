package provider

import (
	"context"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/socialchef/planner/internal/config"
	"github.com/socialchef/planner/internal/mealplan"
	"github.com/socialchef/planner/internal/services/ai"
	"github.com/socialchef/planner/internal/validation"
)

// OpenAIProvider talks to the Chat Completions API and reads the answer
// as a stream of deltas
type OpenAIProvider struct {
	client      openai.Client
	model       string
	maxTokens   int64
	temperature float64
}

// NewOpenAIProvider creates an OpenAI adapter; apiKey must not be blank
func NewOpenAIProvider(apiKey string, opts ...Option) (*OpenAIProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrInvalidCredential
	}
	o := newOptions(config.DefaultProviders().OpenAI, opts)

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(o.httpClient),
		option.WithMaxRetries(0),
	}
	if o.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(o.baseURL))
	}

	return &OpenAIProvider{
		client:      openai.NewClient(reqOpts...),
		model:       o.model,
		maxTokens:   o.maxTokens,
		temperature: o.temperature,
	}, nil
}

func (p *OpenAIProvider) Name() string {
	return "OpenAI"
}

// GenerateMealPlan requests a meal plan for the given preferences and dates
func (p *OpenAIProvider) GenerateMealPlan(ctx context.Context, req mealplan.PlanRequest) (mealplan.MealPlanResponse, error) {
	return generate(ctx, p, operationMealPlan, ai.BuildMealPlanPrompt(req), validation.ValidateMealPlan)
}

// GetRecipeDetails requests the full recipe for a planned meal
func (p *OpenAIProvider) GetRecipeDetails(ctx context.Context, meal mealplan.Meal) (mealplan.RecipeResponse, error) {
	return generate(ctx, p, operationRecipe, ai.BuildRecipePrompt(meal), validation.ValidateRecipe)
}

func (p *OpenAIProvider) complete(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if p.temperature > 0 {
		params.Temperature = openai.Float(p.temperature)
	}
	if p.maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(p.maxTokens)
	}

	stream := p.client.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()

	return collectChunks(chatChunks{src: stream})
}

type chatChunkSource interface {
	Next() bool
	Current() openai.ChatCompletionChunk
	Err() error
}

// chatChunks exposes the first choice's content deltas as a ChunkStream
type chatChunks struct {
	src chatChunkSource
}

func (c chatChunks) Next() bool { return c.src.Next() }
func (c chatChunks) Err() error { return c.src.Err() }

func (c chatChunks) Current() string {
	chunk := c.src.Current()
	if len(chunk.Choices) == 0 {
		return ""
	}
	return chunk.Choices[0].Delta.Content
}
