package provider

import (
	"net/http"
	"strings"

	"github.com/socialchef/planner/internal/config"
	"github.com/socialchef/planner/internal/httpclient"
	"github.com/socialchef/planner/internal/mealplan"
)

// Factory builds the adapter selected in a user's preferences
type Factory struct {
	providers  config.ProvidersConfig
	httpClient *http.Client
}

// NewFactory creates a Factory with the given model settings. A nil client
// falls back to the instrumented provider client.
func NewFactory(providers config.ProvidersConfig, httpClient *http.Client) *Factory {
	if httpClient == nil {
		httpClient = httpclient.ProviderClient
	}
	return &Factory{providers: providers, httpClient: httpClient}
}

// CreateProvider returns a new adapter for prefs.AIProvider. The credential
// is checked before any adapter is constructed and nothing is cached.
func (f *Factory) CreateProvider(prefs mealplan.UserPreferences) (Provider, error) {
	if strings.TrimSpace(prefs.APIKey) == "" {
		return nil, ErrMissingCredential
	}

	switch mealplan.ParseProviderID(string(prefs.AIProvider)) {
	case mealplan.ProviderOpenAI:
		return build(NewOpenAIProvider(prefs.APIKey, WithConfig(f.providers.OpenAI), WithHTTPClient(f.httpClient)))
	case mealplan.ProviderClaude:
		return build(NewClaudeProvider(prefs.APIKey, WithConfig(f.providers.Claude), WithHTTPClient(f.httpClient)))
	case mealplan.ProviderGemini:
		return build(NewGeminiProvider(prefs.APIKey, WithConfig(f.providers.Gemini), WithHTTPClient(f.httpClient)))
	default:
		return nil, &UnsupportedProviderError{Provider: string(prefs.AIProvider)}
	}
}

// build avoids returning a typed nil adapter inside a non-nil interface
func build[T Provider](p T, err error) (Provider, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}

var defaultFactory = NewFactory(config.DefaultProviders(), nil)

// CreateProvider builds an adapter with the default model settings
func CreateProvider(prefs mealplan.UserPreferences) (Provider, error) {
	return defaultFactory.CreateProvider(prefs)
}
