package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env            string
	ServiceName    string
	ServiceVersion string

	DatabaseURL string
	RedisURL    string

	AuthJWTSecret string
	AuthIssuer    string

	OtelExporterOTLPEndpoint string
	OtelExporterOTLPHeaders  string
	SentryDSN                string

	Port           string
	AllowedOrigins []string

	Providers ProvidersConfig
	Jobs      JobsConfig
}

// ProviderConfig holds the model settings for one AI vendor
type ProviderConfig struct {
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	MaxTokens   int64   `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

type ProvidersConfig struct {
	OpenAI ProviderConfig `yaml:"openai"`
	Claude ProviderConfig `yaml:"claude"`
	Gemini ProviderConfig `yaml:"gemini"`
}

type JobsConfig struct {
	Timeout        time.Duration `yaml:"timeout"`
	Concurrency    int           `yaml:"concurrency"`
	RecipeCacheTTL time.Duration `yaml:"recipe_cache_ttl"`
	Retention      time.Duration `yaml:"retention"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                      os.Getenv("ENV"),
		ServiceName:              os.Getenv("SERVICE_NAME"),
		ServiceVersion:           os.Getenv("SERVICE_VERSION"),
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		RedisURL:                 os.Getenv("REDIS_URL"),
		AuthJWTSecret:            os.Getenv("AUTH_JWT_SECRET"),
		AuthIssuer:               os.Getenv("AUTH_ISSUER"),
		OtelExporterOTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelExporterOTLPHeaders:  os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"),
		SentryDSN:                os.Getenv("SENTRY_DSN"),
		Port:                     os.Getenv("PORT"),
		AllowedOrigins:           splitList(os.Getenv("ALLOWED_ORIGINS")),
	}

	// Load from YAML file if available
	if err := cfg.LoadFromYAML("config.yaml"); err != nil {
		return nil, fmt.Errorf("failed to load YAML config: %w", err)
	}

	// Set defaults
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "socialchef-planner"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "1.0.0"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	cfg.SetProviderDefaults()
	cfg.SetJobDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func (c *Config) LoadFromYAML(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File not found is not an error
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlConfig struct {
		Providers ProvidersConfig `yaml:"providers"`
		Jobs      JobsConfig      `yaml:"jobs"`
	}

	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	mergeProvider(&c.Providers.OpenAI, yamlConfig.Providers.OpenAI)
	mergeProvider(&c.Providers.Claude, yamlConfig.Providers.Claude)
	mergeProvider(&c.Providers.Gemini, yamlConfig.Providers.Gemini)

	if yamlConfig.Jobs.Timeout > 0 {
		c.Jobs.Timeout = yamlConfig.Jobs.Timeout
	}
	if yamlConfig.Jobs.Concurrency > 0 {
		c.Jobs.Concurrency = yamlConfig.Jobs.Concurrency
	}
	if yamlConfig.Jobs.RecipeCacheTTL > 0 {
		c.Jobs.RecipeCacheTTL = yamlConfig.Jobs.RecipeCacheTTL
	}
	if yamlConfig.Jobs.Retention > 0 {
		c.Jobs.Retention = yamlConfig.Jobs.Retention
	}

	return nil
}

func mergeProvider(dst *ProviderConfig, src ProviderConfig) {
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
	if src.MaxTokens > 0 {
		dst.MaxTokens = src.MaxTokens
	}
	if src.Temperature > 0 {
		dst.Temperature = src.Temperature
	}
}

// DefaultProviders returns the model settings used when nothing is configured
func DefaultProviders() ProvidersConfig {
	return ProvidersConfig{
		OpenAI: ProviderConfig{Model: "gpt-4o", Temperature: 0.7},
		Claude: ProviderConfig{Model: "claude-3-5-sonnet-latest", MaxTokens: 4096},
		Gemini: ProviderConfig{Model: "gemini-1.5-flash"},
	}
}

func (c *Config) SetProviderDefaults() {
	defaults := DefaultProviders()
	for _, p := range []struct {
		dst *ProviderConfig
		def ProviderConfig
	}{
		{&c.Providers.OpenAI, defaults.OpenAI},
		{&c.Providers.Claude, defaults.Claude},
		{&c.Providers.Gemini, defaults.Gemini},
	} {
		if p.dst.Model == "" {
			p.dst.Model = p.def.Model
		}
		if p.dst.MaxTokens == 0 {
			p.dst.MaxTokens = p.def.MaxTokens
		}
		if p.dst.Temperature == 0 {
			p.dst.Temperature = p.def.Temperature
		}
	}
}

func (c *Config) SetJobDefaults() {
	if c.Jobs.Timeout == 0 {
		c.Jobs.Timeout = 3 * time.Minute
	}
	if c.Jobs.Concurrency == 0 {
		c.Jobs.Concurrency = 10
	}
	if c.Jobs.RecipeCacheTTL == 0 {
		c.Jobs.RecipeCacheTTL = 24 * time.Hour
	}
	if c.Jobs.Retention == 0 {
		c.Jobs.Retention = 7 * 24 * time.Hour
	}
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}
	if c.AuthJWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required")
	}
	if c.AuthIssuer == "" {
		return fmt.Errorf("AUTH_ISSUER is required")
	}
	return nil
}

// OTLPHeaders parses OTEL_EXPORTER_OTLP_HEADERS in the key=value,key=value form
func (c *Config) OTLPHeaders() map[string]string {
	headers := make(map[string]string)
	for _, pair := range splitList(c.OtelExporterOTLPHeaders) {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return headers
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
