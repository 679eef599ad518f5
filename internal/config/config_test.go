package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadProvidersConfig(t *testing.T) {
	configContent := `providers:
  openai:
    model: gpt-4o-mini
    base_url: http://localhost:9000/v1
    temperature: 0.2
  claude:
    max_tokens: 2048
jobs:
  timeout: 90s
  recipe_cache_ttl: 1h`

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.yaml")

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg := &Config{}
	cfg.SetProviderDefaults()
	cfg.SetJobDefaults()
	err = cfg.LoadFromYAML(configPath)
	if err != nil {
		t.Fatalf("Failed to load YAML config: %v", err)
	}

	if cfg.Providers.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("Expected openai model 'gpt-4o-mini', got '%s'", cfg.Providers.OpenAI.Model)
	}
	if cfg.Providers.OpenAI.BaseURL != "http://localhost:9000/v1" {
		t.Errorf("Unexpected openai base url '%s'", cfg.Providers.OpenAI.BaseURL)
	}
	if cfg.Providers.OpenAI.Temperature != 0.2 {
		t.Errorf("Expected temperature 0.2, got %v", cfg.Providers.OpenAI.Temperature)
	}
	if cfg.Providers.Claude.Model != "claude-3-5-sonnet-latest" {
		t.Errorf("Expected default claude model, got '%s'", cfg.Providers.Claude.Model)
	}
	if cfg.Providers.Claude.MaxTokens != 2048 {
		t.Errorf("Expected claude max tokens 2048, got %d", cfg.Providers.Claude.MaxTokens)
	}
	if cfg.Jobs.Timeout != 90*time.Second {
		t.Errorf("Expected job timeout 90s, got %v", cfg.Jobs.Timeout)
	}
	if cfg.Jobs.RecipeCacheTTL != time.Hour {
		t.Errorf("Expected cache ttl 1h, got %v", cfg.Jobs.RecipeCacheTTL)
	}
	if cfg.Jobs.Concurrency != 10 {
		t.Errorf("Expected default concurrency 10, got %d", cfg.Jobs.Concurrency)
	}
}

func TestLoadFromYAMLMissingFile(t *testing.T) {
	cfg := &Config{}
	if err := cfg.LoadFromYAML(filepath.Join(t.TempDir(), "missing.yaml")); err != nil {
		t.Fatalf("Expected missing file to be ignored, got %v", err)
	}
}

func TestProviderDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetProviderDefaults()

	if cfg.Providers.OpenAI.Model != "gpt-4o" {
		t.Errorf("Expected default openai model 'gpt-4o', got '%s'", cfg.Providers.OpenAI.Model)
	}
	if cfg.Providers.Gemini.Model != "gemini-1.5-flash" {
		t.Errorf("Expected default gemini model, got '%s'", cfg.Providers.Gemini.Model)
	}
	if cfg.Providers.Claude.MaxTokens != 4096 {
		t.Errorf("Expected default claude max tokens 4096, got %d", cfg.Providers.Claude.MaxTokens)
	}
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/planner")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("AUTH_ISSUER", "https://auth.example.com")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error when AUTH_JWT_SECRET is missing")
	}

	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, http://localhost:3000")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://localhost:3000" {
		t.Errorf("Unexpected allowed origins %v", cfg.AllowedOrigins)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
}

func TestOTLPHeaders(t *testing.T) {
	cfg := &Config{OtelExporterOTLPHeaders: "Authorization=Basic abc, x-team = planner,broken"}
	headers := cfg.OTLPHeaders()

	if headers["Authorization"] != "Basic abc" {
		t.Errorf("Unexpected Authorization header %q", headers["Authorization"])
	}
	if headers["x-team"] != "planner" {
		t.Errorf("Unexpected x-team header %q", headers["x-team"])
	}
	if len(headers) != 2 {
		t.Errorf("Expected 2 headers, got %d", len(headers))
	}
}
