package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/genai"

	"github.com/socialchef/planner/internal/validation"
)

func TestClassifyMessage(t *testing.T) {
	tests := []struct {
		msg  string
		want ErrorKind
	}{
		{"API error: status 429", KindRateLimit},
		{"Rate limit reached for gpt-4o", KindRateLimit},
		{"Error 429, Message: Resource has been exhausted, Status: RESOURCE_EXHAUSTED", KindRateLimit},
		{"You exceeded your current quota: insufficient_quota", KindCreditExhausted},
		{"Your credit balance is too low", KindCreditExhausted},
		{"status 503 service unavailable", KindServerError},
		{"Overloaded", KindServerError},
		{"401 Unauthorized", KindClientError},
		{"something odd", KindUnknown},
	}

	for _, tt := range tests {
		if got := classifyMessage(tt.msg); got != tt.want {
			t.Errorf("classifyMessage(%q) = %s, want %s", tt.msg, got, tt.want)
		}
	}
}

func TestNewProviderError(t *testing.T) {
	t.Run("format error", func(t *testing.T) {
		_, cause := validation.ValidateMealPlan(`{"weekPlan": 1}`)
		err := newProviderError("Claude", cause)

		if err.Kind != KindFormat {
			t.Errorf("Expected format kind, got %s", err.Kind)
		}
		want := "Claude API error: invalid response format: weekPlan must be an array"
		if err.Error() != want {
			t.Errorf("Expected %q, got %q", want, err.Error())
		}

		var formatErr *validation.FormatError
		if !errors.As(err, &formatErr) {
			t.Error("Expected FormatError to be reachable through Unwrap")
		}
	})

	t.Run("empty response", func(t *testing.T) {
		err := newProviderError("OpenAI", fmt.Errorf("%w from OpenAI", ErrEmptyResponse))
		if err.Kind != KindEmptyResponse {
			t.Errorf("Expected empty_response kind, got %s", err.Kind)
		}
		if err.Error() != "OpenAI API error: no response received from OpenAI" {
			t.Errorf("Unexpected message %q", err.Error())
		}
	})

	t.Run("canceled", func(t *testing.T) {
		err := newProviderError("Gemini", context.Canceled)
		if err.Kind != KindCanceled {
			t.Errorf("Expected canceled kind, got %s", err.Kind)
		}
		if !errors.Is(err, context.Canceled) {
			t.Error("Expected context.Canceled to be reachable")
		}
	})
}

func TestKindForStatus(t *testing.T) {
	tests := map[int]ErrorKind{
		429: KindRateLimit,
		402: KindCreditExhausted,
		500: KindServerError,
		529: KindServerError,
		400: KindClientError,
		401: KindClientError,
		200: KindUnknown,
	}
	for status, want := range tests {
		if got := kindForStatus(status); got != want {
			t.Errorf("kindForStatus(%d) = %s, want %s", status, got, want)
		}
	}
}

func TestNewProviderError_GeminiStatus(t *testing.T) {
	cause := fmt.Errorf("generate content: %w", genai.APIError{Code: 503, Message: "The model is overloaded", Status: "UNAVAILABLE"})
	err := newProviderError("Gemini", cause)

	if err.StatusCode != 503 {
		t.Errorf("Expected status 503, got %d", err.StatusCode)
	}
	if err.Kind != KindServerError {
		t.Errorf("Expected server_error kind, got %s", err.Kind)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limit", &ProviderError{Provider: "OpenAI", Kind: KindRateLimit, Err: errors.New("x")}, true},
		{"server error", &ProviderError{Provider: "OpenAI", Kind: KindServerError, Err: errors.New("x")}, true},
		{"wrapped server error", fmt.Errorf("job: %w", &ProviderError{Provider: "Claude", Kind: KindServerError, Err: errors.New("x")}), true},
		{"format", &ProviderError{Provider: "Gemini", Kind: KindFormat, Err: errors.New("x")}, false},
		{"credential", ErrInvalidCredential, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCredentialErrors(t *testing.T) {
	if !errors.Is(ErrMissingCredential, ErrInvalidCredential) {
		t.Error("Expected ErrMissingCredential to wrap ErrInvalidCredential")
	}
	if ErrMissingCredential.Error() != "please provide a valid API key in your preferences" {
		t.Errorf("Unexpected message %q", ErrMissingCredential.Error())
	}

	err := &UnsupportedProviderError{Provider: "mistral"}
	if !errors.Is(err, ErrUnsupportedProvider) {
		t.Error("Expected UnsupportedProviderError to match ErrUnsupportedProvider")
	}
	if err.Error() != `invalid AI provider selected: "mistral"` {
		t.Errorf("Unexpected message %q", err.Error())
	}
}
