package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"

	"github.com/socialchef/planner/internal/validation"
)

var (
	// ErrInvalidCredential is returned when an adapter is built with a blank API key
	ErrInvalidCredential = errors.New("please provide a valid API key")

	// ErrMissingCredential is returned by the factory when the preferences carry no API key
	ErrMissingCredential = fmt.Errorf("%w in your preferences", ErrInvalidCredential)

	// ErrUnsupportedProvider matches every *UnsupportedProviderError
	ErrUnsupportedProvider = errors.New("invalid AI provider selected")

	// ErrEmptyResponse is wrapped when a vendor answers without any text
	ErrEmptyResponse = errors.New("no response received")
)

// UnsupportedProviderError reports a provider identifier outside the supported set
type UnsupportedProviderError struct {
	Provider string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnsupportedProvider, e.Provider)
}

func (e *UnsupportedProviderError) Is(target error) bool {
	return target == ErrUnsupportedProvider
}

// ErrorKind classifies a provider failure
type ErrorKind string

const (
	KindRateLimit       ErrorKind = "rate_limit"
	KindCreditExhausted ErrorKind = "credit_exhausted"
	KindServerError     ErrorKind = "server_error"
	KindClientError     ErrorKind = "client_error"
	KindFormat          ErrorKind = "format"
	KindEmptyResponse   ErrorKind = "empty_response"
	KindCanceled        ErrorKind = "canceled"
	KindUnknown         ErrorKind = "unknown"
)

// ProviderError is the single error shape adapters return for a failed call
type ProviderError struct {
	Provider   string
	Kind       ErrorKind
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s API error: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func newProviderError(provider string, err error) *ProviderError {
	kind, status := classify(err)
	return &ProviderError{
		Provider:   provider,
		Kind:       kind,
		StatusCode: status,
		Err:        err,
	}
}

func classify(err error) (ErrorKind, int) {
	var formatErr *validation.FormatError
	switch {
	case errors.As(err, &formatErr):
		return KindFormat, 0
	case errors.Is(err, ErrEmptyResponse):
		return KindEmptyResponse, 0
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled, 0
	}

	if status := statusCode(err); status != 0 {
		return kindForStatus(status), status
	}
	return classifyMessage(err.Error()), 0
}

// statusCode extracts the HTTP status from a vendor SDK error
func statusCode(err error) int {
	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		return openaiErr.StatusCode
	}
	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return anthropicErr.StatusCode
	}
	var geminiErr genai.APIError
	if errors.As(err, &geminiErr) {
		return geminiErr.Code
	}
	return 0
}

func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status == http.StatusPaymentRequired:
		return KindCreditExhausted
	case status >= 500:
		return KindServerError
	case status >= 400:
		return KindClientError
	default:
		return KindUnknown
	}
}

// classifyMessage is the fallback for errors that carry no typed status
func classifyMessage(msg string) ErrorKind {
	msg = strings.ToLower(msg)
	switch {
	case containsAny(msg, "status 429", "error 429", "429 too many requests", "rate limit", "too many requests", "resource_exhausted"):
		return KindRateLimit
	case containsAny(msg, "status 402", "insufficient credit", "insufficient_quota", "credit balance", "billing"):
		return KindCreditExhausted
	case containsAny(msg, "status 5", "error 5", "server error", "internal error", "overloaded", "unavailable"):
		return KindServerError
	case containsAny(msg, "status 4", "error 4", "bad request", "unauthorized", "forbidden", "invalid api key", "permission"):
		return KindClientError
	default:
		return KindUnknown
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// IsRetryable reports whether repeating the same request later may succeed.
// Adapters never retry on their own; this only informs the caller.
func IsRetryable(err error) bool {
	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		return false
	}
	switch providerErr.Kind {
	case KindRateLimit, KindServerError:
		return true
	default:
		return false
	}
}
