package errors

import (
	"fmt"
	"net/http"
)

// ErrorType defines the category of the error
type ErrorType string

const (
	ErrorTypeValidation          ErrorType = "VALIDATION_ERROR"
	ErrorTypeInvalidCredential   ErrorType = "INVALID_CREDENTIAL_ERROR"
	ErrorTypeUnsupportedProvider ErrorType = "UNSUPPORTED_PROVIDER_ERROR"
	ErrorTypeProvider            ErrorType = "PROVIDER_ERROR"
	ErrorTypeRateLimit           ErrorType = "RATE_LIMIT_ERROR"
	ErrorTypeNotFound            ErrorType = "NOT_FOUND_ERROR"
	ErrorTypeUnauthorized        ErrorType = "UNAUTHORIZED_ERROR"
	ErrorTypeInternal            ErrorType = "INTERNAL_ERROR"
)

// AppError represents a structured error for the application
type AppError struct {
	Type          ErrorType `json:"type"`
	Message       string    `json:"message"`
	StatusCode    int       `json:"statusCode"`
	ErrorCode     string    `json:"errorCode"`
	IsOperational bool      `json:"isOperational"`
	Recovery      string    `json:"recoverySuggestion,omitempty"`
	Err           error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Code returns the application-specific error code
func (e *AppError) Code() string {
	return e.ErrorCode
}

// RecoverySuggestion returns the suggestion on how to recover from the error
func (e *AppError) RecoverySuggestion() string {
	return e.Recovery
}

// IsRetryable reports whether the user may retry the same request later
func (e *AppError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeRateLimit:
		return true
	case ErrorTypeProvider:
		return e.StatusCode == http.StatusServiceUnavailable
	default:
		return false
	}
}

// NewValidationError creates a new validation error (400)
func NewValidationError(message string, errorCode string, suggestion string) *AppError {
	return &AppError{
		Type:          ErrorTypeValidation,
		Message:       message,
		StatusCode:    http.StatusBadRequest,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      suggestion,
	}
}

// NewInvalidCredentialError creates an error for a missing or blank API key (400)
func NewInvalidCredentialError(message string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeInvalidCredential,
		Message:       message,
		StatusCode:    http.StatusBadRequest,
		ErrorCode:     "INVALID_API_KEY",
		IsOperational: true,
		Recovery:      "Add a valid API key for the selected AI provider in your preferences.",
		Err:           err,
	}
}

// NewUnsupportedProviderError creates an error for an unknown AI provider (400)
func NewUnsupportedProviderError(message string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeUnsupportedProvider,
		Message:       message,
		StatusCode:    http.StatusBadRequest,
		ErrorCode:     "UNSUPPORTED_PROVIDER",
		IsOperational: true,
		Recovery:      "Select OpenAI, Claude or Gemini in your preferences.",
		Err:           err,
	}
}

// NewNotFoundError creates a new not found error (404)
func NewNotFoundError(message string, errorCode string, suggestion string) *AppError {
	return &AppError{
		Type:          ErrorTypeNotFound,
		Message:       message,
		StatusCode:    http.StatusNotFound,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      suggestion,
	}
}

// NewUnauthorizedError creates a new authentication error (401)
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Type:          ErrorTypeUnauthorized,
		Message:       message,
		StatusCode:    http.StatusUnauthorized,
		ErrorCode:     "UNAUTHORIZED",
		IsOperational: true,
	}
}

// NewRateLimitError creates a new rate limit error (429)
func NewRateLimitError(message string, errorCode string, suggestion string) *AppError {
	return &AppError{
		Type:          ErrorTypeRateLimit,
		Message:       message,
		StatusCode:    http.StatusTooManyRequests,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      suggestion,
	}
}

// NewProviderError creates an error for a failed AI provider call. Upstream
// outages map to 503, everything else to 502.
func NewProviderError(message string, errorCode string, unavailable bool, err error) *AppError {
	status := http.StatusBadGateway
	recovery := "Check your API key and account, then try again."
	if unavailable {
		status = http.StatusServiceUnavailable
		recovery = "The AI provider is unavailable right now. Try again in a few minutes."
	}
	return &AppError{
		Type:          ErrorTypeProvider,
		Message:       message,
		StatusCode:    status,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      recovery,
		Err:           err,
	}
}

// NewInternalError creates an unexpected server error (500)
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeInternal,
		Message:       message,
		StatusCode:    http.StatusInternalServerError,
		ErrorCode:     "INTERNAL",
		IsOperational: false,
		Err:           err,
	}
}
