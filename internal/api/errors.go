package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/socialchef/planner/internal/db"
	apperrors "github.com/socialchef/planner/internal/errors"
	"github.com/socialchef/planner/internal/mealplan"
	"github.com/socialchef/planner/internal/services/provider"
)

// FromError maps planner errors onto AppError. Messages from the providers
// and validators are passed through unchanged.
func FromError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var validationErr *mealplan.ValidationError
	if errors.As(err, &validationErr) {
		e := apperrors.NewValidationError(err.Error(), "INVALID_"+upperSnake(validationErr.Field), "Check the highlighted field and try again.")
		e.Err = err
		return e
	}

	if errors.Is(err, mealplan.ErrInvalidServings) {
		e := apperrors.NewValidationError(err.Error(), "INVALID_SERVINGS", "")
		e.Err = err
		return e
	}

	if errors.Is(err, provider.ErrInvalidCredential) {
		return apperrors.NewInvalidCredentialError(err.Error(), err)
	}

	if errors.Is(err, provider.ErrUnsupportedProvider) {
		return apperrors.NewUnsupportedProviderError(err.Error(), err)
	}

	var providerErr *provider.ProviderError
	if errors.As(err, &providerErr) {
		retryable := provider.IsRetryable(err)
		switch providerErr.Kind {
		case provider.KindRateLimit:
			e := apperrors.NewRateLimitError(err.Error(), "PROVIDER_RATE_LIMIT", "Wait a minute before trying again.")
			e.Err = err
			return e
		case provider.KindCreditExhausted:
			return apperrors.NewProviderError(err.Error(), "PROVIDER_CREDIT_EXHAUSTED", retryable, err)
		case provider.KindServerError:
			return apperrors.NewProviderError(err.Error(), "PROVIDER_UNAVAILABLE", retryable, err)
		case provider.KindFormat, provider.KindEmptyResponse:
			return apperrors.NewProviderError(err.Error(), "PROVIDER_INVALID_RESPONSE", retryable, err)
		default:
			return apperrors.NewProviderError(err.Error(), "PROVIDER_ERROR", retryable, err)
		}
	}

	if errors.Is(err, db.ErrNotFound) {
		return apperrors.NewNotFoundError("resource not found", "NOT_FOUND", "")
	}

	return apperrors.NewInternalError("internal server error", err)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := FromError(err)
	if appErr.IsOperational {
		slog.WarnContext(r.Context(), "Request failed", "path", r.URL.Path, "type", appErr.Type, "error", err)
	} else {
		slog.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
	}
	appErr.WriteJSON(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func upperSnake(field string) string {
	out := make([]rune, 0, len(field)+4)
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				out = append(out, '_')
			}
			out = append(out, r)
			continue
		}
		if r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		out = append(out, r)
	}
	return string(out)
}
