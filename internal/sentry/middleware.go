package sentry

import (
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"

	apperrors "github.com/socialchef/planner/internal/errors"
)

// HTTPMiddleware returns a middleware that captures panics in HTTP handlers
// and answers them with a JSON internal error.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub := sentry.GetHubFromContext(r.Context())
		if hub == nil {
			hub = sentry.CurrentHub().Clone()
		}
		hub.Scope().SetRequest(r)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		ctx := sentry.SetHubOnContext(r.Context(), hub)

		defer func() {
			if err := recover(); err != nil {
				hub.Recover(err)
				slog.ErrorContext(ctx, "Handler panicked", "path", r.URL.Path, "panic", err)
				if !wrapped.written {
					apperrors.NewInternalError("internal server error", nil).WriteJSON(wrapped)
				}
			}
		}()

		next.ServeHTTP(wrapped, r.WithContext(ctx))
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.written = true
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.written = true
	return w.ResponseWriter.Write(b)
}
