package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/socialchef/planner/internal/config"
	apperrors "github.com/socialchef/planner/internal/errors"
)

type contextKey string

const UserIDKey contextKey = "userID"

// AuthMiddleware validates HS256 bearer tokens issued by cfg.AuthIssuer and
// puts the subject into the request context.
func AuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.AuthIssuer),
		jwt.WithExpirationRequired(),
	)
	keyFunc := func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.AuthJWTSecret), nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apperrors.NewUnauthorizedError("missing Authorization header").WriteJSON(w)
				return
			}

			scheme, tokenString, ok := strings.Cut(authHeader, " ")
			if !ok || scheme != "Bearer" || tokenString == "" {
				apperrors.NewUnauthorizedError("invalid Authorization header format").WriteJSON(w)
				return
			}

			var claims jwt.RegisteredClaims
			if _, err := parser.ParseWithClaims(tokenString, &claims, keyFunc); err != nil {
				apperrors.NewUnauthorizedError("invalid token").WriteJSON(w)
				return
			}

			if claims.Subject == "" {
				apperrors.NewUnauthorizedError("missing sub claim").WriteJSON(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the user ID from request context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// RequireAuth is a helper that returns 401 if no user ID in context
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserID(r.Context()); !ok {
			apperrors.NewUnauthorizedError("authentication required").WriteJSON(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
