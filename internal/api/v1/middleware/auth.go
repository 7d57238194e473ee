package middleware

import (
	"context"
	"net/http"

	"github.com/deepgram/airelay/internal/config"
	"github.com/deepgram/airelay/internal/services/auth"
	"github.com/deepgram/airelay/pkg/httpext"
	"github.com/deepgram/airelay/pkg/logger"
)

type contextKey string

const (
	claimsKey    contextKey = "claims"
	requestIDKey contextKey = "requestID"
)

// RequireAuth rejects requests without a valid bearer token. It lets every
// request through when no JWT secret is configured.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.AuthEnabled() {
				next.ServeHTTP(w, r)
				return
			}

			l := logger.For(logger.AUTH)

			tokenString, err := auth.ExtractToken(r)
			if err != nil {
				l.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected request without usable token")
				httpext.JsonError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := auth.Validate(config.GetJWTSecret(), tokenString)
			if err != nil {
				l.Warn().Err(err).Str("path", r.URL.Path).Msg("Rejected invalid token")
				httpext.JsonError(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireScope must run after RequireAuth.
func RequireScope(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.AuthEnabled() {
				next.ServeHTTP(w, r)
				return
			}

			l := logger.For(logger.AUTH)

			claims := GetClaims(r)
			if claims == nil {
				l.Error().
					Str("path", r.URL.Path).
					Msg("Scope check without token claims in context")
				httpext.JsonError(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			if !claims.HasScope(scope) {
				l.Warn().
					Str("required_scope", scope).
					Strs("token_scopes", claims.Scopes).
					Str("path", r.URL.Path).
					Msg("Access denied - token missing required scope")
				httpext.JsonError(w, "Missing required scope", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetClaims returns the validated token claims stored by RequireAuth.
func GetClaims(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(claimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}
