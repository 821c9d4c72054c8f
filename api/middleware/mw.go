package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/AgroXSat/groundstation-services/internal/authn"
	"github.com/AgroXSat/groundstation-services/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string
type tokenKey string

const ClaimsKey contextKey = "claims"
const TokenKey tokenKey = "token"

// TokenParser verifies an access token. *authn.Issuer implements it.
type TokenParser interface {
	ParseClaims(token string) (authn.Claims, error)
}

// writeError writes the API's JSON error envelope.
func writeError(w http.ResponseWriter, status int, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "max-age=0")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(models.ErrorResponse(http.StatusText(status), details)); err != nil {
		log.Error().Err(err).Msg("Failed to encode error response")
	}
}

// JWTMiddleware parses the bearer token and adds claims to the request context.
func JWTMiddleware(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				logger := zerolog.Ctx(r.Context()).With().
					Str("handler", "JWTMiddleware").Logger()

				// Get the Authorization header
				authHeader := r.Header.Get("Authorization")
				if authHeader == "" {
					logger.Debug().Msg("authorization header missing")
					writeError(w, http.StatusUnauthorized, "authorization header missing")
					return
				}

				// Check the Authorization header format
				token := strings.TrimPrefix(authHeader, "Bearer ")
				if token == authHeader || token == "" {
					logger.Warn().Msg("invalid token format")
					writeError(w, http.StatusUnauthorized, "invalid token format")
					return
				}

				// Parse the token for JWT claims
				claims, err := tokens.ParseClaims(token)
				if err != nil {
					logger.Warn().Err(err).Msg("invalid bearer jwt token")
					writeError(w, http.StatusUnauthorized, "invalid bearer jwt token")
					return
				}

				// Add the token and claims to the context
				ctx := context.WithValue(r.Context(), TokenKey, token)
				ctx = context.WithValue(ctx, ClaimsKey, claims)

				next.ServeHTTP(w, r.WithContext(ctx))
			},
		)
	}
}

// RequireRole rejects requests whose claims lack role. It must run after JWTMiddleware.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				claims, ok := r.Context().Value(ClaimsKey).(authn.Claims)
				if !ok {
					writeError(w, http.StatusUnauthorized, "unauthorized: invalid claims")
					return
				}
				if !claims.HasRole(role) {
					zerolog.Ctx(r.Context()).Warn().Str("user", claims.Username).Str("role", role).Msg("missing required role")
					writeError(w, http.StatusForbidden, "forbidden: requires role "+role)
					return
				}
				next.ServeHTTP(w, r)
			},
		)
	}
}

// WithLogger adds a logger to the context and logs request information.
func WithLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			logger := log.With().
				Str("host", r.Host).
				Str("method", r.Method).
				Str("url", r.URL.String()).
				Str("remote_addr", r.RemoteAddr).
				Time("timestamp", time.Now()).
				Logger()

			// Add the logger to the context
			ctx := logger.WithContext(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))
		},
	)
}
