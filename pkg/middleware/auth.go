package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/TuanVuuuu/petcare-api/pkg/errors"
	"github.com/TuanVuuuu/petcare-api/pkg/logger"
)

type contextKeyType string

const (
	userIDKey contextKeyType = "user_id"
	claimsKey contextKeyType = "claims"
)

// Claims represents the identity claims attached to a verified session token.
type Claims struct {
	UID     string    `json:"uid"`
	Email   string    `json:"email"`
	Expires time.Time `json:"expires"`
}

// TokenVerifier validates a session token against the identity platform and
// returns its decoded claims. The implementation decides whether revocation
// is checked; this middleware only transports the outcome.
type TokenVerifier func(ctx context.Context, token string) (*Claims, error)

// Auth validates the bearer token on every request and injects the decoded
// claims into context. A missing or malformed Authorization header is
// rejected before the verifier is ever called. Verification failures are
// terminal; there are no retries.
func Auth(verify TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, "UNAUTHORIZED", "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				writeAuthError(w, "UNAUTHORIZED", "authorization header must be of the form 'Bearer <token>'")
				return
			}

			claims, err := verify(r.Context(), parts[1])
			if err != nil {
				code, msg := "UNAUTHORIZED", "invalid or expired token"
				var appErr *apperrors.AppError
				if errors.As(err, &appErr) && appErr.Status == http.StatusUnauthorized {
					code, msg = appErr.Code, appErr.Message
				}
				writeAuthError(w, code, msg)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UID)
			ctx = context.WithValue(ctx, claimsKey, claims)
			ctx = logger.WithUserID(ctx, claims.UID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext extracts the authenticated uid from the request context.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// ClaimsFromContext extracts the full decoded claims from the request context.
func ClaimsFromContext(ctx context.Context) *Claims {
	if c, ok := ctx.Value(claimsKey).(*Claims); ok {
		return c
	}
	return nil
}

func writeAuthError(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}
