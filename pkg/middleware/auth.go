package middleware

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/m-akash/e-commerce-inventory-api/pkg/errors"
	"github.com/m-akash/e-commerce-inventory-api/pkg/httputil"
	"github.com/m-akash/e-commerce-inventory-api/pkg/logger"
)

type authContextKey string

const (
	userIDContextKey authContextKey = "auth_user_id"
	claimsContextKey authContextKey = "auth_claims"
)

// Claims holds the identity extracted from a validated access token.
type Claims struct {
	UserID string
	Email  string
	Role   string
}

// TokenValidator validates a bearer token and returns the claims it carries.
type TokenValidator interface {
	Validate(token string) (*Claims, error)
}

// Auth returns middleware that requires a valid Bearer token. The user ID
// from the token is stored in the request context for handlers.
func Auth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				httputil.WriteError(w, r, apperrors.Unauthorized("missing authorization header"))
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.WriteError(w, r, apperrors.Unauthorized("authorization header must be a Bearer token"))
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				httputil.WriteError(w, r, apperrors.Unauthorized("invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), userIDContextKey, claims.UserID)
			ctx = context.WithValue(ctx, claimsContextKey, claims)
			ctx = logger.WithUserID(ctx, claims.UserID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user's ID, or "" if the
// request was not authenticated.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDContextKey).(string); ok {
		return id
	}
	return ""
}

// ClaimsFromContext returns the full token claims, or nil.
func ClaimsFromContext(ctx context.Context) *Claims {
	if c, ok := ctx.Value(claimsContextKey).(*Claims); ok {
		return c
	}
	return nil
}
