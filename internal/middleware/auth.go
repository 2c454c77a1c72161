package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mvoronin/library-catalog/backend/internal/auth"
	"github.com/mvoronin/library-catalog/backend/internal/models"
)

type contextKey string

const userKey contextKey = "auth_user"

// RequireAuth is middleware that resolves the Authorization bearer
// credential to a user and injects it into the request context. Any
// failure, missing header included, yields 401.
func RequireAuth(tokens auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const prefix = "Bearer "
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, prefix) {
				http.Error(w, `{"error":"invalid or missing token"}`, http.StatusUnauthorized)
				return
			}

			user, err := tokens.Resolve(r.Context(), header[len(prefix):])
			if err != nil || user == nil {
				http.Error(w, `{"error":"invalid or missing token"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user, or nil for requests that
// did not pass through RequireAuth.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}
