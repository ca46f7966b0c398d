package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/keysncaps/keysncaps/pkg/auth"
	"github.com/keysncaps/keysncaps/pkg/response"
)

type userIDKey struct{}
type roleKey struct{}

// UserLookup reports whether a user with the given id exists. The auth
// middleware rejects tokens whose subject no longer resolves to a user.
type UserLookup func(ctx context.Context, id string) bool

// UserIDFromCtx returns the authenticated user's id set by Auth.
func UserIDFromCtx(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(userIDKey{}).(string)
	return id, ok
}

// RoleFromCtx returns the authenticated user's role set by Auth.
func RoleFromCtx(r *http.Request) (string, bool) {
	role, ok := r.Context().Value(roleKey{}).(string)
	return role, ok
}

// Auth returns middleware that verifies the Authorization bearer token,
// confirms the decoded user still exists, and stores the user id and role
// in the request context. Expired or invalid tokens, refresh tokens used
// as bearer credentials, and orphaned user ids all yield 401.
func Auth(exists UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if token == "" {
				response.Unauthorized(w)
				return
			}

			claims, err := auth.ValidateToken(token, auth.TypeAccess)
			if err != nil {
				response.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			if exists != nil && !exists(r.Context(), claims.UserID) {
				response.Unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey{}, claims.UserID)
			ctx = context.WithValue(ctx, roleKey{}, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
