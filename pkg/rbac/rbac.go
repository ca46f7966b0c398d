// Package rbac provides role-based access control middleware.
package rbac

import (
	"net/http"

	"github.com/keysncaps/keysncaps/pkg/middleware"
	"github.com/keysncaps/keysncaps/pkg/response"
)

// HasRole returns middleware that allows access only to users with one of
// the given roles. Requires middleware.Auth to have already run.
//
// A caller without an allowed role gets 401, the same answer an anonymous
// caller gets, so probing admin routes with a customer token reveals
// nothing about their existence.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r)
			if !ok || !allowed[role] {
				response.Unauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
