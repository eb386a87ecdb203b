package middleware

import (
	"net/http"

	"github.com/exchange-admin/internal/domain"
)

type PermissionSource interface {
	Allows(role domain.Role, p domain.Permission) bool
}

// Authorize lets the request through only if the principal's role grants perm.
func Authorize(perms PermissionSource, perm domain.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if !perms.Allows(p.Role, perm) {
				writeJSONError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
