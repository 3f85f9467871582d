package rbac

import (
	"net/http"

	"github.com/aeroprep/aeroprep-backend/internal/apierr"
)

var defaultChecker = NewChecker(nil)

// Require enforces a single permission.
func Require(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" {
				apierr.Write(w, apierr.AuthRequired())
				return
			}
			if !defaultChecker.Has(role, perm) {
				apierr.Write(w, apierr.Forbidden(apierr.CodeForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAny enforces that the role has at least one of the permissions.
func RequireAny(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" {
				apierr.Write(w, apierr.AuthRequired())
				return
			}
			if !defaultChecker.Any(role, perms...) {
				apierr.Write(w, apierr.Forbidden(apierr.CodeForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
