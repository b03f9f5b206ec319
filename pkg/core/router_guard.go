package core

import (
	"net/http"
	"slices"

	manifest "github.com/joeydtaylor/steeze-webapp/pkg/manifest"
	"github.com/joeydtaylor/steeze-webapp/pkg/middleware/auth"
)

// withGuard enforces the manifest guard. Users and roles are alternatives:
// listing either requires an authenticated caller matching one of them.
func withGuard(next http.HandlerFunc, a *auth.Middleware, g manifest.Guard) http.HandlerFunc {
	open := !g.RequireAuth && len(g.Users) == 0 && len(g.Roles) == 0
	if open {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		// No auth middleware wired: nothing can satisfy the guard.
		if a == nil || !a.IsAuthenticated(r.Context()) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if len(g.Users) == 0 && len(g.Roles) == 0 {
			next(w, r)
			return
		}
		u := a.GetUser(r.Context())
		if slices.Contains(g.Users, u.Username) ||
			slices.Contains(g.Roles, u.Role.Name) ||
			(len(g.Roles) > 0 && a.IsAdmin(r.Context())) {
			next(w, r)
			return
		}
		http.Error(w, "Forbidden", http.StatusForbidden)
	}
}
