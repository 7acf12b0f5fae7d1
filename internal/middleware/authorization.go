package middleware

import (
	"net/http"

	"linkshelf/internal/domain"

	"go.uber.org/zap"
)

// LoginPath is where gated requests without an admin session are sent.
const LoginPath = "/login"

// RequireAdmin gates mutating and privileged routes. Callers without
// an admin session are redirected to the login flow; the guarded
// handler never runs, not even partially.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRole(r.Context())
			if !ok {
				logger.Debug("Unauthenticated request to gated route",
					zap.String("path", r.URL.Path),
				)
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			if role != domain.RoleAdmin {
				logger.Warn("Non-admin session on gated route",
					zap.String("role", role),
					zap.String("path", r.URL.Path),
				)
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession gates routes that need any authenticated caller,
// regardless of role.
func RequireSession(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetUsername(r.Context()); !ok {
				logger.Debug("Unauthenticated request to session route",
					zap.String("path", r.URL.Path),
				)
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
