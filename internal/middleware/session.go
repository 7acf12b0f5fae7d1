package middleware

import (
	"context"
	"net/http"

	"linkshelf/internal/service"

	"go.uber.org/zap"
)

type contextKey string

const (
	UsernameKey contextKey = "username"
	UserRoleKey contextKey = "user_role"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "linkshelf_session"

// SessionMiddleware resolves the session cookie into a request-scoped
// identity {username, role}. Requests without a valid session pass
// through anonymous; gating is RequireAdmin's job.
func SessionMiddleware(auth service.AuthService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ValidateSession(cookie.Value)
			if err != nil {
				logger.Debug("Session token rejected", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UsernameKey, claims.Username)
			ctx = context.WithValue(ctx, UserRoleKey, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUsername extracts the session username from request context
func GetUsername(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}

// GetUserRole extracts the session role from request context
func GetUserRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(UserRoleKey).(string)
	return role, ok
}
