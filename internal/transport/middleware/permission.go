package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/campaign-management/internal/auth"
)

// RequirePermissions rejects principals lacking all of the listed
// permissions. Session principals carry no scoped permission set and pass;
// the check binds API-key principals to the scopes minted onto the key.
func RequirePermissions(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.PrincipalFromContext(r.Context())
			if !ok || p == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if len(p.Permissions) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			if !p.HasAnyPermission(permissions) {
				slog.Warn("access denied: api key lacks required scope",
					"user_id", p.ID,
					"required_permissions", permissions)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
