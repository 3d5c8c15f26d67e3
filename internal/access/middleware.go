package access

import (
	"net/http"

	"github.com/frahmantamala/campaign-management/internal"
	"github.com/frahmantamala/campaign-management/internal/auth"
)

// CatalogueAccessMiddleware aggregates the principal's accessible product
// category tags and stores them on the request context for catalogue
// filtering. Runs after authentication; a request without a principal passes
// through untouched and downstream filters see an empty set.
func CatalogueAccessMiddleware(svc ServiceAPI) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFromContext(r.Context())
			if !ok || principal == nil {
				next.ServeHTTP(w, r)
				return
			}

			tags, err := svc.Aggregate(r.Context(), principal)
			if err != nil {
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}

			ctx := internal.ContextWithAccessTags(r.Context(), tags)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
