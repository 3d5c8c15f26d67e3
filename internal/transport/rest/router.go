package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/campaign-management/internal/access"
	"github.com/frahmantamala/campaign-management/internal/auth"
	"github.com/frahmantamala/campaign-management/internal/campaign"
	"github.com/frahmantamala/campaign-management/internal/privacy"
	"github.com/frahmantamala/campaign-management/internal/transport/middleware"
	"github.com/frahmantamala/campaign-management/internal/transport/swagger"
	"github.com/frahmantamala/campaign-management/internal/user"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth     *auth.Handler
	Guard    *auth.Guard
	User     *user.Handler
	Access   *access.Handler
	Privacy  *privacy.Handler
	Campaign *campaign.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, openAPIPath string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// roles an employee-level rule admits; always explicit per route
	managingRoles := []auth.Role{auth.RoleCompanyAdministrator, auth.RoleCampaignManager}
	readingRoles := append([]auth.Role{auth.RoleEmployee}, managingRoles...)

	// Apply global middleware
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, openAPIPath)
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Protected routes that require a resolved principal
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			// Current user and their API keys (owner-self by construction)
			pr.Get("/users/me", h.User.GetCurrentUser)
			pr.Route("/users/me/api-keys", func(kr chi.Router) {
				kr.Use(auth.RequireVerifiedMiddleware)
				kr.Post("/", h.User.CreateAPIKey)
				kr.Get("/", h.User.ListAPIKeys)
				kr.Delete("/{id}", h.User.RevokeAPIKey)
			})

			// Aggregated catalogue access for the current principal
			pr.Get("/catalogue-access", h.Access.GetCatalogueAccess)

			// Campaign catalogue
			pr.Route("/campaigns", func(cr chi.Router) {
				cr.Use(auth.RequireVerifiedMiddleware)

				cr.Group(func(lr chi.Router) {
					lr.Use(middleware.RequirePermissions("campaigns:read"))
					lr.Use(access.CatalogueAccessMiddleware(h.Access.Service))
					lr.Get("/", h.Campaign.List)
				})

				cr.Group(func(wr chi.Router) {
					wr.Use(middleware.RequirePermissions("campaigns:write"))
					wr.Post("/", h.Campaign.Create)
				})

				cr.Group(func(ir chi.Router) {
					ir.Use(middleware.RequirePermissions("campaigns:read"))
					ir.Use(h.Guard.RequireRelation("campaigns", auth.RelationOwnerOrAdminOrEmployee, readingRoles...))
					ir.Get("/{id}", h.Campaign.Get)
				})

				cr.Group(func(ir chi.Router) {
					ir.Use(middleware.RequirePermissions("campaigns:write"))
					ir.Use(h.Guard.RequireRelation("campaigns", auth.RelationOwnerOrAdminOrEmployee, managingRoles...))
					ir.Patch("/{id}", h.Campaign.Update)
					ir.Delete("/{id}", h.Campaign.Deactivate)
				})
			})

			// Access control groups and their grants
			pr.Route("/access-groups", func(gr chi.Router) {
				gr.Use(auth.RequireVerifiedMiddleware)

				gr.Group(func(mr chi.Router) {
					mr.Use(auth.RequireRoles(auth.RoleCompanyAdministrator))
					mr.Post("/", h.Access.CreateGroup)
				})
				gr.Get("/", h.Access.ListGroups)

				gr.Group(func(ir chi.Router) {
					ir.Use(h.Guard.RequireRelation("access_control_groups", auth.RelationOwnerOrAdminOrEmployee, readingRoles...))
					ir.Get("/{id}", h.Access.GetGroup)
				})

				gr.Group(func(ir chi.Router) {
					ir.Use(h.Guard.RequireRelation("access_control_groups", auth.RelationOwnerOrAdmin))
					ir.Delete("/{id}", h.Access.DeleteGroup)
					ir.Post("/{id}/grants", h.Access.Grant)
					ir.Post("/{id}/revocations", h.Access.Revoke)
				})
			})

			// Privacy rule administration per company
			pr.Route("/companies/{id}/privacy-rules", func(rr chi.Router) {
				rr.Use(auth.RequireVerifiedMiddleware)
				rr.Use(h.Guard.RequireRelation("companies", auth.RelationOwnerOrAdmin))
				rr.Get("/", h.Privacy.ListRules)
				rr.Put("/", h.Privacy.SetRule)
			})
		})
	})
}
