package auth

import (
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/campaign-management/internal"
)

var _ = ginkgo.Describe("Authorize", func() {
	companyID := int64(10)
	record := Record{
		CompanyID:      &companyID,
		CompanyOwnerID: 7,
	}

	ginkgo.Describe("the admin role", func() {
		ginkgo.It("should pass every relation", func() {
			admin := &Principal{ID: 99, Role: RoleAdmin}

			for _, relation := range []Relation{RelationOwnerOrAdmin, RelationOwnerOrAdminOrEmployee, RelationOwnerSelf} {
				decision, err := Authorize(admin, record, relation)

				gomega.Expect(err).NotTo(gomega.HaveOccurred())
				gomega.Expect(decision.Allowed).To(gomega.BeTrue())
				gomega.Expect(decision.IsOwnerOrAdmin).To(gomega.BeTrue())
			}
		})
	})

	ginkgo.Describe("owner-or-admin", func() {
		ginkgo.It("should allow the company owner", func() {
			owner := &Principal{ID: 7, Role: RoleCompanyAdministrator, CompanyID: &companyID}

			decision, err := Authorize(owner, record, RelationOwnerOrAdmin)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(decision.Allowed).To(gomega.BeTrue())
			gomega.Expect(decision.IsOwnerOrAdmin).To(gomega.BeTrue())
		})

		ginkgo.It("should deny everyone else, colleagues included", func() {
			colleague := &Principal{ID: 8, Role: RoleEmployee, CompanyID: &companyID}

			_, err := Authorize(colleague, record, RelationOwnerOrAdmin)

			gomega.Expect(err).To(gomega.MatchError(internal.ErrNotOwnerOrAdmin))
		})
	})

	ginkgo.Describe("owner-or-admin-or-employee", func() {
		ginkgo.It("should allow a same-company principal with an allowed role", func() {
			employee := &Principal{ID: 8, Role: RoleEmployee, CompanyID: &companyID}

			decision, err := Authorize(employee, record, RelationOwnerOrAdminOrEmployee, RoleEmployee)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(decision.Allowed).To(gomega.BeTrue())
			gomega.Expect(decision.IsOwnerOrAdmin).To(gomega.BeFalse())
		})

		ginkgo.It("should report a role problem for a same-company principal outside the allowed set", func() {
			ghost := &Principal{ID: 8, Role: RoleGhost, CompanyID: &companyID}

			_, err := Authorize(ghost, record, RelationOwnerOrAdminOrEmployee, RoleEmployee)

			gomega.Expect(err).To(gomega.MatchError(internal.ErrRoleNotAllowed))
		})

		ginkgo.It("should deny a principal from another company regardless of role", func() {
			otherCompany := int64(20)
			outsider := &Principal{ID: 8, Role: RoleEmployee, CompanyID: &otherCompany}

			_, err := Authorize(outsider, record, RelationOwnerOrAdminOrEmployee, RoleEmployee)

			gomega.Expect(err).To(gomega.MatchError(internal.ErrNotOwnerOrAdmin))
		})

		ginkgo.It("should never imply a role set when none is passed", func() {
			employee := &Principal{ID: 8, Role: RoleEmployee, CompanyID: &companyID}

			_, err := Authorize(employee, record, RelationOwnerOrAdminOrEmployee)

			gomega.Expect(err).To(gomega.MatchError(internal.ErrRoleNotAllowed))
		})

		ginkgo.It("should deny without a company on either side", func() {
			drifter := &Principal{ID: 8, Role: RoleEmployee}

			_, err := Authorize(drifter, Record{CompanyOwnerID: 7}, RelationOwnerOrAdminOrEmployee, RoleEmployee)

			gomega.Expect(err).To(gomega.MatchError(internal.ErrNotOwnerOrAdmin))
		})
	})

	ginkgo.Describe("owner-self", func() {
		ginkgo.It("should allow only the owning user", func() {
			self := &Principal{ID: 5, Role: RoleUser}

			decision, err := Authorize(self, Record{OwnerUserID: 5}, RelationOwnerSelf)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(decision.Allowed).To(gomega.BeTrue())
		})

		ginkgo.It("should deny any other user, even the company owner", func() {
			owner := &Principal{ID: 7, Role: RoleCompanyAdministrator, CompanyID: &companyID}

			_, err := Authorize(owner, Record{OwnerUserID: 5, CompanyOwnerID: 7}, RelationOwnerSelf)

			gomega.Expect(err).To(gomega.MatchError(internal.ErrNotOwnerSelf))
		})
	})

	ginkgo.It("should reject a nil principal", func() {
		_, err := Authorize(nil, record, RelationOwnerOrAdmin)

		gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
	})
})

var _ = ginkgo.Describe("RequireVerified", func() {
	ginkgo.It("should reject an unverified account regardless of role", func() {
		for _, role := range []Role{RoleUser, RoleEmployee, RoleCompanyAdministrator, RoleCampaignManager, RoleAdmin} {
			err := RequireVerified(&Principal{ID: 1, Role: role, IsVerified: false})

			gomega.Expect(err).To(gomega.MatchError(internal.ErrUserNotVerified))
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("Kindly verify your email address"))
		}
	})

	ginkgo.It("should pass a verified account", func() {
		err := RequireVerified(&Principal{ID: 1, Role: RoleUser, IsVerified: true})

		gomega.Expect(err).NotTo(gomega.HaveOccurred())
	})
})

var _ = ginkgo.Describe("RequireRoles middleware", func() {
	var next http.Handler

	ginkgo.BeforeEach(func() {
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	serve := func(p *Principal, roles ...Role) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/api/v1/access-groups", nil)
		if p != nil {
			req = req.WithContext(ContextWithPrincipal(req.Context(), p))
		}
		rec := httptest.NewRecorder()
		RequireRoles(roles...)(next).ServeHTTP(rec, req)
		return rec
	}

	ginkgo.It("should admit a listed role", func() {
		rec := serve(&Principal{ID: 1, Role: RoleCompanyAdministrator}, RoleCompanyAdministrator)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))
	})

	ginkgo.It("should always admit an admin", func() {
		rec := serve(&Principal{ID: 1, Role: RoleAdmin}, RoleCompanyAdministrator)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))
	})

	ginkgo.It("should refuse an unlisted role", func() {
		rec := serve(&Principal{ID: 1, Role: RoleEmployee}, RoleCompanyAdministrator)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
	})

	ginkgo.It("should refuse an anonymous request", func() {
		rec := serve(nil, RoleCompanyAdministrator)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
	})
})

var _ = ginkgo.Describe("RequireRelation middleware", func() {
	var (
		db    *sqlx.DB
		guard *Guard
	)

	companyID := int64(10)

	ginkgo.BeforeEach(func() {
		var err error
		db, err = sqlx.Connect("sqlite3", ":memory:")
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		_, err = db.Exec(`CREATE TABLE companies (id INTEGER PRIMARY KEY, owner_user_id INTEGER NOT NULL, deleted_at TIMESTAMP)`)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		_, err = db.Exec(`CREATE TABLE campaigns (id INTEGER PRIMARY KEY, company_id INTEGER NOT NULL, deleted_at TIMESTAMP)`)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		_, err = db.Exec(`INSERT INTO companies (id, owner_user_id) VALUES (10, 7)`)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		_, err = db.Exec(`INSERT INTO campaigns (id, company_id) VALUES (1, 10)`)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		guard = NewGuard(db)
	})

	ginkgo.AfterEach(func() {
		gomega.Expect(db.Close()).To(gomega.Succeed())
	})

	serve := func(p *Principal, path string) (*httptest.ResponseRecorder, *Decision) {
		var seen *Decision
		router := chi.NewRouter()
		router.With(guard.RequireRelation("campaigns", RelationOwnerOrAdminOrEmployee, RoleEmployee)).
			Get("/campaigns/{id}", func(w http.ResponseWriter, r *http.Request) {
				if d, ok := DecisionFromContext(r.Context()); ok {
					seen = &d
				}
				w.WriteHeader(http.StatusNoContent)
			})

		req := httptest.NewRequest("GET", path, nil)
		if p != nil {
			req = req.WithContext(ContextWithPrincipal(req.Context(), p))
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec, seen
	}

	ginkgo.It("should thread an owner decision to the handler", func() {
		owner := &Principal{ID: 7, Role: RoleCompanyAdministrator, CompanyID: &companyID}

		rec, decision := serve(owner, "/campaigns/1")

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))
		gomega.Expect(decision).NotTo(gomega.BeNil())
		gomega.Expect(decision.Allowed).To(gomega.BeTrue())
		gomega.Expect(decision.IsOwnerOrAdmin).To(gomega.BeTrue())
	})

	ginkgo.It("should thread an employee decision without the owner-or-admin flag", func() {
		employee := &Principal{ID: 8, Role: RoleEmployee, CompanyID: &companyID}

		rec, decision := serve(employee, "/campaigns/1")

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))
		gomega.Expect(decision).NotTo(gomega.BeNil())
		gomega.Expect(decision.IsOwnerOrAdmin).To(gomega.BeFalse())
	})

	ginkgo.It("should refuse a principal from another company", func() {
		otherCompany := int64(20)
		outsider := &Principal{ID: 8, Role: RoleEmployee, CompanyID: &otherCompany}

		rec, decision := serve(outsider, "/campaigns/1")

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		gomega.Expect(decision).To(gomega.BeNil())
	})

	ginkgo.It("should report a missing record as not found, not forbidden", func() {
		owner := &Principal{ID: 7, Role: RoleCompanyAdministrator, CompanyID: &companyID}

		rec, _ := serve(owner, "/campaigns/999")

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
	})

	ginkgo.It("should reject a non-numeric id", func() {
		owner := &Principal{ID: 7, Role: RoleCompanyAdministrator, CompanyID: &companyID}

		rec, _ := serve(owner, "/campaigns/abc")

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
	})
})
