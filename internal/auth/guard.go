package auth

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/campaign-management/internal"
)

// Relation names the ownership rule a route requires.
type Relation string

const (
	RelationOwnerOrAdmin           Relation = "owner-or-admin"
	RelationOwnerOrAdminOrEmployee Relation = "owner-or-admin-or-employee"
	RelationOwnerSelf              Relation = "owner-self"
)

// Record is the ownership context of the target: its company, the company's
// owner, and (for personal resources) the owning user. It pairs with the
// requesting principal for exactly one authorization decision.
type Record struct {
	CompanyID      *int64
	CompanyOwnerID int64
	OwnerUserID    int64
}

// Decision reports the outcome plus the owner-or-admin flag so downstream
// steps do not re-derive it.
type Decision struct {
	Allowed        bool
	IsOwnerOrAdmin bool
}

// Authorize evaluates a single relation for a principal against a record.
// The admin role passes every check. Record existence is checked separately
// (CheckRecord); a denial here never reveals whether the record exists.
func Authorize(p *Principal, rec Record, relation Relation, allowedRoles ...Role) (Decision, error) {
	if p == nil {
		return Decision{}, internal.ErrInvalidCredentials
	}

	if p.IsAdmin() {
		return Decision{Allowed: true, IsOwnerOrAdmin: true}, nil
	}

	isOwner := p.ID == rec.CompanyOwnerID

	switch relation {
	case RelationOwnerOrAdmin:
		if isOwner {
			return Decision{Allowed: true, IsOwnerOrAdmin: true}, nil
		}
		return Decision{}, internal.ErrNotOwnerOrAdmin

	case RelationOwnerOrAdminOrEmployee:
		if isOwner {
			return Decision{Allowed: true, IsOwnerOrAdmin: true}, nil
		}
		if rec.CompanyID != nil && p.CompanyID != nil && *p.CompanyID == *rec.CompanyID && roleAllowed(p.Role, allowedRoles) {
			return Decision{Allowed: true}, nil
		}
		if rec.CompanyID != nil && p.CompanyID != nil && *p.CompanyID == *rec.CompanyID {
			return Decision{}, internal.ErrRoleNotAllowed
		}
		return Decision{}, internal.ErrNotOwnerOrAdmin

	case RelationOwnerSelf:
		if p.ID == rec.OwnerUserID {
			return Decision{Allowed: true}, nil
		}
		return Decision{}, internal.ErrNotOwnerSelf

	default:
		return Decision{}, internal.ErrNotOwnerOrAdmin
	}
}

func roleAllowed(role Role, allowed []Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// Guard wires the ownership checks into HTTP middleware. Record ownership is
// looked up per request; nothing is cached between requests.
type Guard struct {
	db *sqlx.DB
}

func NewGuard(db *sqlx.DB) *Guard {
	return &Guard{db: db}
}

// ownershipQueries are the fixed hydration shapes per guarded entity: the
// record's company and its owner in one join.
var ownershipQueries = map[string]string{
	"campaigns": `SELECT c.company_id, co.owner_user_id
		FROM campaigns c JOIN companies co ON co.id = c.company_id
		WHERE c.id = $1 AND c.deleted_at IS NULL`,
	"access_control_groups": `SELECT g.company_id, COALESCE(co.owner_user_id, 0)
		FROM access_control_groups g LEFT JOIN companies co ON co.id = g.company_id
		WHERE g.id = $1 AND g.deleted_at IS NULL`,
	"company_user_groups": `SELECT g.company_id, co.owner_user_id
		FROM company_user_groups g JOIN companies co ON co.id = g.company_id
		WHERE g.id = $1 AND g.deleted_at IS NULL`,
	"companies": `SELECT co.id, co.owner_user_id
		FROM companies co WHERE co.id = $1 AND co.deleted_at IS NULL`,
}

// CheckRecord reports whether the record exists; it runs before Authorize so
// NotFound and Forbidden stay distinct.
func (g *Guard) CheckRecord(r *http.Request, entity string, id int64) (Record, error) {
	query, ok := ownershipQueries[entity]
	if !ok {
		return Record{}, internal.NewInternalError("no ownership query for entity", nil)
	}

	var companyID sql.NullInt64
	var ownerID int64
	row := g.db.QueryRowContext(r.Context(), query, id)
	if err := row.Scan(&companyID, &ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, internal.ErrRecordNotFound
		}
		return Record{}, internal.NewInternalError("ownership lookup failed", err)
	}

	rec := Record{CompanyOwnerID: ownerID}
	if companyID.Valid {
		cid := companyID.Int64
		rec.CompanyID = &cid
	}
	return rec, nil
}

// RequireRelation builds middleware enforcing a relation on the entity named
// by the route's {id} parameter. allowedRoles is the explicit per-route set
// for the employee rule; it is never implied.
func (g *Guard) RequireRelation(entity string, relation Relation, allowedRoles ...Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok || p == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			idStr := chi.URLParam(r, "id")
			id, err := strconv.ParseInt(idStr, 10, 64)
			if err != nil {
				http.Error(w, "invalid id", http.StatusBadRequest)
				return
			}

			rec, err := g.CheckRecord(r, entity, id)
			if err != nil {
				writeGuardError(w, err)
				return
			}

			decision, err := Authorize(p, rec, relation, allowedRoles...)
			if err != nil {
				writeGuardError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithDecision(r.Context(), decision)))
		})
	}
}

// RequireRoles admits only the listed roles. Admin always passes. Used for
// operations with no target record to anchor an ownership relation on.
func RequireRoles(roles ...Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok || p == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if !p.IsAdmin() && !roleAllowed(p.Role, roles) {
				writeGuardError(w, internal.ErrRoleNotAllowed)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireVerifiedMiddleware rejects unverified accounts before any guarded
// action runs.
func RequireVerifiedMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok || p == nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := RequireVerified(p); err != nil {
			writeGuardError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeGuardError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		status, body := appErr.ToHTTPResponse()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
		return
	}
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
