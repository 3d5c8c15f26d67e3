package auth

import (
	"context"
	"database/sql"
	"strings"

	"gorm.io/gorm"

	"github.com/frahmantamala/campaign-management/internal"
	"github.com/frahmantamala/campaign-management/internal/auth"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetPasswordForEmail(ctx context.Context, email string) (string, int64, error) {
	var passwordHash string
	var userID int64
	query := `SELECT id, password_hash FROM users WHERE email = ? AND deleted_at IS NULL`

	row := r.db.WithContext(ctx).Raw(query, email).Row()
	if err := row.Scan(&userID, &passwordHash); err != nil {
		if err == sql.ErrNoRows {
			return "", 0, internal.ErrInvalidCredentials
		}
		return "", 0, err
	}
	return passwordHash, userID, nil
}

// GetPrincipal hydrates the principal profile: the user row plus its company
// user group memberships and direct access control group grants.
func (r *Repository) GetPrincipal(ctx context.Context, userID int64) (*auth.Principal, error) {
	var p auth.Principal
	var companyID sql.NullInt64

	query := `SELECT id, email, role, company_id, is_verified
	          FROM users WHERE id = ? AND deleted_at IS NULL`

	row := r.db.WithContext(ctx).Raw(query, userID).Row()
	if err := row.Scan(&p.ID, &p.Email, &p.Role, &companyID, &p.IsVerified); err != nil {
		if err == sql.ErrNoRows {
			return nil, internal.ErrRecordNotFound
		}
		return nil, err
	}
	if companyID.Valid {
		cid := companyID.Int64
		p.CompanyID = &cid
	}

	groupIDs, err := r.scanIDs(ctx,
		`SELECT company_user_group_id FROM user_group_memberships
		 WHERE user_id = ? AND deleted_at IS NULL`, userID)
	if err != nil {
		return nil, err
	}
	p.GroupIDs = groupIDs

	accessIDs, err := r.scanIDs(ctx,
		`SELECT group_id FROM user_group_grants
		 WHERE user_id = ? AND deleted_at IS NULL`, userID)
	if err != nil {
		return nil, err
	}
	p.AccessGroupIDs = accessIDs

	return &p, nil
}

func (r *Repository) GetAPIKeyByIdentifier(ctx context.Context, identifier string) (*auth.APIKey, error) {
	var key auth.APIKey
	var validTo, revokedAt sql.NullTime
	var permissions sql.NullString

	query := `SELECT id, identifier, secret_hash, user_id, is_enabled,
	                 valid_from, valid_to, revoked_at, permissions
	          FROM api_keys WHERE identifier = ?`

	row := r.db.WithContext(ctx).Raw(query, identifier).Row()
	err := row.Scan(&key.ID, &key.Identifier, &key.SecretHash, &key.UserID,
		&key.IsEnabled, &key.ValidFrom, &validTo, &revokedAt, &permissions)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, internal.ErrInvalidCredentials
		}
		return nil, err
	}

	if validTo.Valid {
		t := validTo.Time
		key.ValidTo = &t
	}
	if revokedAt.Valid {
		t := revokedAt.Time
		key.RevokedAt = &t
	}
	key.Permissions = splitPermissions(permissions.String)

	return &key, nil
}

func (r *Repository) scanIDs(ctx context.Context, query string, arg interface{}) ([]int64, error) {
	rows, err := r.db.WithContext(ctx).Raw(query, arg).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func splitPermissions(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	perms := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			perms = append(perms, trimmed)
		}
	}
	return perms
}

var _ auth.RepositoryAPI = (*Repository)(nil)
