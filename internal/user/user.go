package user

import (
	"context"
	"time"

	"github.com/frahmantamala/campaign-management/internal/auth"
	"github.com/frahmantamala/campaign-management/internal/privacy"
)

// User is the API shape of an account. Address fields fall under privacy
// rules for the "user" module.
type User struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"firstname"`
	LastName   string    `json:"lastname"`
	Role       auth.Role `json:"role"`
	CompanyID  *int64    `json:"company_id,omitempty"`
	IsVerified bool      `json:"is_verified"`
	City       string    `json:"city"`
	Street     string    `json:"street"`
	Zip        string    `json:"zip"`
	Country    string    `json:"country"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (u *User) MaskPersonalData() {
	u.Email = privacy.MaskEmail(u.Email)
	u.City = privacy.MaskField(u.City)
	u.Street = privacy.MaskField(u.Street)
	u.Zip = privacy.MaskField(u.Zip)
	u.Country = privacy.MaskField(u.Country)
}

// APIKey is the API shape of a scoped key. The secret hash never leaves the
// repository; the plaintext secret is only returned once, at creation.
type APIKey struct {
	ID          int64      `json:"id"`
	Identifier  string     `json:"identifier"`
	UserID      int64      `json:"user_id"`
	IsEnabled   bool       `json:"is_enabled"`
	ValidFrom   time.Time  `json:"valid_from"`
	ValidTo     *time.Time `json:"valid_to,omitempty"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
	Permissions []string   `json:"permissions"`
	CreatedAt   time.Time  `json:"created_at"`
}

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	CreateAPIKey(ctx context.Context, key *APIKey, secretHash string) error
	ListAPIKeysForUser(ctx context.Context, userID int64) ([]APIKey, error)
	GetAPIKeyByID(ctx context.Context, id int64) (*APIKey, error)
	RevokeAPIKey(ctx context.Context, id int64) error
}
