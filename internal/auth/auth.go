package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the platform-wide user role stored on the users table.
type Role string

const (
	RoleUser                 Role = "user"
	RoleEmployee             Role = "employee"
	RoleCompanyAdministrator Role = "companyAdministrator"
	RoleCampaignManager      Role = "campaignManager"
	RoleAdmin                Role = "admin"
	RoleGhost                Role = "ghost"
)

// Principal is the resolved identity for the current request. It is built
// once per request by the resolver and never persisted.
type Principal struct {
	ID             int64    `json:"id"`
	Email          string   `json:"email"`
	Role           Role     `json:"role"`
	CompanyID      *int64   `json:"company_id,omitempty"`
	IsVerified     bool     `json:"is_verified"`
	GroupIDs       []int64  `json:"group_ids,omitempty"`
	AccessGroupIDs []int64  `json:"access_group_ids,omitempty"`
	Permissions    []string `json:"permissions,omitempty"`
}

func (p *Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p *Principal) HasPermission(permission string) bool {
	for _, perm := range p.Permissions {
		if perm == permission {
			return true
		}
	}
	return false
}

func (p *Principal) HasAnyPermission(permissions []string) bool {
	for _, userPerm := range p.Permissions {
		for _, requiredPerm := range permissions {
			if userPerm == requiredPerm {
				return true
			}
		}
	}
	return false
}

// Credential is the raw material extracted from request headers before
// resolution. Exactly one shape applies per request; the resolver tries the
// scoped API key first, then basic, then bearer.
type Credential struct {
	Scheme        string
	Payload       string
	KeyIdentifier string
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(userID string, email string) (token string, err error)
	GenerateRefreshToken(userID string, email string) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	Resolve(ctx context.Context, cred Credential) (*Principal, error)
	HashPassword(password string) (string, error)
}

// RepositoryAPI is the record-store surface the resolver needs. GetPrincipal
// is a fixed hydration profile: the user row plus its group and access group
// associations, one shape for every caller.
type RepositoryAPI interface {
	GetPasswordForEmail(ctx context.Context, email string) (passwordHash string, userID int64, err error)
	GetPrincipal(ctx context.Context, userID int64) (*Principal, error)
	GetAPIKeyByIdentifier(ctx context.Context, identifier string) (*APIKey, error)
}

// APIKey is the resolver-facing view of a stored key.
type APIKey struct {
	ID          int64
	Identifier  string
	SecretHash  string
	UserID      int64
	IsEnabled   bool
	ValidFrom   time.Time
	ValidTo     *time.Time
	RevokedAt   *time.Time
	Permissions []string
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
)

type ctxKey string

const ContextPrincipalKey ctxKey = "principal"

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(ContextPrincipalKey).(*Principal)
	return p, ok
}

func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ContextPrincipalKey, p)
}

const ContextDecisionKey ctxKey = "authz_decision"

// DecisionFromContext returns the guard's decision for the guarded record,
// so handlers can branch on owner-or-admin without re-deriving it.
func DecisionFromContext(ctx context.Context) (Decision, bool) {
	d, ok := ctx.Value(ContextDecisionKey).(Decision)
	return d, ok
}

func ContextWithDecision(ctx context.Context, d Decision) context.Context {
	return context.WithValue(ctx, ContextDecisionKey, d)
}
