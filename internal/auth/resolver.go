package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/campaign-management/internal"
)

// HeaderAPIKeyID carries the key identifier for scoped API key requests; the
// Authorization header carries the scheme and the presented secret.
const HeaderAPIKeyID = "X-Api-Key-Id"

// Resolver turns request credentials into a Principal. It tries the scoped
// API key shape first, then basic, then bearer, and fails closed: any
// ambiguity resolves to an error, never to an authenticated principal.
type Resolver struct {
	repo   RepositoryAPI
	tokens TokenGeneratorAPI
}

func NewResolver(repo RepositoryAPI, tokens TokenGeneratorAPI) *Resolver {
	return &Resolver{repo: repo, tokens: tokens}
}

// CredentialFromRequest extracts the raw credential from request headers.
// apiKeyScheme names the Authorization scheme reserved for scoped API keys.
func CredentialFromRequest(r *http.Request, apiKeyScheme string) Credential {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return Credential{}
	}

	scheme, payload, found := strings.Cut(authHeader, " ")
	if !found {
		return Credential{Scheme: authHeader}
	}

	cred := Credential{Scheme: scheme, Payload: strings.TrimSpace(payload)}
	if strings.EqualFold(scheme, apiKeyScheme) {
		cred.KeyIdentifier = r.Header.Get(HeaderAPIKeyID)
	}
	return cred
}

// Resolve runs the fixed-precedence credential chain. A failed resolution
// fails the request immediately; there are no retries.
func (rs *Resolver) Resolve(ctx context.Context, cred Credential) (*Principal, error) {
	switch {
	case cred.KeyIdentifier != "" || (cred.Scheme != "" && !strings.EqualFold(cred.Scheme, "Basic") && !strings.EqualFold(cred.Scheme, "Bearer")):
		return rs.resolveAPIKey(ctx, cred)
	case strings.EqualFold(cred.Scheme, "Basic"):
		return rs.resolveBasic(ctx, cred.Payload)
	case strings.EqualFold(cred.Scheme, "Bearer"):
		return rs.resolveBearer(ctx, cred.Payload)
	default:
		return nil, internal.ErrInvalidCredentials
	}
}

func (rs *Resolver) resolveAPIKey(ctx context.Context, cred Credential) (*Principal, error) {
	if cred.KeyIdentifier == "" || cred.Payload == "" {
		return nil, internal.ErrMalformedCredential
	}

	key, err := rs.repo.GetAPIKeyByIdentifier(ctx, cred.KeyIdentifier)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeValidation {
			return nil, internal.ErrMalformedCredential
		}
		return nil, internal.NewUnauthorizedError("API key not recognised", internal.ErrCodeInvalidCredentials)
	}

	now := time.Now()
	if !key.IsEnabled {
		return nil, internal.NewUnauthorizedError("API key is disabled", internal.ErrCodeAPIKeyDisabled)
	}
	// A past revocation wins over a still-open validity window.
	if key.RevokedAt != nil && !key.RevokedAt.After(now) {
		return nil, internal.NewUnauthorizedError("API key has been revoked", internal.ErrCodeAPIKeyRevoked)
	}
	if now.Before(key.ValidFrom) {
		return nil, internal.NewUnauthorizedError("API key is not yet valid", internal.ErrCodeAPIKeyExpired)
	}
	if key.ValidTo != nil && !now.Before(*key.ValidTo) {
		return nil, internal.NewUnauthorizedError("API key has expired", internal.ErrCodeAPIKeyExpired)
	}

	// bcrypt compares against the salted hash in constant time.
	if err := bcrypt.CompareHashAndPassword([]byte(key.SecretHash), []byte(cred.Payload)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	principal, err := rs.repo.GetPrincipal(ctx, key.UserID)
	if err != nil {
		return nil, internal.ErrInvalidCredentials
	}
	principal.Permissions = key.Permissions
	return principal, nil
}

func (rs *Resolver) resolveBasic(ctx context.Context, payload string) (*Principal, error) {
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, internal.ErrMalformedCredential
	}

	email, password, found := strings.Cut(string(decoded), ":")
	if !found || email == "" {
		return nil, internal.ErrMalformedCredential
	}

	storedHash, userID, err := rs.repo.GetPasswordForEmail(ctx, email)
	if err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	return rs.loadPrincipal(ctx, userID)
}

func (rs *Resolver) resolveBearer(ctx context.Context, tokenString string) (*Principal, error) {
	if tokenString == "" {
		return nil, internal.ErrInvalidCredentials
	}

	claims, err := rs.tokens.ValidateToken(tokenString)
	if err != nil {
		// Invalid or expired tokens are an auth failure; anything else is the
		// verifier misbehaving and is reported as such.
		if err == ErrInvalidToken || err == ErrTokenExpired {
			return nil, internal.ErrInvalidCredentials
		}
		return nil, internal.NewNotFoundError("Token verifier failure", internal.ErrCodeRecordNotFound).WithCause(err)
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return nil, internal.ErrMalformedCredential
	}

	return rs.loadPrincipal(ctx, userID)
}

func (rs *Resolver) loadPrincipal(ctx context.Context, userID int64) (*Principal, error) {
	principal, err := rs.repo.GetPrincipal(ctx, userID)
	if err != nil {
		return nil, internal.ErrInvalidCredentials
	}
	return principal, nil
}

// RequireVerified gates actions on the principal's verified flag, regardless
// of role.
func RequireVerified(p *Principal) error {
	if p == nil {
		return internal.ErrInvalidCredentials
	}
	if !p.IsVerified {
		return internal.ErrUserNotVerified
	}
	return nil
}
