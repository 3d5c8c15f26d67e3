package user

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/campaign-management/internal"
	"github.com/frahmantamala/campaign-management/internal/auth"
	"github.com/frahmantamala/campaign-management/internal/privacy"
)

// Redactor masks personal data on response records when a privacy rule
// matches the principal.
type Redactor interface {
	Redact(ctx context.Context, principal *auth.Principal, module string, records ...privacy.Maskable)
}

type Service struct {
	repo       RepositoryAPI
	redactor   Redactor
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, redactor Redactor, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		redactor:   redactor,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// GetProfile returns the principal's own account, masked per the "user"
// module's privacy rules.
func (s *Service) GetProfile(ctx context.Context, principal *auth.Principal) (*User, error) {
	u, err := s.repo.GetByID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, internal.ErrRecordNotFound
	}

	s.redactor.Redact(ctx, principal, privacy.ModuleUser, u)
	return u, nil
}

// CreateAPIKey mints a scoped key for the principal. The identifier is a
// uuid sent alongside the secret on requests; only a bcrypt hash of the
// secret is stored.
func (s *Service) CreateAPIKey(ctx context.Context, principal *auth.Principal, dto CreateAPIKeyDTO) (*CreatedAPIKeyDTO, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	secret, err := auth.GenerateRandomToken()
	if err != nil {
		s.logger.Error("failed to generate api key secret", "error", err)
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	key := &APIKey{
		Identifier:  uuid.NewString(),
		UserID:      principal.ID,
		IsEnabled:   true,
		ValidFrom:   time.Now(),
		ValidTo:     dto.ValidTo,
		Permissions: dto.Permissions,
	}
	if err := s.repo.CreateAPIKey(ctx, key, string(hash)); err != nil {
		s.logger.Error("failed to create api key", "error", err, "user_id", principal.ID)
		return nil, err
	}

	s.logger.Info("api key created", "key_id", key.ID, "identifier", key.Identifier, "user_id", principal.ID)
	return &CreatedAPIKeyDTO{APIKey: *key, Secret: secret}, nil
}

func (s *Service) ListAPIKeys(ctx context.Context, principal *auth.Principal) ([]APIKey, error) {
	keys, err := s.repo.ListAPIKeysForUser(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	if keys == nil {
		keys = []APIKey{}
	}
	return keys, nil
}

// RevokeAPIKey marks the key revoked. Only the key's owner may revoke it;
// admins pass as always.
func (s *Service) RevokeAPIKey(ctx context.Context, principal *auth.Principal, keyID int64) error {
	key, err := s.repo.GetAPIKeyByID(ctx, keyID)
	if err != nil {
		return err
	}
	if key == nil {
		return internal.ErrRecordNotFound
	}

	decision, err := auth.Authorize(principal, auth.Record{OwnerUserID: key.UserID}, auth.RelationOwnerSelf)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return internal.ErrNotOwnerSelf
	}

	if err := s.repo.RevokeAPIKey(ctx, keyID); err != nil {
		s.logger.Error("failed to revoke api key", "error", err, "key_id", keyID)
		return err
	}

	s.logger.Info("api key revoked", "key_id", keyID, "user_id", principal.ID)
	return nil
}
