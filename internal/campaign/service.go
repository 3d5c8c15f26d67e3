package campaign

import (
	"context"
	"log/slog"

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
	repo     RepositoryAPI
	redactor Redactor
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, redactor Redactor, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		redactor: redactor,
		logger:   logger,
	}
}

// List returns the campaigns visible to the principal: only campaigns whose
// category tag is in the aggregated accessible set, optionally narrowed by
// company, search text, and active flag. Search and filtering run against
// the stored plaintext; masking is applied to the result afterwards, so a
// masked field can still be searched by its real value.
func (s *Service) List(ctx context.Context, principal *auth.Principal, filter ListFilter) ([]Campaign, error) {
	if len(filter.AccessibleTagIDs) == 0 {
		return []Campaign{}, nil
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	campaigns, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list campaigns", "error", err)
		return nil, err
	}

	masked := make([]privacy.Maskable, len(campaigns))
	for i := range campaigns {
		masked[i] = &campaigns[i]
	}
	s.redactor.Redact(ctx, principal, privacy.ModuleCampaign, masked...)

	return campaigns, nil
}

func (s *Service) Get(ctx context.Context, principal *auth.Principal, id int64) (*Campaign, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, internal.NewNotFoundError("campaign not found", internal.ErrCodeCampaignNotFound)
	}

	s.redactor.Redact(ctx, principal, privacy.ModuleCampaign, c)
	return c, nil
}

func (s *Service) Create(ctx context.Context, dto CreateCampaignDTO) (*Campaign, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c := &Campaign{
		Name:          dto.Name,
		CompanyID:     dto.CompanyID,
		CategoryTagID: dto.CategoryTagID,
		ContactEmail:  dto.ContactEmail,
		ContactFirst:  dto.ContactFirst,
		ContactLast:   dto.ContactLast,
		City:          dto.City,
		Street:        dto.Street,
		Zip:           dto.Zip,
		Country:       dto.Country,
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error("failed to create campaign", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("campaign created", "campaign_id", c.ID, "company_id", c.CompanyID)
	return c, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateCampaignDTO) (*Campaign, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, internal.NewNotFoundError("campaign not found", internal.ErrCodeCampaignNotFound)
	}

	if dto.Name != nil {
		c.Name = *dto.Name
	}
	if dto.ContactEmail != nil {
		c.ContactEmail = *dto.ContactEmail
	}
	if dto.ContactFirst != nil {
		c.ContactFirst = *dto.ContactFirst
	}
	if dto.ContactLast != nil {
		c.ContactLast = *dto.ContactLast
	}
	if dto.City != nil {
		c.City = *dto.City
	}
	if dto.Street != nil {
		c.Street = *dto.Street
	}
	if dto.Zip != nil {
		c.Zip = *dto.Zip
	}
	if dto.Country != nil {
		c.Country = *dto.Country
	}
	if dto.IsActive != nil {
		c.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(ctx, c); err != nil {
		s.logger.Error("failed to update campaign", "error", err, "campaign_id", id)
		return nil, err
	}

	s.logger.Info("campaign updated", "campaign_id", id)
	return c, nil
}

func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		s.logger.Error("failed to deactivate campaign", "error", err, "campaign_id", id)
		return err
	}
	s.logger.Info("campaign deactivated", "campaign_id", id)
	return nil
}
