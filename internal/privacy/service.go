package privacy

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/campaign-management/internal/auth"
)

// Service decides whether personal data in response payloads gets masked.
// Masking is a presentation concern: it runs after records are fetched and
// filtered, so lookups and search still operate on the stored values.
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Redact masks personal data on every record when an enabled rule matches the
// principal's company, role, and the given module. No matching rule, or a
// principal without a company, leaves the records unchanged. Rule lookup
// failures are logged and swallowed: redaction config being unreadable must
// not take record reads down.
func (s *Service) Redact(ctx context.Context, principal *auth.Principal, module string, records ...Maskable) {
	if principal == nil || principal.CompanyID == nil {
		return
	}

	rule, err := s.repo.GetEnabledRule(ctx, *principal.CompanyID, principal.Role, module)
	if err != nil {
		s.logger.Error("privacy rule lookup failed", "error", err,
			"company_id", *principal.CompanyID, "role", principal.Role, "module", module)
		return
	}
	if rule == nil {
		return
	}

	for _, record := range records {
		if record != nil {
			record.MaskPersonalData()
		}
	}
}

func (s *Service) ListRules(ctx context.Context, companyID int64) ([]Rule, error) {
	return s.repo.ListRules(ctx, companyID)
}

// SetRule creates or updates the rule for the DTO's combination.
func (s *Service) SetRule(ctx context.Context, dto SetRuleDTO) (*Rule, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	rule := &Rule{
		CompanyID: dto.CompanyID,
		Role:      auth.Role(dto.Role),
		Module:    dto.Module,
		IsEnabled: dto.IsEnabled,
	}
	if err := s.repo.UpsertRule(ctx, rule); err != nil {
		s.logger.Error("failed to upsert privacy rule", "error", err,
			"company_id", dto.CompanyID, "role", dto.Role, "module", dto.Module)
		return nil, err
	}

	s.logger.Info("privacy rule set", "rule_id", rule.ID,
		"company_id", rule.CompanyID, "role", rule.Role, "module", rule.Module,
		"is_enabled", rule.IsEnabled)
	return rule, nil
}

// MaskField replaces every character with '*', preserving length. Empty
// stays empty.
func MaskField(value string) string {
	if value == "" {
		return ""
	}
	return strings.Repeat("*", len([]rune(value)))
}

// MaskEmail masks the local part of an address up to but excluding the '@'.
// A value without '@' is masked entirely.
func MaskEmail(email string) string {
	local, domain, found := strings.Cut(email, "@")
	if !found {
		return MaskField(email)
	}
	return MaskField(local) + "@" + domain
}

