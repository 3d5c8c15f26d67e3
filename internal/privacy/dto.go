package privacy

import (
	"github.com/frahmantamala/campaign-management/internal"
	"github.com/frahmantamala/campaign-management/internal/auth"
	"github.com/frahmantamala/campaign-management/internal/core/common/validation"
)

// SetRuleDTO creates or updates the masking rule for one
// (company, role, module) combination.
type SetRuleDTO struct {
	CompanyID int64  `json:"company_id"`
	Role      string `json:"role"`
	Module    string `json:"module"`
	IsEnabled bool   `json:"is_enabled"`
}

var knownRoles = []string{
	string(auth.RoleUser),
	string(auth.RoleEmployee),
	string(auth.RoleCompanyAdministrator),
	string(auth.RoleCampaignManager),
	string(auth.RoleAdmin),
	string(auth.RoleGhost),
}

func (d SetRuleDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("company_id", d.CompanyID).
		MinInt(1, internal.ErrCodeInvalidCompanyID)
	validator.Field("role", d.Role).
		Required().
		OneOf(knownRoles, internal.ErrCodeInvalidRole)
	validator.Field("module", d.Module).
		Required().
		OneOf(KnownModules, internal.ErrCodeInvalidModule)
	if err := validator.Validate(); err != nil {
		return err
	}
	return nil
}
