package privacy

import (
	"context"
	"time"

	"github.com/frahmantamala/campaign-management/internal/auth"
)

// Modules that carry personal data and can have masking rules attached.
const (
	ModuleCampaign = "campaign"
	ModuleUser     = "user"
	ModuleCompany  = "company"
)

// KnownModules lists every module name a rule may reference.
var KnownModules = []string{ModuleCampaign, ModuleUser, ModuleCompany}

// Rule enables field masking for one (company, role, module) combination.
type Rule struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	Role      auth.Role `json:"role"`
	Module    string    `json:"module"`
	IsEnabled bool      `json:"is_enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Maskable is implemented by response records that carry personal data.
// MaskPersonalData replaces address fields and the email local part in
// place, typically via MaskField and MaskEmail.
type Maskable interface {
	MaskPersonalData()
}

type RepositoryAPI interface {
	// GetEnabledRule returns nil without error when no enabled rule matches.
	GetEnabledRule(ctx context.Context, companyID int64, role auth.Role, module string) (*Rule, error)
	ListRules(ctx context.Context, companyID int64) ([]Rule, error)
	UpsertRule(ctx context.Context, rule *Rule) error
}
