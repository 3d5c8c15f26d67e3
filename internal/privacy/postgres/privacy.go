package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/frahmantamala/campaign-management/internal/auth"
	privacyDatamodel "github.com/frahmantamala/campaign-management/internal/core/datamodel/privacy"
	"github.com/frahmantamala/campaign-management/internal/privacy"
)

type PrivacyRepository struct {
	db *gorm.DB
}

func NewPrivacyRepository(db *gorm.DB) privacy.RepositoryAPI {
	return &PrivacyRepository{db: db}
}

func (r *PrivacyRepository) GetEnabledRule(ctx context.Context, companyID int64, role auth.Role, module string) (*privacy.Rule, error) {
	var record privacyDatamodel.Rule
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND role = ? AND module = ? AND is_enabled = ?",
			companyID, string(role), module, true).
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return toRule(&record), nil
}

func (r *PrivacyRepository) ListRules(ctx context.Context, companyID int64) ([]privacy.Rule, error) {
	var records []privacyDatamodel.Rule
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("module ASC, role ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	rules := make([]privacy.Rule, 0, len(records))
	for i := range records {
		rules = append(rules, *toRule(&records[i]))
	}
	return rules, nil
}

// UpsertRule updates the existing (company, role, module) row or inserts a
// new one. A transaction keeps concurrent toggles from racing into
// duplicates past the unique index.
func (r *PrivacyRepository) UpsertRule(ctx context.Context, rule *privacy.Rule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing privacyDatamodel.Rule
		err := tx.Where("company_id = ? AND role = ? AND module = ?",
			rule.CompanyID, string(rule.Role), rule.Module).
			First(&existing).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}

		if err == nil {
			existing.IsEnabled = rule.IsEnabled
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			*rule = *toRule(&existing)
			return nil
		}

		record := privacyDatamodel.Rule{
			CompanyID: rule.CompanyID,
			Role:      string(rule.Role),
			Module:    rule.Module,
			IsEnabled: rule.IsEnabled,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		*rule = *toRule(&record)
		return nil
	})
}

func toRule(record *privacyDatamodel.Rule) *privacy.Rule {
	return &privacy.Rule{
		ID:        record.ID,
		CompanyID: record.CompanyID,
		Role:      auth.Role(record.Role),
		Module:    record.Module,
		IsEnabled: record.IsEnabled,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}
