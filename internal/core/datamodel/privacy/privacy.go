package privacy

import "time"

// Rule toggles field masking for one (company, role, module) combination.
// At most one enabled row per combination.
type Rule struct {
	ID        int64     `gorm:"primaryKey"`
	CompanyID int64     `gorm:"column:company_id;not null"`
	Role      string    `gorm:"column:role;not null"`
	Module    string    `gorm:"column:module;not null"`
	IsEnabled bool      `gorm:"column:is_enabled;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (Rule) TableName() string { return "privacy_rules" }
