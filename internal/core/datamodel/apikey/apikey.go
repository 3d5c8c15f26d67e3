package apikey

import "time"

type APIKey struct {
	ID          int64      `gorm:"primaryKey"`
	Identifier  string     `gorm:"column:identifier;uniqueIndex;not null"`
	SecretHash  string     `gorm:"column:secret_hash;not null"`
	UserID      int64      `gorm:"column:user_id;not null"`
	Name        string     `gorm:"column:name"`
	IsEnabled   bool       `gorm:"column:is_enabled;default:true"`
	ValidFrom   time.Time  `gorm:"column:valid_from;default:now()"`
	ValidTo     *time.Time `gorm:"column:valid_to"`
	RevokedAt   *time.Time `gorm:"column:revoked_at"`
	Permissions string     `gorm:"column:permissions"`
	CreatedAt   time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;default:now()"`
}
