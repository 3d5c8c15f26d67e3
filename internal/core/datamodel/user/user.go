package user

import "time"

type User struct {
	ID           int64      `gorm:"primaryKey"`
	Email        string     `gorm:"column:email;uniqueIndex;not null"`
	FirstName    string     `gorm:"column:firstname;not null"`
	LastName     string     `gorm:"column:lastname;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Role         string     `gorm:"column:role;default:user"`
	CompanyID    *int64     `gorm:"column:company_id"`
	IsVerified   bool       `gorm:"column:is_verified;default:false"`
	City         string     `gorm:"column:city"`
	Street       string     `gorm:"column:street"`
	Zip          string     `gorm:"column:zip"`
	Country      string     `gorm:"column:country"`
	CreatedAt    time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;default:now()"`
	DeletedAt    *time.Time `gorm:"column:deleted_at"`
}
