package company

import "time"

type Company struct {
	ID          int64      `gorm:"primaryKey"`
	Name        string     `gorm:"column:name;not null"`
	OwnerUserID int64      `gorm:"column:owner_user_id;not null"`
	City        string     `gorm:"column:city"`
	Street      string     `gorm:"column:street"`
	Zip         string     `gorm:"column:zip"`
	Country     string     `gorm:"column:country"`
	CreatedAt   time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;default:now()"`
	DeletedAt   *time.Time `gorm:"column:deleted_at"`
}
