package campaign

import "time"

// Campaign carries the contact fields the privacy redactor operates on; they
// belong to the campaign's delivery contact, not the owning company.
type Campaign struct {
	ID            int64      `gorm:"primaryKey"`
	Name          string     `gorm:"column:name;not null"`
	CompanyID     int64      `gorm:"column:company_id;not null"`
	CategoryTagID int64      `gorm:"column:category_tag_id;not null"`
	ContactEmail  string     `gorm:"column:contact_email"`
	ContactFirst  string     `gorm:"column:contact_firstname"`
	ContactLast   string     `gorm:"column:contact_lastname"`
	City          string     `gorm:"column:city"`
	Street        string     `gorm:"column:street"`
	Zip           string     `gorm:"column:zip"`
	Country       string     `gorm:"column:country"`
	IsActive      bool       `gorm:"column:is_active;default:true"`
	CreatedAt     time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;default:now()"`
	DeletedAt     *time.Time `gorm:"column:deleted_at"`
}
