package access

import "time"

// AccessControlGroup is a named set of product category tags grantable to
// users, companies, or company user groups.
type AccessControlGroup struct {
	ID        int64      `gorm:"primaryKey"`
	Name      string     `gorm:"column:name;not null"`
	CompanyID *int64     `gorm:"column:company_id"`
	CreatedAt time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time  `gorm:"column:updated_at;default:now()"`
	DeletedAt *time.Time `gorm:"column:deleted_at"`
}

// CompanyUserGroup is a named subset of one company's users, usable as a
// unit for access grants.
type CompanyUserGroup struct {
	ID        int64      `gorm:"primaryKey"`
	Name      string     `gorm:"column:name;not null"`
	CompanyID int64      `gorm:"column:company_id;not null"`
	CreatedAt time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time  `gorm:"column:updated_at;default:now()"`
	DeletedAt *time.Time `gorm:"column:deleted_at"`
}

type ProductCategoryTag struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

// Join rows for the many-to-many grants. Soft deleted so a revoked grant can
// be restored instead of reinserted.
type GroupTag struct {
	GroupID   int64      `gorm:"column:group_id;primaryKey"`
	TagID     int64      `gorm:"column:tag_id;primaryKey"`
	DeletedAt *time.Time `gorm:"column:deleted_at"`
}

type UserGroupGrant struct {
	UserID    int64      `gorm:"column:user_id;primaryKey"`
	GroupID   int64      `gorm:"column:group_id;primaryKey"`
	DeletedAt *time.Time `gorm:"column:deleted_at"`
}

type CompanyGroupGrant struct {
	CompanyID int64      `gorm:"column:company_id;primaryKey"`
	GroupID   int64      `gorm:"column:group_id;primaryKey"`
	DeletedAt *time.Time `gorm:"column:deleted_at"`
}

type UserGroupMembership struct {
	UserID             int64      `gorm:"column:user_id;primaryKey"`
	CompanyUserGroupID int64      `gorm:"column:company_user_group_id;primaryKey"`
	DeletedAt          *time.Time `gorm:"column:deleted_at"`
}

type CompanyUserGroupGrant struct {
	CompanyUserGroupID int64      `gorm:"column:company_user_group_id;primaryKey"`
	GroupID            int64      `gorm:"column:group_id;primaryKey"`
	DeletedAt          *time.Time `gorm:"column:deleted_at"`
}
