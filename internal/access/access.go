package access

import (
	"context"
	"time"
)

// Group is a named set of product category tags grantable to users,
// companies, or company user groups. A nil CompanyID means the group is
// platform wide.
type Group struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CompanyID *int64    `json:"company_id,omitempty"`
	TagIDs    []int64   `json:"tag_ids"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompanyUserGroup collects users of one company so they can be granted
// access groups as a unit. Membership does not imply any company role.
type CompanyUserGroup struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	CompanyID      int64     `json:"company_id"`
	MemberUserIDs  []int64   `json:"member_user_ids,omitempty"`
	AccessGroupIDs []int64   `json:"access_group_ids,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// RepositoryAPI is the persistence surface for groups and grants. Grant and
// revoke operate on soft-deleted join rows: a revoked grant row is restored
// on re-grant rather than reinserted.
type RepositoryAPI interface {
	GetGroupsForUser(ctx context.Context, userID int64) ([]Group, error)
	GetGroupsForCompany(ctx context.Context, companyID int64) ([]Group, error)
	GetGroupsForCompanyUserGroups(ctx context.Context, groupIDs []int64) ([]Group, error)

	CreateGroup(ctx context.Context, group *Group) error
	GetGroupByID(ctx context.Context, id int64) (*Group, error)
	ListGroups(ctx context.Context, companyID *int64, limit, offset int) ([]Group, error)
	DeleteGroup(ctx context.Context, id int64) error

	AddTagToGroup(ctx context.Context, groupID, tagID int64) error
	RemoveTagFromGroup(ctx context.Context, groupID, tagID int64) error

	GrantGroupToUser(ctx context.Context, groupID, userID int64) error
	RevokeGroupFromUser(ctx context.Context, groupID, userID int64) error
	GrantGroupToCompany(ctx context.Context, groupID, companyID int64) error
	RevokeGroupFromCompany(ctx context.Context, groupID, companyID int64) error
	GrantGroupToCompanyUserGroup(ctx context.Context, groupID, companyUserGroupID int64) error
	RevokeGroupFromCompanyUserGroup(ctx context.Context, groupID, companyUserGroupID int64) error
}
