package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/campaign-management/internal"
	"github.com/frahmantamala/campaign-management/internal/access"
	accessDatamodel "github.com/frahmantamala/campaign-management/internal/core/datamodel/access"
)

type AccessRepository struct {
	db *gorm.DB
}

func NewAccessRepository(db *gorm.DB) access.RepositoryAPI {
	return &AccessRepository{db: db}
}

func (r *AccessRepository) GetGroupsForUser(ctx context.Context, userID int64) ([]access.Group, error) {
	query := `SELECT g.id, g.name, g.company_id, g.created_at, g.updated_at
	          FROM access_control_groups g
	          JOIN user_group_grants ug ON ug.group_id = g.id
	          WHERE ug.user_id = ? AND ug.deleted_at IS NULL AND g.deleted_at IS NULL`
	return r.loadGroups(ctx, query, userID)
}

func (r *AccessRepository) GetGroupsForCompany(ctx context.Context, companyID int64) ([]access.Group, error) {
	query := `SELECT g.id, g.name, g.company_id, g.created_at, g.updated_at
	          FROM access_control_groups g
	          JOIN company_group_grants cg ON cg.group_id = g.id
	          WHERE cg.company_id = ? AND cg.deleted_at IS NULL AND g.deleted_at IS NULL`
	return r.loadGroups(ctx, query, companyID)
}

func (r *AccessRepository) GetGroupsForCompanyUserGroups(ctx context.Context, groupIDs []int64) ([]access.Group, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	query := `SELECT DISTINCT g.id, g.name, g.company_id, g.created_at, g.updated_at
	          FROM access_control_groups g
	          JOIN company_user_group_grants cug ON cug.group_id = g.id
	          WHERE cug.company_user_group_id IN (?) AND cug.deleted_at IS NULL AND g.deleted_at IS NULL`
	return r.loadGroups(ctx, query, groupIDs)
}

// loadGroups runs a group query then hydrates every group's tag set in one
// second query.
func (r *AccessRepository) loadGroups(ctx context.Context, query string, arg interface{}) ([]access.Group, error) {
	rows, err := r.db.WithContext(ctx).Raw(query, arg).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []access.Group
	for rows.Next() {
		var g access.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.CompanyID, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		g.TagIDs = []int64{}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return groups, nil
	}

	ids := make([]int64, len(groups))
	index := make(map[int64]int, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
		index[g.ID] = i
	}

	tagRows, err := r.db.WithContext(ctx).Raw(
		`SELECT group_id, tag_id FROM group_tags
		 WHERE group_id IN (?) AND deleted_at IS NULL`, ids).Rows()
	if err != nil {
		return nil, err
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var groupID, tagID int64
		if err := tagRows.Scan(&groupID, &tagID); err != nil {
			return nil, err
		}
		if i, ok := index[groupID]; ok {
			groups[i].TagIDs = append(groups[i].TagIDs, tagID)
		}
	}
	return groups, tagRows.Err()
}

func (r *AccessRepository) CreateGroup(ctx context.Context, group *access.Group) error {
	record := accessDatamodel.AccessControlGroup{
		Name:      group.Name,
		CompanyID: group.CompanyID,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return err
	}
	group.ID = record.ID
	group.CreatedAt = record.CreatedAt
	group.UpdatedAt = record.UpdatedAt
	return nil
}

func (r *AccessRepository) GetGroupByID(ctx context.Context, id int64) (*access.Group, error) {
	var record accessDatamodel.AccessControlGroup
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrGroupNotFound
		}
		return nil, err
	}

	group := &access.Group{
		ID:        record.ID,
		Name:      record.Name,
		CompanyID: record.CompanyID,
		TagIDs:    []int64{},
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}

	rows, err := r.db.WithContext(ctx).Raw(
		`SELECT tag_id FROM group_tags WHERE group_id = ? AND deleted_at IS NULL`, id).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var tagID int64
		if err := rows.Scan(&tagID); err != nil {
			return nil, err
		}
		group.TagIDs = append(group.TagIDs, tagID)
	}
	return group, rows.Err()
}

func (r *AccessRepository) ListGroups(ctx context.Context, companyID *int64, limit, offset int) ([]access.Group, error) {
	query := `SELECT g.id, g.name, g.company_id, g.created_at, g.updated_at
	          FROM access_control_groups g
	          WHERE g.deleted_at IS NULL`
	args := []interface{}{}
	if companyID != nil {
		query += ` AND g.company_id = ?`
		args = append(args, *companyID)
	}
	query += ` ORDER BY g.name ASC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []access.Group
	for rows.Next() {
		var g access.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.CompanyID, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		g.TagIDs = []int64{}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *AccessRepository) DeleteGroup(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Model(&accessDatamodel.AccessControlGroup{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrGroupNotFound
	}
	return nil
}

func (r *AccessRepository) AddTagToGroup(ctx context.Context, groupID, tagID int64) error {
	return r.upsertJoin(ctx, &accessDatamodel.GroupTag{GroupID: groupID, TagID: tagID})
}

func (r *AccessRepository) RemoveTagFromGroup(ctx context.Context, groupID, tagID int64) error {
	return r.softDeleteJoin(ctx, &accessDatamodel.GroupTag{GroupID: groupID, TagID: tagID})
}

func (r *AccessRepository) GrantGroupToUser(ctx context.Context, groupID, userID int64) error {
	return r.upsertJoin(ctx, &accessDatamodel.UserGroupGrant{UserID: userID, GroupID: groupID})
}

func (r *AccessRepository) RevokeGroupFromUser(ctx context.Context, groupID, userID int64) error {
	return r.softDeleteJoin(ctx, &accessDatamodel.UserGroupGrant{UserID: userID, GroupID: groupID})
}

func (r *AccessRepository) GrantGroupToCompany(ctx context.Context, groupID, companyID int64) error {
	return r.upsertJoin(ctx, &accessDatamodel.CompanyGroupGrant{CompanyID: companyID, GroupID: groupID})
}

func (r *AccessRepository) RevokeGroupFromCompany(ctx context.Context, groupID, companyID int64) error {
	return r.softDeleteJoin(ctx, &accessDatamodel.CompanyGroupGrant{CompanyID: companyID, GroupID: groupID})
}

func (r *AccessRepository) GrantGroupToCompanyUserGroup(ctx context.Context, groupID, companyUserGroupID int64) error {
	return r.upsertJoin(ctx, &accessDatamodel.CompanyUserGroupGrant{CompanyUserGroupID: companyUserGroupID, GroupID: groupID})
}

func (r *AccessRepository) RevokeGroupFromCompanyUserGroup(ctx context.Context, groupID, companyUserGroupID int64) error {
	return r.softDeleteJoin(ctx, &accessDatamodel.CompanyUserGroupGrant{CompanyUserGroupID: companyUserGroupID, GroupID: groupID})
}

// upsertJoin restores a soft-deleted join row when one exists, otherwise
// inserts a fresh one. The join models key on both columns, so the populated
// row carries the lookup condition. Runs as a single transaction so a grant
// is atomic.
func (r *AccessRepository) upsertJoin(ctx context.Context, row interface{}) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(row).Where(row).Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return tx.Model(row).Update("deleted_at", nil).Error
		}

		return tx.Create(row).Error
	})
}

func (r *AccessRepository) softDeleteJoin(ctx context.Context, row interface{}) error {
	return r.db.WithContext(ctx).Model(row).
		Where("deleted_at IS NULL").
		Update("deleted_at", time.Now()).Error
}
