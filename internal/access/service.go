package access

import (
	"context"
	"log/slog"
	"sort"

	"github.com/frahmantamala/campaign-management/internal/auth"
)

// Service aggregates capability grants and applies grant/revoke mutations.
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Aggregate computes the union of product category tags the principal may
// access: direct grants, the company's grants, and grants attached to any of
// the principal's company user groups. A tag reachable through any path is
// accessible; there is no precedence between paths. The result is computed
// fresh on every call because group and tag membership can change between
// requests.
func (s *Service) Aggregate(ctx context.Context, principal *auth.Principal) ([]int64, error) {
	if principal == nil {
		return []int64{}, nil
	}

	groups, err := s.repo.GetGroupsForUser(ctx, principal.ID)
	if err != nil {
		s.logger.Error("failed to load direct access groups", "error", err, "user_id", principal.ID)
		return nil, err
	}

	if principal.CompanyID != nil {
		companyGroups, err := s.repo.GetGroupsForCompany(ctx, *principal.CompanyID)
		if err != nil {
			s.logger.Error("failed to load company access groups", "error", err, "company_id", *principal.CompanyID)
			return nil, err
		}
		groups = append(groups, companyGroups...)
	}

	if len(principal.GroupIDs) > 0 {
		memberGroups, err := s.repo.GetGroupsForCompanyUserGroups(ctx, principal.GroupIDs)
		if err != nil {
			s.logger.Error("failed to load user group access groups", "error", err, "user_id", principal.ID)
			return nil, err
		}
		groups = append(groups, memberGroups...)
	}

	seenGroups := make(map[int64]struct{}, len(groups))
	tagSet := make(map[int64]struct{})
	for _, g := range groups {
		if _, dup := seenGroups[g.ID]; dup {
			continue
		}
		seenGroups[g.ID] = struct{}{}
		for _, tagID := range g.TagIDs {
			tagSet[tagID] = struct{}{}
		}
	}

	tags := make([]int64, 0, len(tagSet))
	for tagID := range tagSet {
		tags = append(tags, tagID)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })

	return tags, nil
}

func (s *Service) CreateGroup(ctx context.Context, dto CreateGroupDTO) (*Group, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	group := &Group{
		Name:      dto.Name,
		CompanyID: dto.CompanyID,
		TagIDs:    []int64{},
	}
	if err := s.repo.CreateGroup(ctx, group); err != nil {
		s.logger.Error("failed to create access group", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("access group created", "group_id", group.ID, "name", group.Name)
	return group, nil
}

func (s *Service) GetGroup(ctx context.Context, id int64) (*Group, error) {
	return s.repo.GetGroupByID(ctx, id)
}

func (s *Service) ListGroups(ctx context.Context, companyID *int64, limit, offset int) ([]Group, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListGroups(ctx, companyID, limit, offset)
}

func (s *Service) DeleteGroup(ctx context.Context, id int64) error {
	if err := s.repo.DeleteGroup(ctx, id); err != nil {
		s.logger.Error("failed to delete access group", "error", err, "group_id", id)
		return err
	}
	s.logger.Info("access group deleted", "group_id", id)
	return nil
}

func (s *Service) AddTag(ctx context.Context, groupID, tagID int64) error {
	if err := s.repo.AddTagToGroup(ctx, groupID, tagID); err != nil {
		s.logger.Error("failed to add tag to group", "error", err, "group_id", groupID, "tag_id", tagID)
		return err
	}
	s.logger.Info("tag added to access group", "group_id", groupID, "tag_id", tagID)
	return nil
}

func (s *Service) RemoveTag(ctx context.Context, groupID, tagID int64) error {
	if err := s.repo.RemoveTagFromGroup(ctx, groupID, tagID); err != nil {
		s.logger.Error("failed to remove tag from group", "error", err, "group_id", groupID, "tag_id", tagID)
		return err
	}
	s.logger.Info("tag removed from access group", "group_id", groupID, "tag_id", tagID)
	return nil
}

func (s *Service) GrantToUser(ctx context.Context, groupID, userID int64) error {
	if err := s.repo.GrantGroupToUser(ctx, groupID, userID); err != nil {
		s.logger.Error("failed to grant group to user", "error", err, "group_id", groupID, "user_id", userID)
		return err
	}
	s.logger.Info("access group granted to user", "group_id", groupID, "user_id", userID)
	return nil
}

func (s *Service) RevokeFromUser(ctx context.Context, groupID, userID int64) error {
	if err := s.repo.RevokeGroupFromUser(ctx, groupID, userID); err != nil {
		s.logger.Error("failed to revoke group from user", "error", err, "group_id", groupID, "user_id", userID)
		return err
	}
	s.logger.Info("access group revoked from user", "group_id", groupID, "user_id", userID)
	return nil
}

func (s *Service) GrantToCompany(ctx context.Context, groupID, companyID int64) error {
	if err := s.repo.GrantGroupToCompany(ctx, groupID, companyID); err != nil {
		s.logger.Error("failed to grant group to company", "error", err, "group_id", groupID, "company_id", companyID)
		return err
	}
	s.logger.Info("access group granted to company", "group_id", groupID, "company_id", companyID)
	return nil
}

func (s *Service) RevokeFromCompany(ctx context.Context, groupID, companyID int64) error {
	if err := s.repo.RevokeGroupFromCompany(ctx, groupID, companyID); err != nil {
		s.logger.Error("failed to revoke group from company", "error", err, "group_id", groupID, "company_id", companyID)
		return err
	}
	s.logger.Info("access group revoked from company", "group_id", groupID, "company_id", companyID)
	return nil
}

func (s *Service) GrantToCompanyUserGroup(ctx context.Context, groupID, companyUserGroupID int64) error {
	if err := s.repo.GrantGroupToCompanyUserGroup(ctx, groupID, companyUserGroupID); err != nil {
		s.logger.Error("failed to grant group to company user group", "error", err, "group_id", groupID, "company_user_group_id", companyUserGroupID)
		return err
	}
	s.logger.Info("access group granted to company user group", "group_id", groupID, "company_user_group_id", companyUserGroupID)
	return nil
}

func (s *Service) RevokeFromCompanyUserGroup(ctx context.Context, groupID, companyUserGroupID int64) error {
	if err := s.repo.RevokeGroupFromCompanyUserGroup(ctx, groupID, companyUserGroupID); err != nil {
		s.logger.Error("failed to revoke group from company user group", "error", err, "group_id", groupID, "company_user_group_id", companyUserGroupID)
		return err
	}
	s.logger.Info("access group revoked from company user group", "group_id", groupID, "company_user_group_id", companyUserGroupID)
	return nil
}
