package access_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/campaign-management/internal/access"
	"github.com/frahmantamala/campaign-management/internal/auth"
)

func TestAccessService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Access Service Suite")
}

// Mock repository for testing
type mockAccessRepository struct {
	userGroups         map[int64][]access.Group
	companyGroups      map[int64][]access.Group
	memberGroups       map[int64][]access.Group
	groups             map[int64]*access.Group
	userGrants         map[string]bool
	companyGrants      map[string]bool
	loadError          error
	createError        error
	nextID             int64
	companyGroupCalled bool
	memberGroupCalled  bool
}

func newMockAccessRepository() *mockAccessRepository {
	return &mockAccessRepository{
		userGroups:    make(map[int64][]access.Group),
		companyGroups: make(map[int64][]access.Group),
		memberGroups:  make(map[int64][]access.Group),
		groups:        make(map[int64]*access.Group),
		userGrants:    make(map[string]bool),
		companyGrants: make(map[string]bool),
		nextID:        1,
	}
}

func (m *mockAccessRepository) GetGroupsForUser(ctx context.Context, userID int64) ([]access.Group, error) {
	if m.loadError != nil {
		return nil, m.loadError
	}
	return m.userGroups[userID], nil
}

func (m *mockAccessRepository) GetGroupsForCompany(ctx context.Context, companyID int64) ([]access.Group, error) {
	m.companyGroupCalled = true
	if m.loadError != nil {
		return nil, m.loadError
	}
	return m.companyGroups[companyID], nil
}

func (m *mockAccessRepository) GetGroupsForCompanyUserGroups(ctx context.Context, groupIDs []int64) ([]access.Group, error) {
	m.memberGroupCalled = true
	if m.loadError != nil {
		return nil, m.loadError
	}
	var out []access.Group
	seen := make(map[int64]bool)
	for _, id := range groupIDs {
		for _, g := range m.memberGroups[id] {
			if !seen[g.ID] {
				seen[g.ID] = true
				out = append(out, g)
			}
		}
	}
	return out, nil
}

func (m *mockAccessRepository) CreateGroup(ctx context.Context, group *access.Group) error {
	if m.createError != nil {
		return m.createError
	}
	group.ID = m.nextID
	m.nextID++
	m.groups[group.ID] = group
	return nil
}

func (m *mockAccessRepository) GetGroupByID(ctx context.Context, id int64) (*access.Group, error) {
	g, ok := m.groups[id]
	if !ok {
		return nil, errors.New("group not found")
	}
	return g, nil
}

func (m *mockAccessRepository) ListGroups(ctx context.Context, companyID *int64, limit, offset int) ([]access.Group, error) {
	var out []access.Group
	for _, g := range m.groups {
		out = append(out, *g)
	}
	return out, nil
}

func (m *mockAccessRepository) DeleteGroup(ctx context.Context, id int64) error {
	delete(m.groups, id)
	return nil
}

func (m *mockAccessRepository) AddTagToGroup(ctx context.Context, groupID, tagID int64) error {
	g, ok := m.groups[groupID]
	if !ok {
		return errors.New("group not found")
	}
	g.TagIDs = append(g.TagIDs, tagID)
	return nil
}

func (m *mockAccessRepository) RemoveTagFromGroup(ctx context.Context, groupID, tagID int64) error {
	return nil
}

func (m *mockAccessRepository) GrantGroupToUser(ctx context.Context, groupID, userID int64) error {
	m.userGrants[grantKey(groupID, userID)] = true
	return nil
}

func (m *mockAccessRepository) RevokeGroupFromUser(ctx context.Context, groupID, userID int64) error {
	m.userGrants[grantKey(groupID, userID)] = false
	return nil
}

func (m *mockAccessRepository) GrantGroupToCompany(ctx context.Context, groupID, companyID int64) error {
	m.companyGrants[grantKey(groupID, companyID)] = true
	return nil
}

func (m *mockAccessRepository) RevokeGroupFromCompany(ctx context.Context, groupID, companyID int64) error {
	m.companyGrants[grantKey(groupID, companyID)] = false
	return nil
}

func (m *mockAccessRepository) GrantGroupToCompanyUserGroup(ctx context.Context, groupID, companyUserGroupID int64) error {
	return nil
}

func (m *mockAccessRepository) RevokeGroupFromCompanyUserGroup(ctx context.Context, groupID, companyUserGroupID int64) error {
	return nil
}

func grantKey(a, b int64) string {
	return string(rune(a)) + ":" + string(rune(b))
}

var _ = Describe("AccessService", func() {
	var (
		service  *access.Service
		mockRepo *mockAccessRepository
		logger   *slog.Logger
		ctx      context.Context
	)

	BeforeEach(func() {
		mockRepo = newMockAccessRepository()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = access.NewService(mockRepo, logger)
		ctx = context.Background()
	})

	Describe("Aggregate", func() {
		Context("when the principal has no grants", func() {
			It("should return an empty tag set, not an error", func() {
				// Given
				principal := &auth.Principal{ID: 42}

				// When
				tags, err := service.Aggregate(ctx, principal)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(tags).To(BeEmpty())
				Expect(tags).NotTo(BeNil())
			})
		})

		Context("when the principal is nil", func() {
			It("should return an empty tag set", func() {
				tags, err := service.Aggregate(ctx, nil)

				Expect(err).NotTo(HaveOccurred())
				Expect(tags).To(BeEmpty())
			})
		})

		Context("when tags are reachable through multiple paths", func() {
			It("should return the deduplicated union", func() {
				// Given: direct grant with tags 1,2 and company grant with tags 2,3
				companyID := int64(7)
				mockRepo.userGroups[42] = []access.Group{
					{ID: 100, Name: "electronics", TagIDs: []int64{1, 2}},
				}
				mockRepo.companyGroups[7] = []access.Group{
					{ID: 200, Name: "apparel", TagIDs: []int64{2, 3}},
				}
				principal := &auth.Principal{ID: 42, CompanyID: &companyID}

				// When
				tags, err := service.Aggregate(ctx, principal)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(tags).To(Equal([]int64{1, 2, 3}))
			})
		})

		Context("when the same group is granted through several paths", func() {
			It("should count the group once", func() {
				companyID := int64(7)
				shared := access.Group{ID: 300, Name: "shared", TagIDs: []int64{9}}
				mockRepo.userGroups[42] = []access.Group{shared}
				mockRepo.companyGroups[7] = []access.Group{shared}
				principal := &auth.Principal{ID: 42, CompanyID: &companyID}

				tags, err := service.Aggregate(ctx, principal)

				Expect(err).NotTo(HaveOccurred())
				Expect(tags).To(Equal([]int64{9}))
			})
		})

		Context("when the principal has no company", func() {
			It("should skip company grants but still use group memberships", func() {
				// Given: user without a company who belongs to a company user
				// group granted a set holding tags 1 and 2
				mockRepo.memberGroups[5] = []access.Group{
					{ID: 400, Name: "seasonal", TagIDs: []int64{1, 2}},
				}
				principal := &auth.Principal{ID: 42, GroupIDs: []int64{5}}

				// When
				tags, err := service.Aggregate(ctx, principal)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(tags).To(Equal([]int64{1, 2}))
				Expect(mockRepo.companyGroupCalled).To(BeFalse())
				Expect(mockRepo.memberGroupCalled).To(BeTrue())
			})
		})

		Context("when a group has no tags", func() {
			It("should contribute nothing to the set", func() {
				mockRepo.userGroups[42] = []access.Group{
					{ID: 500, Name: "empty", TagIDs: []int64{}},
				}
				principal := &auth.Principal{ID: 42}

				tags, err := service.Aggregate(ctx, principal)

				Expect(err).NotTo(HaveOccurred())
				Expect(tags).To(BeEmpty())
			})
		})

		Context("when the repository fails", func() {
			It("should return the error", func() {
				mockRepo.loadError = errors.New("connection refused")
				principal := &auth.Principal{ID: 42}

				_, err := service.Aggregate(ctx, principal)

				Expect(err).To(HaveOccurred())
			})
		})

		Context("when grants change between calls", func() {
			It("should reflect the change on the next aggregation", func() {
				// Given
				principal := &auth.Principal{ID: 42}
				tags, err := service.Aggregate(ctx, principal)
				Expect(err).NotTo(HaveOccurred())
				Expect(tags).To(BeEmpty())

				// When: a grant lands after the first call
				mockRepo.userGroups[42] = []access.Group{
					{ID: 600, Name: "late", TagIDs: []int64{11}},
				}
				tags, err = service.Aggregate(ctx, principal)

				// Then: no caching, new grant is visible
				Expect(err).NotTo(HaveOccurred())
				Expect(tags).To(Equal([]int64{11}))
			})
		})
	})

	Describe("CreateGroup", func() {
		Context("when the payload is valid", func() {
			It("should create the group", func() {
				group, err := service.CreateGroup(ctx, access.CreateGroupDTO{Name: "electronics"})

				Expect(err).NotTo(HaveOccurred())
				Expect(group.ID).To(Equal(int64(1)))
				Expect(group.TagIDs).To(BeEmpty())
			})
		})

		Context("when the name is too short", func() {
			It("should return a validation error", func() {
				_, err := service.CreateGroup(ctx, access.CreateGroupDTO{Name: "x"})

				Expect(err).To(HaveOccurred())
			})
		})

		Context("when the repository fails", func() {
			It("should return the error", func() {
				mockRepo.createError = errors.New("duplicate name")

				_, err := service.CreateGroup(ctx, access.CreateGroupDTO{Name: "electronics"})

				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("ListGroups", func() {
		It("should clamp an out of range limit to the default", func() {
			_, err := service.ListGroups(ctx, nil, 5000, -3)

			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("grants", func() {
		It("should record a user grant and later revoke it", func() {
			Expect(service.GrantToUser(ctx, 1, 42)).To(Succeed())
			Expect(mockRepo.userGrants[grantKey(1, 42)]).To(BeTrue())

			Expect(service.RevokeFromUser(ctx, 1, 42)).To(Succeed())
			Expect(mockRepo.userGrants[grantKey(1, 42)]).To(BeFalse())
		})

		It("should record a company grant", func() {
			Expect(service.GrantToCompany(ctx, 1, 7)).To(Succeed())
			Expect(mockRepo.companyGrants[grantKey(1, 7)]).To(BeTrue())
		})
	})
})
