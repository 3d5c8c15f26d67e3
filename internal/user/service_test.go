package user_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/campaign-management/internal/auth"
	"github.com/frahmantamala/campaign-management/internal/privacy"
	"github.com/frahmantamala/campaign-management/internal/user"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Service Suite")
}

// Mock repository for testing
type mockUserRepository struct {
	users   map[int64]*user.User
	keys    map[int64]*user.APIKey
	hashes  map[int64]string
	nextKey int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:   make(map[int64]*user.User),
		keys:    make(map[int64]*user.APIKey),
		hashes:  make(map[int64]string),
		nextKey: 1,
	}
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepository) CreateAPIKey(ctx context.Context, key *user.APIKey, secretHash string) error {
	key.ID = m.nextKey
	m.nextKey++
	key.CreatedAt = time.Now()
	stored := *key
	m.keys[key.ID] = &stored
	m.hashes[key.ID] = secretHash
	return nil
}

func (m *mockUserRepository) ListAPIKeysForUser(ctx context.Context, userID int64) ([]user.APIKey, error) {
	var out []user.APIKey
	for _, k := range m.keys {
		if k.UserID == userID {
			out = append(out, *k)
		}
	}
	return out, nil
}

func (m *mockUserRepository) GetAPIKeyByID(ctx context.Context, id int64) (*user.APIKey, error) {
	k, ok := m.keys[id]
	if !ok {
		return nil, nil
	}
	copied := *k
	return &copied, nil
}

func (m *mockUserRepository) RevokeAPIKey(ctx context.Context, id int64) error {
	if k, ok := m.keys[id]; ok && k.RevokedAt == nil {
		now := time.Now()
		k.RevokedAt = &now
	}
	return nil
}

type passthroughRedactor struct{}

func (passthroughRedactor) Redact(ctx context.Context, principal *auth.Principal, module string, records ...privacy.Maskable) {
}

type maskingRedactor struct{}

func (maskingRedactor) Redact(ctx context.Context, principal *auth.Principal, module string, records ...privacy.Maskable) {
	for _, r := range records {
		r.MaskPersonalData()
	}
}

var _ = Describe("UserService", func() {
	var (
		mockRepo *mockUserRepository
		logger   *slog.Logger
		ctx      context.Context
	)

	principal := &auth.Principal{ID: 42, Role: auth.RoleUser}

	BeforeEach(func() {
		mockRepo = newMockUserRepository()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		ctx = context.Background()
	})

	Describe("GetProfile", func() {
		It("should return the principal's own account", func() {
			mockRepo.users[42] = &user.User{ID: 42, Email: "a.b@example.com", City: "Jakarta"}
			service := user.NewService(mockRepo, passthroughRedactor{}, bcrypt.MinCost, logger)

			u, err := service.GetProfile(ctx, principal)

			Expect(err).NotTo(HaveOccurred())
			Expect(u.Email).To(Equal("a.b@example.com"))
		})

		It("should mask the profile when a privacy rule applies", func() {
			mockRepo.users[42] = &user.User{ID: 42, Email: "a.b@example.com", City: "Jakarta"}
			service := user.NewService(mockRepo, maskingRedactor{}, bcrypt.MinCost, logger)

			u, err := service.GetProfile(ctx, principal)

			Expect(err).NotTo(HaveOccurred())
			Expect(u.Email).To(Equal("***@example.com"))
			Expect(u.City).To(Equal("*******"))
		})

		It("should return not found for a missing account", func() {
			service := user.NewService(mockRepo, passthroughRedactor{}, bcrypt.MinCost, logger)

			_, err := service.GetProfile(ctx, principal)

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("CreateAPIKey", func() {
		It("should return the plaintext secret once and store only a hash", func() {
			service := user.NewService(mockRepo, passthroughRedactor{}, bcrypt.MinCost, logger)

			created, err := service.CreateAPIKey(ctx, principal, user.CreateAPIKeyDTO{
				Permissions: []string{"campaigns:read"},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(created.Secret).NotTo(BeEmpty())
			Expect(created.Identifier).NotTo(BeEmpty())

			hash := mockRepo.hashes[created.ID]
			Expect(hash).NotTo(Equal(created.Secret))
			Expect(bcrypt.CompareHashAndPassword([]byte(hash), []byte(created.Secret))).To(Succeed())
		})

		It("should reject an empty permission set", func() {
			service := user.NewService(mockRepo, passthroughRedactor{}, bcrypt.MinCost, logger)

			_, err := service.CreateAPIKey(ctx, principal, user.CreateAPIKeyDTO{})

			Expect(err).To(HaveOccurred())
		})

		It("should reject a valid_to in the past", func() {
			service := user.NewService(mockRepo, passthroughRedactor{}, bcrypt.MinCost, logger)
			past := time.Now().Add(-time.Hour)

			_, err := service.CreateAPIKey(ctx, principal, user.CreateAPIKeyDTO{
				Permissions: []string{"campaigns:read"},
				ValidTo:     &past,
			})

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("RevokeAPIKey", func() {
		It("should let the owner revoke their key", func() {
			service := user.NewService(mockRepo, passthroughRedactor{}, bcrypt.MinCost, logger)
			created, err := service.CreateAPIKey(ctx, principal, user.CreateAPIKeyDTO{
				Permissions: []string{"campaigns:read"},
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.RevokeAPIKey(ctx, principal, created.ID)).To(Succeed())
			Expect(mockRepo.keys[created.ID].RevokedAt).NotTo(BeNil())
		})

		It("should forbid revoking another user's key", func() {
			service := user.NewService(mockRepo, passthroughRedactor{}, bcrypt.MinCost, logger)
			created, err := service.CreateAPIKey(ctx, principal, user.CreateAPIKeyDTO{
				Permissions: []string{"campaigns:read"},
			})
			Expect(err).NotTo(HaveOccurred())

			stranger := &auth.Principal{ID: 99, Role: auth.RoleUser}
			err = service.RevokeAPIKey(ctx, stranger, created.ID)

			Expect(err).To(HaveOccurred())
			Expect(mockRepo.keys[created.ID].RevokedAt).To(BeNil())
		})

		It("should let an admin revoke any key", func() {
			service := user.NewService(mockRepo, passthroughRedactor{}, bcrypt.MinCost, logger)
			created, err := service.CreateAPIKey(ctx, principal, user.CreateAPIKeyDTO{
				Permissions: []string{"campaigns:read"},
			})
			Expect(err).NotTo(HaveOccurred())

			admin := &auth.Principal{ID: 1, Role: auth.RoleAdmin}
			Expect(service.RevokeAPIKey(ctx, admin, created.ID)).To(Succeed())
		})
	})
})
