package auth

import (
	"context"
	"encoding/base64"
	"net/http/httptest"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/campaign-management/internal"
)

var _ = ginkgo.Describe("CredentialFromRequest", func() {
	ginkgo.It("should parse a scoped API key credential", func() {
		req := httptest.NewRequest("GET", "/api/v1/campaigns", nil)
		req.Header.Set("Authorization", "CampaignKey super-secret")
		req.Header.Set(HeaderAPIKeyID, "key-123")

		cred := CredentialFromRequest(req, "CampaignKey")

		gomega.Expect(cred.Scheme).To(gomega.Equal("CampaignKey"))
		gomega.Expect(cred.Payload).To(gomega.Equal("super-secret"))
		gomega.Expect(cred.KeyIdentifier).To(gomega.Equal("key-123"))
	})

	ginkgo.It("should not attach a key identifier to a bearer credential", func() {
		req := httptest.NewRequest("GET", "/api/v1/campaigns", nil)
		req.Header.Set("Authorization", "Bearer some.jwt.token")
		req.Header.Set(HeaderAPIKeyID, "key-123")

		cred := CredentialFromRequest(req, "CampaignKey")

		gomega.Expect(cred.Scheme).To(gomega.Equal("Bearer"))
		gomega.Expect(cred.KeyIdentifier).To(gomega.BeEmpty())
	})

	ginkgo.It("should return an empty credential when the header is absent", func() {
		req := httptest.NewRequest("GET", "/api/v1/campaigns", nil)

		cred := CredentialFromRequest(req, "CampaignKey")

		gomega.Expect(cred).To(gomega.Equal(Credential{}))
	})
})

var _ = ginkgo.Describe("Resolver", func() {
	var (
		resolver *Resolver
		mockRepo *mockAuthRepository
		tokenGen *JWTTokenGenerator
		ctx      context.Context
	)

	hashSecret := func(secret string) string {
		hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		return string(hash)
	}

	errCode := func(err error) internal.ErrorCode {
		appErr, ok := internal.IsAppError(err)
		gomega.Expect(ok).To(gomega.BeTrue())
		return appErr.Code
	}

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		mockRepo = newMockAuthRepository()
		tokenGen = NewJWTTokenGenerator(
			"access-secret-must-be-32-chars-long!",
			"refresh-secret-must-be-32-chars-ok!!",
			15*time.Minute,
			7*24*time.Hour,
		)
		resolver = NewResolver(mockRepo, tokenGen)
	})

	ginkgo.Describe("scoped API keys", func() {
		var key *APIKey

		ginkgo.BeforeEach(func() {
			mockRepo.principals[7] = &Principal{ID: 7, Email: "owner@example.com", Role: RoleCompanyAdministrator, IsVerified: true}
			key = &APIKey{
				ID:          1,
				Identifier:  "key-123",
				SecretHash:  hashSecret("super-secret"),
				UserID:      7,
				IsEnabled:   true,
				ValidFrom:   time.Now().Add(-time.Hour),
				Permissions: []string{"campaigns:read"},
			}
			mockRepo.apiKeys["key-123"] = key
		})

		ginkgo.It("should resolve a valid key and attach its scoped permissions", func() {
			p, err := resolver.Resolve(ctx, Credential{Scheme: "CampaignKey", Payload: "super-secret", KeyIdentifier: "key-123"})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(p.ID).To(gomega.Equal(int64(7)))
			gomega.Expect(p.Permissions).To(gomega.Equal([]string{"campaigns:read"}))
		})

		ginkgo.It("should reject a missing secret as malformed", func() {
			_, err := resolver.Resolve(ctx, Credential{Scheme: "CampaignKey", KeyIdentifier: "key-123"})

			gomega.Expect(err).To(gomega.MatchError(internal.ErrMalformedCredential))
		})

		ginkgo.It("should reject an unknown identifier", func() {
			_, err := resolver.Resolve(ctx, Credential{Scheme: "CampaignKey", Payload: "super-secret", KeyIdentifier: "no-such-key"})

			gomega.Expect(errCode(err)).To(gomega.Equal(internal.ErrCodeInvalidCredentials))
		})

		ginkgo.It("should reject a disabled key", func() {
			key.IsEnabled = false

			_, err := resolver.Resolve(ctx, Credential{Scheme: "CampaignKey", Payload: "super-secret", KeyIdentifier: "key-123"})

			gomega.Expect(errCode(err)).To(gomega.Equal(internal.ErrCodeAPIKeyDisabled))
		})

		ginkgo.It("should treat a past revocation as final even with an open validity window", func() {
			revoked := time.Now().Add(-time.Minute)
			future := time.Now().Add(24 * time.Hour)
			key.RevokedAt = &revoked
			key.ValidTo = &future

			_, err := resolver.Resolve(ctx, Credential{Scheme: "CampaignKey", Payload: "super-secret", KeyIdentifier: "key-123"})

			gomega.Expect(errCode(err)).To(gomega.Equal(internal.ErrCodeAPIKeyRevoked))
		})

		ginkgo.It("should reject a key before its validity window opens", func() {
			key.ValidFrom = time.Now().Add(time.Hour)

			_, err := resolver.Resolve(ctx, Credential{Scheme: "CampaignKey", Payload: "super-secret", KeyIdentifier: "key-123"})

			gomega.Expect(errCode(err)).To(gomega.Equal(internal.ErrCodeAPIKeyExpired))
		})

		ginkgo.It("should reject a key after its validity window closes", func() {
			past := time.Now().Add(-time.Minute)
			key.ValidTo = &past

			_, err := resolver.Resolve(ctx, Credential{Scheme: "CampaignKey", Payload: "super-secret", KeyIdentifier: "key-123"})

			gomega.Expect(errCode(err)).To(gomega.Equal(internal.ErrCodeAPIKeyExpired))
		})

		ginkgo.It("should reject a wrong secret", func() {
			_, err := resolver.Resolve(ctx, Credential{Scheme: "CampaignKey", Payload: "wrong-secret", KeyIdentifier: "key-123"})

			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
		})
	})

	ginkgo.Describe("basic credentials", func() {
		ginkgo.BeforeEach(func() {
			mockRepo.addUser(7, "owner@example.com", "s3cret", &Principal{ID: 7, Email: "owner@example.com", IsVerified: true})
		})

		basicPayload := func(email, password string) string {
			return base64.StdEncoding.EncodeToString([]byte(email + ":" + password))
		}

		ginkgo.It("should resolve a valid email and password", func() {
			p, err := resolver.Resolve(ctx, Credential{Scheme: "Basic", Payload: basicPayload("owner@example.com", "s3cret")})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(p.ID).To(gomega.Equal(int64(7)))
		})

		ginkgo.It("should reject a payload that is not base64", func() {
			_, err := resolver.Resolve(ctx, Credential{Scheme: "Basic", Payload: "%%%not-base64%%%"})

			gomega.Expect(err).To(gomega.MatchError(internal.ErrMalformedCredential))
		})

		ginkgo.It("should reject a payload without a colon separator", func() {
			payload := base64.StdEncoding.EncodeToString([]byte("no-separator"))

			_, err := resolver.Resolve(ctx, Credential{Scheme: "Basic", Payload: payload})

			gomega.Expect(err).To(gomega.MatchError(internal.ErrMalformedCredential))
		})

		ginkgo.It("should reject a wrong password", func() {
			_, err := resolver.Resolve(ctx, Credential{Scheme: "Basic", Payload: basicPayload("owner@example.com", "wrong")})

			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
		})
	})

	ginkgo.Describe("bearer tokens", func() {
		ginkgo.BeforeEach(func() {
			mockRepo.principals[7] = &Principal{ID: 7, Email: "owner@example.com", IsVerified: true}
		})

		ginkgo.It("should resolve a valid access token", func() {
			token, err := tokenGen.GenerateAccessToken("7", "owner@example.com")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			p, err := resolver.Resolve(ctx, Credential{Scheme: "Bearer", Payload: token})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(p.ID).To(gomega.Equal(int64(7)))
		})

		ginkgo.It("should reject a garbage token as invalid credentials", func() {
			_, err := resolver.Resolve(ctx, Credential{Scheme: "Bearer", Payload: "not-a-jwt"})

			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
		})

		ginkgo.It("should reject an expired token as invalid credentials", func() {
			expiringGen := NewJWTTokenGenerator(
				"access-secret-must-be-32-chars-long!",
				"refresh-secret-must-be-32-chars-ok!!",
				time.Nanosecond,
				time.Nanosecond,
			)
			token, err := expiringGen.GenerateAccessToken("7", "owner@example.com")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			time.Sleep(10 * time.Millisecond)

			_, err = resolver.Resolve(ctx, Credential{Scheme: "Bearer", Payload: token})

			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
		})

		ginkgo.It("should surface a verifier malfunction as a verifier failure, not an auth failure", func() {
			broken := &brokenTokenGenerator{}
			failingResolver := NewResolver(mockRepo, broken)

			_, err := failingResolver.Resolve(ctx, Credential{Scheme: "Bearer", Payload: "anything"})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeNotFound))
			gomega.Expect(appErr.Message).To(gomega.Equal("Token verifier failure"))
		})
	})

	ginkgo.Describe("precedence", func() {
		ginkgo.It("should treat a credential with a key identifier as an API key even with a bearer-looking scheme", func() {
			_, err := resolver.Resolve(ctx, Credential{Scheme: "Bearer", Payload: "whatever", KeyIdentifier: "key-123"})

			gomega.Expect(errCode(err)).To(gomega.Equal(internal.ErrCodeInvalidCredentials))
		})

		ginkgo.It("should reject an empty credential", func() {
			_, err := resolver.Resolve(ctx, Credential{})

			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
		})
	})
})

type brokenTokenGenerator struct{}

func (b *brokenTokenGenerator) GenerateAccessToken(userID, email string) (string, error) {
	return "", nil
}

func (b *brokenTokenGenerator) GenerateRefreshToken(userID, email string) (string, error) {
	return "", nil
}

func (b *brokenTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	return nil, context.DeadlineExceeded
}
