package postgres

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/campaign-management/internal/auth"
	apikeyDatamodel "github.com/frahmantamala/campaign-management/internal/core/datamodel/apikey"
	userDatamodel "github.com/frahmantamala/campaign-management/internal/core/datamodel/user"
	"github.com/frahmantamala/campaign-management/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var record userDatamodel.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &user.User{
		ID:         record.ID,
		Email:      record.Email,
		FirstName:  record.FirstName,
		LastName:   record.LastName,
		Role:       auth.Role(record.Role),
		CompanyID:  record.CompanyID,
		IsVerified: record.IsVerified,
		City:       record.City,
		Street:     record.Street,
		Zip:        record.Zip,
		Country:    record.Country,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}, nil
}

func (r *UserRepository) CreateAPIKey(ctx context.Context, key *user.APIKey, secretHash string) error {
	record := apikeyDatamodel.APIKey{
		Identifier:  key.Identifier,
		SecretHash:  secretHash,
		UserID:      key.UserID,
		IsEnabled:   key.IsEnabled,
		ValidFrom:   key.ValidFrom,
		ValidTo:     key.ValidTo,
		Permissions: strings.Join(key.Permissions, ","),
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return err
	}
	key.ID = record.ID
	key.CreatedAt = record.CreatedAt
	return nil
}

func (r *UserRepository) ListAPIKeysForUser(ctx context.Context, userID int64) ([]user.APIKey, error) {
	var records []apikeyDatamodel.APIKey
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	keys := make([]user.APIKey, 0, len(records))
	for i := range records {
		keys = append(keys, *toAPIKey(&records[i]))
	}
	return keys, nil
}

func (r *UserRepository) GetAPIKeyByID(ctx context.Context, id int64) (*user.APIKey, error) {
	var record apikeyDatamodel.APIKey
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return toAPIKey(&record), nil
}

func (r *UserRepository) RevokeAPIKey(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&apikeyDatamodel.APIKey{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", time.Now()).Error
}

func toAPIKey(record *apikeyDatamodel.APIKey) *user.APIKey {
	var permissions []string
	if record.Permissions != "" {
		permissions = strings.Split(record.Permissions, ",")
	}
	return &user.APIKey{
		ID:          record.ID,
		Identifier:  record.Identifier,
		UserID:      record.UserID,
		IsEnabled:   record.IsEnabled,
		ValidFrom:   record.ValidFrom,
		ValidTo:     record.ValidTo,
		RevokedAt:   record.RevokedAt,
		Permissions: permissions,
		CreatedAt:   record.CreatedAt,
	}
}
