package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/campaign-management/internal/campaign"
	campaignDatamodel "github.com/frahmantamala/campaign-management/internal/core/datamodel/campaign"
)

type CampaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) campaign.RepositoryAPI {
	return &CampaignRepository{db: db}
}

func (r *CampaignRepository) Create(ctx context.Context, c *campaign.Campaign) error {
	record := toRecord(c)
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return err
	}
	*c = *toCampaign(record)
	return nil
}

func (r *CampaignRepository) GetByID(ctx context.Context, id int64) (*campaign.Campaign, error) {
	var record campaignDatamodel.Campaign
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return toCampaign(&record), nil
}

func (r *CampaignRepository) List(ctx context.Context, filter campaign.ListFilter) ([]campaign.Campaign, error) {
	if len(filter.AccessibleTagIDs) == 0 {
		return []campaign.Campaign{}, nil
	}

	query := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Where("category_tag_id IN (?)", filter.AccessibleTagIDs)

	if filter.CompanyID != nil {
		query = query.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		// matches stored values; masking happens after the fetch
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"name LIKE ? OR contact_email LIKE ? OR contact_firstname LIKE ? OR contact_lastname LIKE ? OR city LIKE ?",
			pattern, pattern, pattern, pattern, pattern)
	}

	var records []campaignDatamodel.Campaign
	err := query.Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	campaigns := make([]campaign.Campaign, 0, len(records))
	for i := range records {
		campaigns = append(campaigns, *toCampaign(&records[i]))
	}
	return campaigns, nil
}

func (r *CampaignRepository) Update(ctx context.Context, c *campaign.Campaign) error {
	record := toRecord(c)
	record.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *CampaignRepository) Deactivate(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&campaignDatamodel.Campaign{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("is_active", false).Error
}

func toRecord(c *campaign.Campaign) *campaignDatamodel.Campaign {
	return &campaignDatamodel.Campaign{
		ID:            c.ID,
		Name:          c.Name,
		CompanyID:     c.CompanyID,
		CategoryTagID: c.CategoryTagID,
		ContactEmail:  c.ContactEmail,
		ContactFirst:  c.ContactFirst,
		ContactLast:   c.ContactLast,
		City:          c.City,
		Street:        c.Street,
		Zip:           c.Zip,
		Country:       c.Country,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func toCampaign(record *campaignDatamodel.Campaign) *campaign.Campaign {
	return &campaign.Campaign{
		ID:            record.ID,
		Name:          record.Name,
		CompanyID:     record.CompanyID,
		CategoryTagID: record.CategoryTagID,
		ContactEmail:  record.ContactEmail,
		ContactFirst:  record.ContactFirst,
		ContactLast:   record.ContactLast,
		City:          record.City,
		Street:        record.Street,
		Zip:           record.Zip,
		Country:       record.Country,
		IsActive:      record.IsActive,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
}
