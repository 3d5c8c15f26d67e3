package campaign

import (
	"context"
	"time"

	"github.com/frahmantamala/campaign-management/internal/privacy"
)

// Campaign is the API shape of one marketing campaign. The contact fields
// belong to the campaign's delivery contact and fall under privacy rules.
type Campaign struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	CompanyID     int64     `json:"company_id"`
	CategoryTagID int64     `json:"category_tag_id"`
	ContactEmail  string    `json:"contact_email"`
	ContactFirst  string    `json:"contact_firstname"`
	ContactLast   string    `json:"contact_lastname"`
	City          string    `json:"city"`
	Street        string    `json:"street"`
	Zip           string    `json:"zip"`
	Country       string    `json:"country"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MaskPersonalData hides the delivery contact's address and email local
// part. The contact name and the owning company stay readable.
func (c *Campaign) MaskPersonalData() {
	c.ContactEmail = privacy.MaskEmail(c.ContactEmail)
	c.City = privacy.MaskField(c.City)
	c.Street = privacy.MaskField(c.Street)
	c.Zip = privacy.MaskField(c.Zip)
	c.Country = privacy.MaskField(c.Country)
}

// ListFilter narrows a campaign listing. AccessibleTagIDs is mandatory
// scoping from the capability aggregation; Search matches against the stored
// name and contact fields before any masking is applied.
type ListFilter struct {
	AccessibleTagIDs []int64
	CompanyID        *int64
	Search           string
	ActiveOnly       bool
	Limit            int
	Offset           int
}

type RepositoryAPI interface {
	Create(ctx context.Context, c *Campaign) error
	GetByID(ctx context.Context, id int64) (*Campaign, error)
	List(ctx context.Context, filter ListFilter) ([]Campaign, error)
	Update(ctx context.Context, c *Campaign) error
	Deactivate(ctx context.Context, id int64) error
}
