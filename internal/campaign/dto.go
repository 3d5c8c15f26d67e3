package campaign

import (
	"strings"

	"github.com/frahmantamala/campaign-management/internal"
	"github.com/frahmantamala/campaign-management/internal/core/common/validation"
)

type CreateCampaignDTO struct {
	Name          string `json:"name"`
	CompanyID     int64  `json:"company_id"`
	CategoryTagID int64  `json:"category_tag_id"`
	ContactEmail  string `json:"contact_email"`
	ContactFirst  string `json:"contact_firstname"`
	ContactLast   string `json:"contact_lastname"`
	City          string `json:"city"`
	Street        string `json:"street"`
	Zip           string `json:"zip"`
	Country       string `json:"country"`
}

func (d CreateCampaignDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("name", d.Name).
		Required().
		MinLength(2).
		MaxLength(200)
	validator.Field("company_id", d.CompanyID).
		MinInt(1, internal.ErrCodeInvalidCompanyID)
	validator.Field("category_tag_id", d.CategoryTagID).
		MinInt(1, internal.ErrCodeValidationFailed)
	if err := validator.Validate(); err != nil {
		return err
	}
	if d.ContactEmail != "" && !strings.Contains(d.ContactEmail, "@") {
		return internal.NewValidationFieldError("contact_email", "must be a valid email address", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateCampaignDTO struct {
	Name         *string `json:"name,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
	ContactFirst *string `json:"contact_firstname,omitempty"`
	ContactLast  *string `json:"contact_lastname,omitempty"`
	City         *string `json:"city,omitempty"`
	Street       *string `json:"street,omitempty"`
	Zip          *string `json:"zip,omitempty"`
	Country      *string `json:"country,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

func (d UpdateCampaignDTO) Validate() error {
	if d.Name != nil {
		validator := validation.NewValidator()
		validator.Field("name", *d.Name).
			Required().
			MinLength(2).
			MaxLength(200)
		if err := validator.Validate(); err != nil {
			return err
		}
	}
	if d.ContactEmail != nil && *d.ContactEmail != "" && !strings.Contains(*d.ContactEmail, "@") {
		return internal.NewValidationFieldError("contact_email", "must be a valid email address", internal.ErrCodeValidationFailed)
	}
	return nil
}
