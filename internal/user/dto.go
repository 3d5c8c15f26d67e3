package user

import (
	"time"

	"github.com/frahmantamala/campaign-management/internal"
)

// CreateAPIKeyDTO requests a new scoped key for the current user.
type CreateAPIKeyDTO struct {
	Permissions []string   `json:"permissions"`
	ValidTo     *time.Time `json:"valid_to,omitempty"`
}

func (d CreateAPIKeyDTO) Validate() error {
	if len(d.Permissions) == 0 {
		return internal.NewValidationFieldError("permissions", "at least one permission is required", internal.ErrCodeValidationFailed)
	}
	for _, p := range d.Permissions {
		if p == "" {
			return internal.NewValidationFieldError("permissions", "permission names must not be empty", internal.ErrCodeValidationFailed)
		}
	}
	if d.ValidTo != nil && d.ValidTo.Before(time.Now()) {
		return internal.NewValidationFieldError("valid_to", "must be in the future", internal.ErrCodeValidationFailed)
	}
	return nil
}

// CreatedAPIKeyDTO is the one-time creation response carrying the plaintext
// secret. It is never reconstructible afterwards.
type CreatedAPIKeyDTO struct {
	APIKey
	Secret string `json:"secret"`
}
