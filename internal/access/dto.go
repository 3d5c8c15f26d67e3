package access

import (
	"github.com/frahmantamala/campaign-management/internal/core/common/validation"
)

// CreateGroupDTO is the transport shape for creating an access control group.
type CreateGroupDTO struct {
	Name      string `json:"name"`
	CompanyID *int64 `json:"company_id,omitempty"`
}

func (d CreateGroupDTO) Validate() error {
	if err := validation.ValidateGroupName(d.Name); err != nil {
		return err
	}
	return nil
}

// GrantDTO carries one grant/revoke target; exactly one of the id fields is
// set depending on the route.
type GrantDTO struct {
	UserID             *int64 `json:"user_id,omitempty"`
	CompanyID          *int64 `json:"company_id,omitempty"`
	CompanyUserGroupID *int64 `json:"company_user_group_id,omitempty"`
	TagID              *int64 `json:"tag_id,omitempty"`
}
