package dto

import "github.com/ahmetcoskunkizilkaya/saas-backend/internal/models"

// UpdateProfileRequest treats absent and empty fields alike: neither is
// written.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

func (r *UpdateProfileRequest) Changes() models.ProfileChanges {
	var changes models.ProfileChanges
	if r.FullName != nil && *r.FullName != "" {
		changes.FullName = r.FullName
	}
	if r.Email != nil && *r.Email != "" {
		changes.Email = r.Email
	}
	return changes
}
