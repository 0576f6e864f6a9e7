package services

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/models"
)

var ErrNoProfileChanges = apperr.New(apperr.KindBadRequest, "no fields to update")

type ProfileService struct {
	profiles ProfileStore
}

func NewProfileService(profiles ProfileStore) *ProfileService {
	return &ProfileService{profiles: profiles}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	return s.profiles.Get(ctx, userID)
}

// Update writes only full_name and email; with neither supplied nothing is
// written.
func (s *ProfileService) Update(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*models.Profile, error) {
	changes := req.Changes()
	if changes.Empty() {
		return nil, ErrNoProfileChanges
	}
	return s.profiles.Update(ctx, userID, changes)
}

func (s *ProfileService) List(ctx context.Context) ([]models.Profile, error) {
	return s.profiles.List(ctx)
}

// Role returns the role recorded on a user's profile.
func (s *ProfileService) Role(ctx context.Context, userID string) (string, error) {
	p, err := s.profiles.GetPrivileged(ctx, userID)
	if err != nil {
		return "", err
	}
	return p.Role, nil
}
