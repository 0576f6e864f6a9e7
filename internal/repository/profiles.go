package repository

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/models"
	"gorm.io/gorm"
)

// ProfileRepository reads a caller's own profile through the restricted
// handle; creation, listing and role checks use the privileged one.
type ProfileRepository struct {
	privileged *gorm.DB
	restricted *gorm.DB
}

func NewProfileRepository(gw *database.Gateway) *ProfileRepository {
	return &ProfileRepository{privileged: gw.Privileged, restricted: gw.Restricted}
}

func (r *ProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	return database.Translate(r.privileged.WithContext(ctx).Create(p).Error, "profile")
}

func (r *ProfileRepository) Get(ctx context.Context, id string) (*models.Profile, error) {
	return r.find(ctx, r.restricted, id)
}

func (r *ProfileRepository) GetPrivileged(ctx context.Context, id string) (*models.Profile, error) {
	return r.find(ctx, r.privileged, id)
}

func (r *ProfileRepository) find(ctx context.Context, db *gorm.DB, id string) (*models.Profile, error) {
	var p models.Profile
	if err := db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, database.Translate(err, "profile")
	}
	return &p, nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	profiles := []models.Profile{}
	if err := r.privileged.WithContext(ctx).Order("created_at").Find(&profiles).Error; err != nil {
		return nil, database.Translate(err, "profile")
	}
	return profiles, nil
}

func (r *ProfileRepository) Update(ctx context.Context, id string, changes models.ProfileChanges) (*models.Profile, error) {
	updates := map[string]interface{}{}
	if changes.FullName != nil {
		updates["full_name"] = *changes.FullName
	}
	if changes.Email != nil {
		updates["email"] = normalizeEmail(*changes.Email)
	}

	result := r.restricted.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, database.Translate(result.Error, "profile")
	}
	if result.RowsAffected == 0 {
		return nil, database.Translate(gorm.ErrRecordNotFound, "profile")
	}
	return r.Get(ctx, id)
}
