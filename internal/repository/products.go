package repository

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProductRepository serves public reads from the restricted handle and
// catalog writes from the privileged one.
type ProductRepository struct {
	privileged *gorm.DB
	restricted *gorm.DB
}

func NewProductRepository(gw *database.Gateway) *ProductRepository {
	return &ProductRepository{privileged: gw.Privileged, restricted: gw.Restricted}
}

func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := r.restricted.WithContext(ctx).Order("price").Find(&products).Error; err != nil {
		return nil, database.Translate(err, "product")
	}
	return products, nil
}

func (r *ProductRepository) Get(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := r.restricted.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, database.Translate(err, "product")
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return database.Translate(r.privileged.WithContext(ctx).Create(p).Error, "product")
}

func (r *ProductRepository) Update(ctx context.Context, id string, in models.ProductInput) (*models.Product, error) {
	features := in.Features
	if features == nil {
		features = []string{}
	}

	result := r.privileged.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":        in.Name,
		"description": in.Description,
		"price":       in.Price,
		"features":    datatypes.JSONSlice[string](features),
	})
	if result.Error != nil {
		return nil, database.Translate(result.Error, "product")
	}
	if result.RowsAffected == 0 {
		return nil, database.Translate(gorm.ErrRecordNotFound, "product")
	}

	var p models.Product
	if err := r.privileged.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, database.Translate(err, "product")
	}
	return &p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	result := r.privileged.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if result.Error != nil {
		return database.Translate(result.Error, "product")
	}
	if result.RowsAffected == 0 {
		return database.Translate(gorm.ErrRecordNotFound, "product")
	}
	return nil
}

// SetStripePriceID stores priceID only if the product has none yet. It
// reports whether this call set it; false means another writer won.
func (r *ProductRepository) SetStripePriceID(ctx context.Context, id, priceID string) (bool, error) {
	result := r.privileged.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND (stripe_price_id IS NULL OR stripe_price_id = '')", id).
		Update("stripe_price_id", priceID)
	if result.Error != nil {
		return false, database.Translate(result.Error, "product")
	}
	return result.RowsAffected == 1, nil
}
