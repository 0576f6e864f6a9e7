package repository

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/models"
	"gorm.io/gorm"
)

// SubscriptionRepository runs on the privileged handle; ownership is
// enforced by the service layer.
type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(gw *database.Gateway) *SubscriptionRepository {
	return &SubscriptionRepository{db: gw.Privileged}
}

func (r *SubscriptionRepository) ListByUser(ctx context.Context, userID string) ([]models.Subscription, error) {
	subs := []models.Subscription{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&subs).Error; err != nil {
		return nil, database.Translate(err, "subscription")
	}
	return subs, nil
}

func (r *SubscriptionRepository) Get(ctx context.Context, id string) (*models.Subscription, error) {
	var s models.Subscription
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, database.Translate(err, "subscription")
	}
	return &s, nil
}

func (r *SubscriptionRepository) Create(ctx context.Context, s *models.Subscription) error {
	err := r.db.WithContext(ctx).Omit("User", "Product").Create(s).Error
	return database.Translate(err, "subscription")
}

// UpdateStatus writes status, and endDate when non-nil, in one statement.
func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, id, status string, endDate *time.Time) (*models.Subscription, error) {
	updates := map[string]interface{}{"status": status}
	if endDate != nil {
		updates["end_date"] = *endDate
	}

	result := r.db.WithContext(ctx).Model(&models.Subscription{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, database.Translate(result.Error, "subscription")
	}
	if result.RowsAffected == 0 {
		return nil, database.Translate(gorm.ErrRecordNotFound, "subscription")
	}
	return r.Get(ctx, id)
}

// SetStatusByStripeID updates every row linked to a Stripe subscription and
// returns how many matched.
func (r *SubscriptionRepository) SetStatusByStripeID(ctx context.Context, stripeID, status string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("stripe_subscription_id = ?", stripeID).
		Update("status", status)
	if result.Error != nil {
		return 0, database.Translate(result.Error, "subscription")
	}
	return result.RowsAffected, nil
}
