package services

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/models"
)

var ErrNotSubscriptionOwner = apperr.New(apperr.KindForbidden, "not authorized to update this subscription")

type SubscriptionService struct {
	subscriptions SubscriptionStore
	products      ProductStore
	now           func() time.Time
}

func NewSubscriptionService(subscriptions SubscriptionStore, products ProductStore) *SubscriptionService {
	return &SubscriptionService{
		subscriptions: subscriptions,
		products:      products,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *SubscriptionService) ListMine(ctx context.Context, userID string) ([]models.Subscription, error) {
	return s.subscriptions.ListByUser(ctx, userID)
}

// Create starts an active subscription for the caller covering the next
// thirty days.
func (s *SubscriptionService) Create(ctx context.Context, userID, productID string) (*models.Subscription, error) {
	if _, err := s.products.Get(ctx, productID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Wrap(apperr.KindBadRequest, err, "product not found")
		}
		return nil, err
	}

	start := s.now()
	end := start.Add(models.SubscriptionPeriod)
	sub := &models.Subscription{
		UserID:    userID,
		ProductID: productID,
		Status:    models.StatusActive,
		StartDate: start,
		EndDate:   &end,
	}
	if err := s.subscriptions.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Update changes the status of a subscription the caller owns. Canceling
// stamps end_date in the same write.
func (s *SubscriptionService) Update(ctx context.Context, userID, id, status string) (*models.Subscription, error) {
	if !models.ValidStatus(status) {
		return nil, apperr.New(apperr.KindBadRequest, "invalid subscription status: "+status)
	}

	current, err := s.subscriptions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.UserID != userID {
		return nil, ErrNotSubscriptionOwner
	}

	var endDate *time.Time
	if status == models.StatusCanceled {
		now := s.now()
		endDate = &now
	}
	return s.subscriptions.UpdateStatus(ctx, id, status, endDate)
}
