package services

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/billing"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/models"
)

// The store interfaces are satisfied by the repository package. Errors they
// return carry an apperr.Kind.

type AccountStore interface {
	SignUp(ctx context.Context, email, password string) (*models.Account, error)
	SignIn(ctx context.Context, email, password string) (*models.Account, error)
}

type ProfileStore interface {
	Create(ctx context.Context, p *models.Profile) error
	Get(ctx context.Context, id string) (*models.Profile, error)
	GetPrivileged(ctx context.Context, id string) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Update(ctx context.Context, id string, changes models.ProfileChanges) (*models.Profile, error)
}

type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, id string, in models.ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	SetStripePriceID(ctx context.Context, id, priceID string) (bool, error)
}

type SubscriptionStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Subscription, error)
	Get(ctx context.Context, id string) (*models.Subscription, error)
	Create(ctx context.Context, s *models.Subscription) error
	UpdateStatus(ctx context.Context, id, status string, endDate *time.Time) (*models.Subscription, error)
	SetStatusByStripeID(ctx context.Context, stripeID, status string) (int64, error)
}

type BillingProvider interface {
	CreateRecurringPrice(ctx context.Context, req billing.PriceRequest) (string, error)
	CreateCheckoutSession(ctx context.Context, req billing.CheckoutRequest) (*billing.CheckoutSession, error)
	ParseWebhook(payload []byte, signature string) (*billing.Event, error)
}
