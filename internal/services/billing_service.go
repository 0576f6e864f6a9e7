package services

import (
	"context"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/billing"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/models"
	"golang.org/x/sync/singleflight"
)

type BillingService struct {
	products      ProductStore
	profiles      ProfileStore
	subscriptions SubscriptionStore
	provider      BillingProvider
	frontendURL   string

	// prices collapses concurrent first checkouts of one product into a
	// single Stripe price creation.
	prices singleflight.Group
}

func NewBillingService(products ProductStore, profiles ProfileStore, subscriptions SubscriptionStore, provider BillingProvider, frontendURL string) *BillingService {
	return &BillingService{
		products:      products,
		profiles:      profiles,
		subscriptions: subscriptions,
		provider:      provider,
		frontendURL:   frontendURL,
	}
}

func (s *BillingService) CreateCheckoutSession(ctx context.Context, userID, productID string) (*dto.CheckoutSessionResponse, error) {
	resp, err := s.createCheckoutSession(ctx, userID, productID)
	if err != nil {
		metrics.CheckoutSessions.WithLabelValues("failed").Inc()
		return nil, err
	}
	metrics.CheckoutSessions.WithLabelValues("created").Inc()
	return resp, nil
}

func (s *BillingService) createCheckoutSession(ctx context.Context, userID, productID string) (*dto.CheckoutSessionResponse, error) {
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	priceID, err := s.ensurePrice(ctx, product)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	session, err := s.provider.CreateCheckoutSession(ctx, billing.CheckoutRequest{
		PriceID:       priceID,
		CustomerEmail: profile.Email,
		SuccessURL:    s.frontendURL + "/dashboard/subscriptions?success=true",
		CancelURL:     s.frontendURL + "/pricing?canceled=true",
		Metadata: map[string]string{
			"user_id":    userID,
			"product_id": productID,
		},
	})
	if err != nil {
		return nil, err
	}

	return &dto.CheckoutSessionResponse{SessionID: session.ID, URL: session.URL}, nil
}

// ensurePrice returns the product's Stripe price, creating it on first use.
// The stored ID is written only if still empty, so a concurrent writer in
// another process leaves exactly one ID in place and both callers use it.
func (s *BillingService) ensurePrice(ctx context.Context, product *models.Product) (string, error) {
	if product.HasStripePrice() {
		return *product.StripePriceID, nil
	}

	v, err, _ := s.prices.Do(product.ID, func() (interface{}, error) {
		current, err := s.products.Get(ctx, product.ID)
		if err != nil {
			return "", err
		}
		if current.HasStripePrice() {
			return *current.StripePriceID, nil
		}

		req := billing.PriceRequest{Name: current.Name, UnitAmount: billing.UnitAmount(current.Price)}
		if current.Description != nil {
			req.Description = *current.Description
		}
		priceID, err := s.provider.CreateRecurringPrice(ctx, req)
		if err != nil {
			return "", err
		}
		metrics.PricesCreated.Inc()

		stored, err := s.products.SetStripePriceID(ctx, current.ID, priceID)
		if err != nil {
			return "", err
		}
		if stored {
			slog.Info("stripe price created", "product_id", current.ID, "price_id", priceID)
			return priceID, nil
		}

		winner, err := s.products.Get(ctx, current.ID)
		if err != nil {
			return "", err
		}
		if !winner.HasStripePrice() {
			return "", apperr.New(apperr.KindInternal, "stripe price was not persisted")
		}
		slog.Warn("stripe price created concurrently, discarding ours", "product_id", current.ID, "discarded_price_id", priceID)
		return *winner.StripePriceID, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// HandleWebhook verifies and applies a Stripe event. Nothing is written
// unless the signature checks out.
func (s *BillingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
		return apperr.Wrap(apperr.KindBadRequest, err, err.Error())
	}

	var status string
	switch event.Type {
	case billing.EventSubscriptionUpdated:
		status = billing.MapStatus(event.ProviderStatus)
	case billing.EventSubscriptionDeleted:
		status = models.StatusCanceled
	default:
		metrics.WebhookEvents.WithLabelValues(event.Type, "ignored").Inc()
		return nil
	}

	rows, err := s.subscriptions.SetStatusByStripeID(ctx, event.SubscriptionID, status)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues(event.Type, "failed").Inc()
		return err
	}

	metrics.WebhookEvents.WithLabelValues(event.Type, "applied").Inc()
	slog.Info("billing webhook applied",
		"event_id", event.ID,
		"event_type", event.Type,
		"stripe_subscription_id", event.SubscriptionID,
		"status", status,
		"rows", rows,
	)
	return nil
}
