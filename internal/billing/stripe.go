package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/apperr"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"
)

// StripeClient is the Stripe-backed billing gateway.
type StripeClient struct {
	api           *client.API
	webhookSecret string
}

func NewStripeClient(secretKey, webhookSecret string) *StripeClient {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeClient{api: api, webhookSecret: webhookSecret}
}

// CreateRecurringPrice creates a Stripe product and a monthly USD price for
// it, returning the price ID.
func (c *StripeClient) CreateRecurringPrice(ctx context.Context, req PriceRequest) (string, error) {
	productParams := &stripe.ProductParams{Name: stripe.String(req.Name)}
	if req.Description != "" {
		productParams.Description = stripe.String(req.Description)
	}
	productParams.Context = ctx

	product, err := c.api.Products.New(productParams)
	if err != nil {
		return "", translate(err, "create product")
	}

	priceParams := &stripe.PriceParams{
		Product:    stripe.String(product.ID),
		UnitAmount: stripe.Int64(req.UnitAmount),
		Currency:   stripe.String(string(stripe.CurrencyUSD)),
		Recurring: &stripe.PriceRecurringParams{
			Interval: stripe.String(string(stripe.PriceRecurringIntervalMonth)),
		},
	}
	priceParams.Context = ctx

	price, err := c.api.Prices.New(priceParams)
	if err != nil {
		return "", translate(err, "create price")
	}
	return price.ID, nil
}

func (c *StripeClient) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(req.PriceID), Quantity: stripe.Int64(1)},
		},
		Mode:          stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		CustomerEmail: stripe.String(req.CustomerEmail),
		SuccessURL:    stripe.String(req.SuccessURL),
		CancelURL:     stripe.String(req.CancelURL),
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, translate(err, "create checkout session")
	}
	return &CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// ParseWebhook verifies the Stripe-Signature header against the raw body and
// decodes the event. Verification failures wrap ErrInvalidSignature.
func (c *StripeClient) ParseWebhook(payload []byte, signature string) (*Event, error) {
	ev, err := webhook.ConstructEventWithOptions(payload, signature, c.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{ID: ev.ID, Type: string(ev.Type)}
	if out.Type != EventSubscriptionUpdated && out.Type != EventSubscriptionDeleted {
		return out, nil
	}
	if ev.Data == nil {
		return nil, errors.New("subscription event without data")
	}

	raw := []byte(ev.Data.Raw)
	if len(raw) == 0 {
		if raw, err = json.Marshal(ev.Data.Object); err != nil {
			return nil, fmt.Errorf("encode event object: %w", err)
		}
	}

	var sub struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, fmt.Errorf("decode subscription: %w", err)
	}
	out.SubscriptionID = sub.ID
	out.ProviderStatus = sub.Status
	return out, nil
}

func translate(err error, op string) error {
	var se *stripe.Error
	if errors.As(err, &se) && se.HTTPStatusCode >= 400 && se.HTTPStatusCode < 500 && se.HTTPStatusCode != 429 {
		return apperr.Wrap(apperr.KindBadRequest, err, op+": "+se.Msg)
	}
	return apperr.Wrap(apperr.KindUnavailable, err, op+": billing provider unavailable")
}
