package testutil

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/billing"
	"github.com/stripe/stripe-go/v81/webhook"
)

// Billing is a BillingProvider that records calls instead of reaching
// Stripe. Webhooks are parsed by a real StripeClient so signature checks
// behave as in production.
type Billing struct {
	webhooks *billing.StripeClient

	mu       sync.Mutex
	Sessions []billing.CheckoutRequest
	// PriceDelay slows CreateRecurringPrice to widen race windows in tests.
	PriceDelay time.Duration

	priceCalls atomic.Int64
}

func NewBilling(webhookSecret string) *Billing {
	return &Billing{webhooks: billing.NewStripeClient("sk_test_unused", webhookSecret)}
}

func (b *Billing) PriceCalls() int64 {
	return b.priceCalls.Load()
}

func (b *Billing) CreateRecurringPrice(_ context.Context, _ billing.PriceRequest) (string, error) {
	n := b.priceCalls.Add(1)
	if b.PriceDelay > 0 {
		time.Sleep(b.PriceDelay)
	}
	return fmt.Sprintf("price_%d", n), nil
}

func (b *Billing) CreateCheckoutSession(_ context.Context, req billing.CheckoutRequest) (*billing.CheckoutSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Sessions = append(b.Sessions, req)
	id := fmt.Sprintf("cs_test_%d", len(b.Sessions))
	return &billing.CheckoutSession{ID: id, URL: "https://checkout.stripe.com/c/pay/" + id}, nil
}

func (b *Billing) ParseWebhook(payload []byte, signature string) (*billing.Event, error) {
	return b.webhooks.ParseWebhook(payload, signature)
}

// SignWebhook returns payload with a Stripe-Signature header computed for
// secret at the current time.
func SignWebhook(payload, secret string) (body []byte, header string) {
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(payload),
		Secret:  secret,
	})
	return sp.Payload, sp.Header
}

// SubscriptionEvent builds a minimal Stripe event body for a subscription.
func SubscriptionEvent(eventType, subscriptionID, status string) string {
	return fmt.Sprintf(`{"id":"evt_%[2]s","object":"event","type":%[1]q,"data":{"object":{"id":%[2]q,"object":"subscription","status":%[3]q}}}`,
		eventType, subscriptionID, status)
}
