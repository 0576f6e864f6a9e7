// Package billing relays checkout and subscription lifecycle events to and
// from Stripe. It holds no payment logic of its own.
package billing

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/models"
)

// Event types this system reacts to. Everything else is acknowledged and
// ignored.
const (
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

type PriceRequest struct {
	Name        string
	Description string
	// UnitAmount is in the smallest currency unit (cents).
	UnitAmount int64
}

type CheckoutRequest struct {
	PriceID       string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// Event is the part of a verified webhook this system consumes.
type Event struct {
	ID             string
	Type           string
	SubscriptionID string
	ProviderStatus string
}

// MapStatus converts a Stripe subscription status to the internal enum.
func MapStatus(providerStatus string) string {
	switch providerStatus {
	case "active":
		return models.StatusActive
	case "canceled":
		return models.StatusCanceled
	case "past_due":
		return models.StatusPastDue
	default:
		return models.StatusInactive
	}
}

// UnitAmount converts a decimal price to cents.
func UnitAmount(price float64) int64 {
	if price < 0 {
		return int64(price*100 - 0.5)
	}
	return int64(price*100 + 0.5)
}
