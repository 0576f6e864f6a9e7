// Package metrics exposes Prometheus counters for the billing flow.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_webhook_events_total",
		Help: "Stripe webhook deliveries by event type and outcome.",
	}, []string{"type", "outcome"})

	CheckoutSessions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_checkout_sessions_total",
		Help: "Checkout session attempts by outcome.",
	}, []string{"outcome"})

	PricesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billing_prices_created_total",
		Help: "Stripe prices created on first checkout of a product.",
	})
)

// Handler serves the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
