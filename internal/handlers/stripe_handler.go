package handlers

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

const stripeSignatureHeader = "Stripe-Signature"

type StripeHandler struct {
	billing *services.BillingService
}

func NewStripeHandler(billing *services.BillingService) *StripeHandler {
	return &StripeHandler{billing: billing}
}

// CreateCheckoutSession takes product_id from the JSON body, falling back to
// the query string.
func (h *StripeHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return Fail(c, err)
	}

	var req dto.CheckoutSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return Fail(c, apperr.Wrap(apperr.KindBadRequest, err, "Invalid request body"))
		}
	}
	if req.ProductID == "" {
		if err := c.QueryParser(&req); err != nil {
			return Fail(c, apperr.Wrap(apperr.KindBadRequest, err, "Invalid query parameters"))
		}
	}
	if err := validateStruct(&req); err != nil {
		return Fail(c, err)
	}

	resp, err := h.billing.CreateCheckoutSession(c.UserContext(), user.UserID, req.ProductID)
	if err != nil {
		return Fail(c, err)
	}
	return c.JSON(resp)
}

// Webhook verifies the raw body against the Stripe-Signature header before
// anything is parsed or written.
func (h *StripeHandler) Webhook(c *fiber.Ctx) error {
	payload := append([]byte(nil), c.Body()...)

	if err := h.billing.HandleWebhook(c.UserContext(), payload, c.Get(stripeSignatureHeader)); err != nil {
		if apperr.Is(err, apperr.KindBadRequest) {
			slog.Warn("stripe webhook rejected", "error", err, "ip", c.IP())
		}
		return Fail(c, err)
	}
	return c.JSON(dto.WebhookResponse{Status: "success"})
}
