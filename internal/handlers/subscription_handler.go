package handlers

import (
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SubscriptionHandler struct {
	subscriptions *services.SubscriptionService
}

func NewSubscriptionHandler(subscriptions *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

func (h *SubscriptionHandler) List(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return Fail(c, err)
	}

	subs, err := h.subscriptions.ListMine(c.UserContext(), user.UserID)
	if err != nil {
		return Fail(c, err)
	}
	return c.JSON(subs)
}

func (h *SubscriptionHandler) Create(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return Fail(c, err)
	}

	var req dto.CreateSubscriptionRequest
	if err := parseBody(c, &req); err != nil {
		return Fail(c, err)
	}

	sub, err := h.subscriptions.Create(c.UserContext(), user.UserID, req.ProductID)
	if err != nil {
		return Fail(c, err)
	}
	return c.JSON(sub)
}

func (h *SubscriptionHandler) Update(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return Fail(c, err)
	}

	var req dto.UpdateSubscriptionRequest
	if err := parseBody(c, &req); err != nil {
		return Fail(c, err)
	}

	sub, err := h.subscriptions.Update(c.UserContext(), user.UserID, c.Params("id"), req.Status)
	if err != nil {
		return Fail(c, err)
	}
	return c.JSON(sub)
}
