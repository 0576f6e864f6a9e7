package handlers

import (
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	profiles *services.ProfileService
}

func NewUserHandler(profiles *services.ProfileService) *UserHandler {
	return &UserHandler{profiles: profiles}
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return Fail(c, err)
	}

	profile, err := h.profiles.Get(c.UserContext(), user.UserID)
	if err != nil {
		return Fail(c, err)
	}
	return c.JSON(profile)
}

func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return Fail(c, err)
	}

	var req dto.UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return Fail(c, err)
	}

	profile, err := h.profiles.Update(c.UserContext(), user.UserID, &req)
	if err != nil {
		return Fail(c, err)
	}
	return c.JSON(profile)
}
