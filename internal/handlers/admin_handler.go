package handlers

import (
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler is mounted behind JWTProtected and AdminRequired.
type AdminHandler struct {
	profiles *services.ProfileService
	products *services.ProductService
}

func NewAdminHandler(profiles *services.ProfileService, products *services.ProductService) *AdminHandler {
	return &AdminHandler{profiles: profiles, products: products}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.profiles.List(c.UserContext())
	if err != nil {
		return Fail(c, err)
	}
	return c.JSON(users)
}

func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var req dto.ProductRequest
	if err := parseBody(c, &req); err != nil {
		return Fail(c, err)
	}

	product, err := h.products.Create(c.UserContext(), &req)
	if err != nil {
		return Fail(c, err)
	}
	return c.JSON(product)
}

func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	var req dto.ProductRequest
	if err := parseBody(c, &req); err != nil {
		return Fail(c, err)
	}

	product, err := h.products.Update(c.UserContext(), c.Params("id"), &req)
	if err != nil {
		return Fail(c, err)
	}
	return c.JSON(product)
}

func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.products.Delete(c.UserContext(), c.Params("id")); err != nil {
		return Fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Product deleted successfully"})
}
