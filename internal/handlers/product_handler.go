package handlers

import (
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler serves the public catalog.
type ProductHandler struct {
	products *services.ProductService
}

func NewProductHandler(products *services.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.products.List(c.UserContext())
	if err != nil {
		return Fail(c, err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	product, err := h.products.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return Fail(c, err)
	}
	return c.JSON(product)
}
