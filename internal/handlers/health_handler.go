package handlers

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

const (
	serviceName    = "SaaS Backend API"
	serviceVersion = "1.0.0"
	pingTimeout    = 2 * time.Second
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(dto.RootResponse{
		Message: serviceName,
		Version: serviceVersion,
		Status:  "running",
	})
}

// Check reports liveness. A failing database ping is reported in the body
// but does not change the status code.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), pingTimeout)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			dbStatus = "unhealthy: " + err.Error()
		}
	}

	return c.JSON(dto.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
	})
}
