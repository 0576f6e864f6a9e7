package middleware

import (
	"context"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

// RoleLookup resolves the role stored on a user's profile.
type RoleLookup interface {
	Role(ctx context.Context, userID string) (string, error)
}

// AdminRequired must run after JWTProtected. A caller whose profile cannot
// be read is treated as unauthenticated.
func AdminRequired(roles RoleLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := CurrentUser(c)
		if err != nil {
			return unauthorized(c, err.Error())
		}

		role, err := roles.Role(c.UserContext(), user.UserID)
		if err != nil {
			slog.Warn("admin role lookup failed", "user_id", user.UserID, "error", err)
			return unauthorized(c, "could not verify user role")
		}

		if role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Detail:    "Admin access required",
				ErrorCode: apperr.KindForbidden.String(),
			})
		}
		return c.Next()
	}
}
