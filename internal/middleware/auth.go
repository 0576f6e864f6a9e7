package middleware

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/token"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const userKey = "user"

var errNoIdentity = apperr.New(apperr.KindUnauthorized, "invalid token")

// JWTProtected requires a valid bearer token and stores it in c.Locals for
// CurrentUser.
func JWTProtected(tokens *token.Service) fiber.Handler {
	return jwtware.New(jwtware.Config{
		KeyFunc:    tokens.KeyFunc,
		Claims:     &token.Claims{},
		ContextKey: userKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c, authFailure(err))
		},
	})
}

func authFailure(err error) string {
	switch {
	case errors.Is(err, jwtware.ErrJWTMissingOrMalformed):
		return "missing authorization header"
	case errors.Is(err, jwt.ErrTokenExpired):
		return token.ErrTokenExpired.Error()
	default:
		return token.ErrTokenInvalid.Error()
	}
}

// CurrentUser returns the identity proven by the request's bearer token.
func CurrentUser(c *fiber.Ctx) (token.Identity, error) {
	t, ok := c.Locals(userKey).(*jwt.Token)
	if !ok || t == nil {
		return token.Identity{}, errNoIdentity
	}
	claims, ok := t.Claims.(*token.Claims)
	if !ok || claims.Subject == "" {
		return token.Identity{}, errNoIdentity
	}
	return token.Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

func unauthorized(c *fiber.Ctx, detail string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Detail:    detail,
		ErrorCode: apperr.KindUnauthorized.String(),
	})
}
