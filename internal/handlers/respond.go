package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/dto"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var statusByKind = map[apperr.Kind]int{
	apperr.KindBadRequest:   fiber.StatusBadRequest,
	apperr.KindUnauthorized: fiber.StatusUnauthorized,
	apperr.KindForbidden:    fiber.StatusForbidden,
	apperr.KindNotFound:     fiber.StatusNotFound,
	apperr.KindConflict:     fiber.StatusConflict,
	apperr.KindUnavailable:  fiber.StatusServiceUnavailable,
	apperr.KindInternal:     fiber.StatusInternalServerError,
}

// StatusFor maps an error kind onto its HTTP status.
func StatusFor(kind apperr.Kind) int {
	if code, ok := statusByKind[kind]; ok {
		return code
	}
	return fiber.StatusInternalServerError
}

// Fail writes err as an ErrorResponse. Internal errors are logged and their
// text is not sent to the client.
func Fail(c *fiber.Ctx, err error) error {
	kind := apperr.KindOf(err)
	detail := err.Error()

	if kind == apperr.KindInternal {
		slog.Error("request failed",
			"request_id", requestID(c),
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
		)
		detail = "Internal server error"
	} else if kind == apperr.KindUnavailable {
		slog.Warn("downstream unavailable", "path", c.Path(), "error", errors.Unwrap(err))
	}

	return c.Status(StatusFor(kind)).JSON(dto.ErrorResponse{
		Detail:    detail,
		ErrorCode: kind.String(),
	})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseBody decodes the JSON body into req and validates it.
func parseBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return apperr.Wrap(apperr.KindBadRequest, err, "Invalid request body")
	}
	return validateStruct(req)
}

func validateStruct(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Wrap(apperr.KindBadRequest, err, err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return apperr.Wrap(apperr.KindBadRequest, err, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}
