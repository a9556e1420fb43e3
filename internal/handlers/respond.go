package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/apperrors"
)

// statusForKind maps the stable error codes to HTTP statuses.
func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindInvalidItems, apperrors.KindInvalidOrder:
		return fiber.StatusBadRequest
	case apperrors.KindOrderNotFound:
		return fiber.StatusNotFound
	case apperrors.KindRetryExhausted:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the structured error response: a stable code, a human
// message, and optional per-item details. Underlying causes are logged,
// never exposed.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.Unexpected(err)
	}
	if appErr.Err != nil {
		log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
	}

	body := fiber.Map{
		"code":    appErr.Kind,
		"message": appErr.Message,
	}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}
	return c.Status(statusForKind(appErr.Kind)).JSON(body)
}
