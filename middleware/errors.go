// middleware/errors.go
package middleware

import (
	"errors"
	"log/slog"

	"slam-scoring-system/services"

	"github.com/gofiber/fiber/v2"
)

// Classify maps an error onto an HTTP status and a client-safe message.
// Store failures never expose their cause.
func Classify(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict, err.Error()
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}

// ErrorHandler is installed as fiber.Config.ErrorHandler so handlers can
// simply return service errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, msg := Classify(err)
	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"error", err,
		)
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
