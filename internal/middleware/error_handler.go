package middleware

import (
	"clientdir-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the global error handler. Fiber errors keep their code;
// anything else falls through the apperr taxonomy mapping.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return response.Error(c, e.Message, e.Code, nil)
	}
	return response.FromError(c, err)
}
