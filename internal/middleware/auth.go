package middleware

import (
	"clientdir-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

// RequireAuth ensures a user is in the session. Returns 401 with the standard
// error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// ActorID returns the logged-in user's id for audit stamping, or nil.
func ActorID(c *fiber.Ctx) *uuid.UUID {
	m, ok := c.Locals(userLocal).(map[string]interface{})
	if !ok {
		return nil
	}
	s, _ := m["user_id"].(string)
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}
