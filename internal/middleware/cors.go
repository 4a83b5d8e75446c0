package middleware

import (
	"strings"

	"clientdir-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CORSConfig holds CORS configuration (allowed origin suffix + dev password).
type CORSConfig struct {
	AllowedSuffix string
	DevPassword   string
}

// CORS allows origins ending with AllowedSuffix, localhost preflights, or
// requests carrying the dev-password header. Credentials allowed.
func CORS(cfg CORSConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := c.Get("Origin")
		if origin == "" {
			return c.Next()
		}
		if c.Method() == fiber.MethodOptions && (strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:")) {
			setCORSHeaders(c, origin)
			return c.SendStatus(fiber.StatusNoContent)
		}
		if cfg.AllowedSuffix != "" && strings.HasSuffix(strings.ToLower(origin), strings.ToLower(cfg.AllowedSuffix)) {
			setCORSHeaders(c, origin)
			return c.Next()
		}
		if cfg.DevPassword != "" && c.Get("dev-password") == cfg.DevPassword {
			setCORSHeaders(c, origin)
			return c.Next()
		}
		return response.Error(c, "Not allowed by CORS", fiber.StatusForbidden, nil)
	}
}

func setCORSHeaders(c *fiber.Ctx, origin string) {
	c.Set("Access-Control-Allow-Origin", origin)
	c.Set("Access-Control-Allow-Credentials", "true")
	c.Set("Access-Control-Allow-Headers", "Content-Type, dev-password")
}
