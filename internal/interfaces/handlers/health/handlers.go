package health

import (
	"context"

	healthsvc "clientdir-backend/internal/application/health"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Handlers holds dependencies for health endpoints.
type Handlers struct {
	Rdb *redis.Client
	DB  healthsvc.DBPinger
}

// JSON GET /health/json — service name, status, uptime and dependency state.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	result := healthsvc.Collect(context.Background(), h.Rdb, h.DB)
	return c.JSON(map[string]interface{}{
		"service":        "clientdir-api",
		"status":         result.Status,
		"uptime_seconds": result.UptimeSeconds,
		"dependencies":   result.Dependencies,
	})
}

// Live GET /health — liveness probe, no dependency checks.
func (h *Handlers) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
