package lookups

import (
	lookupsvc "clientdir-backend/internal/application/lookups"
	"clientdir-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers serves the dropdown option lists.
type Handlers struct {
	Service *lookupsvc.Service
}

// Industries GET /api/v1/lookups/industries
func (h *Handlers) Industries(c *fiber.Ctx) error {
	options, err := h.Service.Industries(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Industries fetched successfully", options, nil)
}

// EntityTypes GET /api/v1/lookups/entity-types
func (h *Handlers) EntityTypes(c *fiber.Ctx) error {
	options, err := h.Service.EntityTypes(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Entity types fetched successfully", options, nil)
}

// Headquarters GET /api/v1/lookups/headquarters
func (h *Handlers) Headquarters(c *fiber.Ctx) error {
	options, err := h.Service.Headquarters(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Headquarters fetched successfully", options, nil)
}
