package parentcompanies

import (
	parentsvc "clientdir-backend/internal/application/parentcompanies"
	"clientdir-backend/internal/middleware"
	"clientdir-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers exposes parent company endpoints.
type Handlers struct {
	Service *parentsvc.Service
}

// List GET /api/v1/parent-companies
func (h *Handlers) List(c *fiber.Ctx) error {
	companies, err := h.Service.List(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Parent companies fetched successfully", companies, nil)
}

// Get GET /api/v1/parent-companies/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid parent_company_id", fiber.StatusBadRequest, nil)
	}
	company, err := h.Service.Get(c.Context(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Parent company fetched successfully", company, nil)
}

// Create POST /api/v1/parent-companies
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in parentsvc.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	company, err := h.Service.Create(c.Context(), in, middleware.ActorID(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Parent company created successfully", company, nil)
}
