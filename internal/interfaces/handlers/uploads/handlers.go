package uploads

import (
	uploadsvc "clientdir-backend/internal/application/uploads"
	"clientdir-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers serves signed upload URL endpoints.
type Handlers struct {
	Service *uploadsvc.Service
}

type signLogoBody struct {
	FileName string `json:"file_name"`
}

// SignLogo POST /api/v1/uploads/client-logo — returns a signed upload URL
// and the public URL the logo will resolve to.
func (h *Handlers) SignLogo(c *fiber.Ctx) error {
	var body signLogoBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	result, err := h.Service.SignLogoUpload(c.Context(), body.FileName)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Upload URL created successfully", result, nil)
}
