package clients

import (
	"strconv"
	"time"

	clientsvc "clientdir-backend/internal/application/clients"
	"clientdir-backend/internal/application/directory"
	"clientdir-backend/internal/application/export"
	"clientdir-backend/internal/middleware"
	"clientdir-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers bundles client endpoints with their services.
type Handlers struct {
	Service   *clientsvc.Service
	Directory *directory.Service
}

// List GET /api/v1/clients?tab=&search=&page=
func (h *Handlers) List(c *fiber.Ctx) error {
	tab, err := directory.ParseTab(c.Query("tab"))
	if err != nil {
		return response.FromError(c, err)
	}
	pageIndex := 0
	if raw := c.Query("page"); raw != "" {
		pageIndex, err = strconv.Atoi(raw)
		if err != nil {
			return response.Error(c, "page must be an integer", fiber.StatusBadRequest, nil)
		}
	}
	page, err := h.Directory.FetchPage(c.Context(), tab, c.Query("search"), pageIndex)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Clients fetched successfully", page, fiber.Map{
		"page":      pageIndex,
		"page_size": directory.PageSize,
	})
}

// Counts GET /api/v1/clients/counts?search=
func (h *Handlers) Counts(c *fiber.Ctx) error {
	counts, err := h.Directory.CountByTab(c.Context(), c.Query("search"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Counts fetched successfully", counts, nil)
}

// Get GET /api/v1/clients/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid client_account_id", fiber.StatusBadRequest, nil)
	}
	client, err := h.Service.Get(c.Context(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Client fetched successfully", client, nil)
}

// Create POST /api/v1/clients
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in clientsvc.SaveInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	account, err := h.Service.Create(c.Context(), in, middleware.ActorID(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Client created successfully", account, nil)
}

// Update PUT /api/v1/clients/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid client_account_id", fiber.StatusBadRequest, nil)
	}
	var in clientsvc.SaveInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	account, err := h.Service.Update(c.Context(), id, in, middleware.ActorID(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Client updated successfully", account, nil)
}

// Deactivate POST /api/v1/clients/:id/deactivate
func (h *Handlers) Deactivate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid client_account_id", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.Deactivate(c.Context(), id, middleware.ActorID(c)); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Client deactivated successfully", nil, nil)
}

type associationBody struct {
	ParentCompanyID *uuid.UUID `json:"parent_company_id"`
}

// RetryAssociation POST /api/v1/clients/:id/association — completes a save
// that persisted the account but failed the association write.
func (h *Handlers) RetryAssociation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid client_account_id", fiber.StatusBadRequest, nil)
	}
	var body associationBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.RetryAssociation(c.Context(), id, body.ParentCompanyID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Association saved successfully", nil, nil)
}

// Export GET /api/v1/clients/export — xlsx download of the joined list.
func (h *Handlers) Export(c *fiber.Ctx) error {
	rows, err := h.Service.ExportRows(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	data, err := export.Workbook(rows)
	if err != nil {
		return response.Error(c, "Failed to build export", fiber.StatusInternalServerError, nil)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+export.Filename(time.Now())+`"`)
	return c.Send(data)
}
