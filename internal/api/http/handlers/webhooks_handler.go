package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flowbit/flowbit-api/internal/api/dto"
	"github.com/flowbit/flowbit-api/internal/service"
	apperrors "github.com/flowbit/flowbit-api/pkg/util"
)

// WebhooksHandler serves the workflow-engine callback. The route is gated
// by the shared secret; the tenant id comes from the verified body, not
// from a token.
type WebhooksHandler struct {
	service *service.TicketService
}

// NewWebhooksHandler constructs handler.
func NewWebhooksHandler(ticketService *service.TicketService) *WebhooksHandler {
	return &WebhooksHandler{service: ticketService}
}

// UpdateTicketStatus PUT /tickets/:id/status.
func (h *WebhooksHandler) UpdateTicketStatus(c *fiber.Ctx) error {
	var req dto.StatusCallbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Check(req); err != nil {
		return err
	}

	ticket, err := h.service.UpdateStatusFromCallback(c.Context(), c.Params("id"), req.CustomerID, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}
