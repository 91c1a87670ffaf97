package dto

import (
	"time"

	"github.com/flowbit/flowbit-api/internal/domain"
)

// CreateTicketRequest payload. The tenant is never part of it; it is
// stamped from the verified token.
type CreateTicketRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// StatusCallbackRequest is the workflow-engine callback body.
type StatusCallbackRequest struct {
	Status     domain.TicketStatus `json:"status" validate:"required"`
	CustomerID string              `json:"customerId" validate:"required"`
}

// TicketResponse is the full ticket record.
type TicketResponse struct {
	ID          string              `json:"id"`
	CustomerID  string              `json:"customerId"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      domain.TicketStatus `json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          ticket.ID,
		CustomerID:  ticket.TenantID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      ticket.Status,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}
