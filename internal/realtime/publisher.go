package realtime

import (
	"context"
	"time"

	"github.com/flowbit/flowbit-api/internal/domain"
)

// EventTicketUpdated is the event name delivered to tenant channels.
const EventTicketUpdated = "ticket_updated"

// TicketPayload is the full ticket record carried by an event.
type TicketPayload struct {
	ID          string              `json:"id"`
	TenantID    string              `json:"customerId"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      domain.TicketStatus `json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// Event is the envelope published to a tenant channel.
type Event struct {
	Name   string        `json:"event"`
	Ticket TicketPayload `json:"ticket"`
}

// TicketUpdated builds the event for an updated ticket.
func TicketUpdated(ticket *domain.Ticket) Event {
	return Event{
		Name: EventTicketUpdated,
		Ticket: TicketPayload{
			ID:          ticket.ID,
			TenantID:    ticket.TenantID,
			Title:       ticket.Title,
			Description: ticket.Description,
			Status:      ticket.Status,
			CreatedAt:   ticket.CreatedAt,
			UpdatedAt:   ticket.UpdatedAt,
		},
	}
}

// ChannelFor returns the pub/sub channel name for a tenant. Subscribers of
// other tenants' channels never see the event.
func ChannelFor(tenantID string) string {
	return "tenant:" + tenantID + ":tickets"
}

// Publisher delivers events to the channel scoped to exactly one tenant.
// Delivery is fire-and-forget: no backlog, no replay. An event published
// while no client is subscribed is dropped; clients resynchronize through
// the listing endpoint on reconnect.
type Publisher interface {
	Publish(ctx context.Context, tenantID string, event Event) error
}
