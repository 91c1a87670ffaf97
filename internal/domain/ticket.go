package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "InProgress"
	TicketStatusDone       TicketStatus = "Done"
)

// ValidStatus reports whether s is one of the allowed ticket statuses.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusDone:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests. TenantID is stamped from the
// caller's verified identity on create and is an equality predicate on every
// read and write afterwards.
type Ticket struct {
	ID          string
	TenantID    string
	Title       string
	Description string
	Status      TicketStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
