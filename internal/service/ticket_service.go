package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/flowbit/flowbit-api/internal/domain"
	"github.com/flowbit/flowbit-api/internal/realtime"
	"github.com/flowbit/flowbit-api/internal/repository"
	"github.com/flowbit/flowbit-api/internal/workflow"
	apperrors "github.com/flowbit/flowbit-api/pkg/util"
)

// TicketService coordinates ticket workflows. The tenant id on every
// operation comes from a verified source (token claims on the user path,
// the authorized callback body on the service path), never from user input.
type TicketService struct {
	tickets   repository.TicketRepository
	notifier  workflow.Notifier
	publisher realtime.Publisher
	logger    *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Notifier   workflow.Notifier
	Publisher  realtime.Publisher
	Logger     *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:   deps.TicketRepo,
		notifier:  deps.Notifier,
		publisher: deps.Publisher,
		logger:    deps.Logger,
	}
}

// Create persists a new ticket stamped with the caller's tenant and then
// notifies the workflow engine. Notification is best-effort: by the time it
// runs the ticket exists, so a failed call is logged and dropped rather than
// rolling back or failing the request.
func (s *TicketService) Create(ctx context.Context, identity *domain.Identity, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description are required", nil)
	}

	ticket := &domain.Ticket{
		TenantID:    identity.TenantID,
		Title:       title,
		Description: description,
		Status:      domain.TicketStatusOpen,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	if err := s.notifier.TicketCreated(ctx, ticket); err != nil {
		s.logger.Error("workflow notification failed",
			zap.String("ticket_id", ticket.ID),
			zap.String("tenant_id", ticket.TenantID),
			zap.Error(err))
	}
	return ticket, nil
}

// List returns the tenant's tickets, newest first.
func (s *TicketService) List(ctx context.Context, identity *domain.Identity) ([]domain.Ticket, error) {
	return s.tickets.ListByTenant(ctx, identity.TenantID)
}

// Get fetches a single ticket for the tenant. An id owned by another tenant
// yields the same not-found as an id that does not exist.
func (s *TicketService) Get(ctx context.Context, identity *domain.Identity, ticketID string) (*domain.Ticket, error) {
	if _, err := uuid.Parse(ticketID); err != nil {
		return nil, apperrors.NewInvalidIdentifier("invalid ticket id format")
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID, identity.TenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, err
	}
	return ticket, nil
}

// UpdateStatusFromCallback applies a verified workflow-engine callback:
// atomically update the record matching both id and tenant, then publish the
// updated ticket to the tenant's realtime channel.
func (s *TicketService) UpdateStatusFromCallback(ctx context.Context, ticketID, tenantID string, status domain.TicketStatus) (*domain.Ticket, error) {
	if _, err := uuid.Parse(ticketID); err != nil {
		return nil, apperrors.NewInvalidIdentifier("invalid ticket id format")
	}
	if strings.TrimSpace(tenantID) == "" {
		return nil, apperrors.NewValidationError("customerId is required", nil)
	}
	if !domain.ValidStatus(status) {
		return nil, apperrors.NewValidationError("status must be one of Open, InProgress, Done", nil)
	}

	ticket, err := s.tickets.UpdateStatus(ctx, ticketID, tenantID, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, err
	}

	if err := s.publisher.Publish(ctx, ticket.TenantID, realtime.TicketUpdated(ticket)); err != nil {
		s.logger.Error("realtime publish failed",
			zap.String("ticket_id", ticket.ID),
			zap.String("tenant_id", ticket.TenantID),
			zap.Error(err))
	}
	return ticket, nil
}
