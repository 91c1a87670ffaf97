package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowbit/flowbit-api/internal/domain"
)

// TicketRepository encapsulates ticket persistence. Every operation takes a
// tenant id and applies it as an equality predicate: a row owned by another
// tenant behaves exactly like a row that does not exist.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Ticket, error)
	GetByID(ctx context.Context, id, tenantID string) (*domain.Ticket, error)
	UpdateStatus(ctx context.Context, id, tenantID string, status domain.TicketStatus) (*domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (tenant_id, title, description, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.TenantID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.Ticket, error) {
	const query = `
        SELECT id, tenant_id, title, description, status, created_at, updated_at
        FROM tickets WHERE tenant_id=$1
        ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) GetByID(ctx context.Context, id, tenantID string) (*domain.Ticket, error) {
	const query = `
        SELECT id, tenant_id, title, description, status, created_at, updated_at
        FROM tickets WHERE id=$1 AND tenant_id=$2`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id, tenantID).Scan(
		&ticket.ID,
		&ticket.TenantID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// UpdateStatus performs the find-and-update as a single statement so
// concurrent updates to the same row cannot interleave between match and
// write. Zero rows means the id is absent for this tenant.
func (r *ticketRepository) UpdateStatus(ctx context.Context, id, tenantID string, status domain.TicketStatus) (*domain.Ticket, error) {
	const query = `
        UPDATE tickets SET status=$1, updated_at=NOW()
        WHERE id=$2 AND tenant_id=$3
        RETURNING id, tenant_id, title, description, status, created_at, updated_at`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, status, id, tenantID).Scan(
		&ticket.ID,
		&ticket.TenantID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.TenantID,
			&ticket.Title,
			&ticket.Description,
			&ticket.Status,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
