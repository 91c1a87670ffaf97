package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/flowbit/flowbit-api/internal/config"
	"github.com/flowbit/flowbit-api/internal/domain"
)

// Notifier announces ticket events to the external workflow engine.
type Notifier interface {
	TicketCreated(ctx context.Context, ticket *domain.Ticket) error
}

// TicketCreatedPayload is the outbound webhook body.
type TicketCreatedPayload struct {
	TicketID    string              `json:"ticketId"`
	CustomerID  string              `json:"customerId"`
	Status      domain.TicketStatus `json:"status"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
}

// HTTPNotifier posts ticket-created notifications to the configured
// workflow-engine URL. At most one attempt per ticket; the caller decides
// what to do with a failure (the creation path only logs it).
type HTTPNotifier struct {
	cfg    config.WorkflowConfig
	client *http.Client
	logger *zap.Logger
}

// NewHTTPNotifier creates the notifier.
func NewHTTPNotifier(cfg config.WorkflowConfig, logger *zap.Logger) *HTTPNotifier {
	return &HTTPNotifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
		logger: logger,
	}
}

// TicketCreated sends the notification. An unset URL is a silent skip: the
// engine is optional and ticket creation has already succeeded.
func (n *HTTPNotifier) TicketCreated(ctx context.Context, ticket *domain.Ticket) error {
	if n.cfg.WebhookURL == "" {
		n.logger.Warn("workflow webhook url not configured; skipping notification",
			zap.String("ticket_id", ticket.ID))
		return nil
	}

	body, err := json.Marshal(TicketCreatedPayload{
		TicketID:    ticket.ID,
		CustomerID:  ticket.TenantID,
		Status:      ticket.Status,
		Title:       ticket.Title,
		Description: ticket.Description,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post workflow webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("workflow webhook returned %d", resp.StatusCode)
	}

	n.logger.Info("workflow engine notified",
		zap.String("ticket_id", ticket.ID),
		zap.String("tenant_id", ticket.TenantID))
	return nil
}
