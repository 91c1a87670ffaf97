package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gofiber/fiber/v2"

	httptransport "github.com/flowbit/flowbit-api/internal/api/http"
	"github.com/flowbit/flowbit-api/internal/api/http/handlers"
	"github.com/flowbit/flowbit-api/internal/auth"
	"github.com/flowbit/flowbit-api/internal/config"
	"github.com/flowbit/flowbit-api/internal/domain"
	"github.com/flowbit/flowbit-api/internal/observability"
	"github.com/flowbit/flowbit-api/internal/realtime"
	"github.com/flowbit/flowbit-api/internal/service"
	"github.com/flowbit/flowbit-api/internal/workflow"
)

const callbackSecret = "cb-secret"

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = uuid.NewString()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]domain.Ticket
}

func newMemTicketRepo() *memTicketRepo {
	return &memTicketRepo{tickets: make(map[string]domain.Ticket)}
}

func (r *memTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket.ID = uuid.NewString()
	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *memTicketRepo) ListByTenant(_ context.Context, tenantID string) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Ticket
	for _, t := range r.tickets {
		if t.TenantID == tenantID {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *memTicketRepo) GetByID(_ context.Context, id, tenantID string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok || t.TenantID != tenantID {
		return nil, pgx.ErrNoRows
	}
	return &t, nil
}

func (r *memTicketRepo) UpdateStatus(_ context.Context, id, tenantID string, status domain.TicketStatus) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok || t.TenantID != tenantID {
		return nil, pgx.ErrNoRows
	}
	t.Status = status
	t.UpdatedAt = time.Now()
	r.tickets[id] = t
	return &t, nil
}

type fixture struct {
	app    *fiber.App
	auth   *service.AuthService
	broker *realtime.MemoryBroker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            4,
		},
		Workflow: config.WorkflowConfig{CallbackSecret: callbackSecret},
		CORS:     config.CORSConfig{AllowOrigins: "*"},
	}
	logger := zap.NewNop()

	authService := service.NewAuthService(cfg, newMemUserRepo())
	broker := realtime.NewMemoryBroker()
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: newMemTicketRepo(),
		Notifier:   workflow.NewHTTPNotifier(cfg.Workflow, logger),
		Publisher:  broker,
		Logger:     logger,
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), cfg.CORS, 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Webhooks:       handlers.NewWebhooksHandler(ticketService),
		AuthMiddleware: auth.NewMiddleware(authService.TokenManager()),
		CallbackSecret: cfg.Workflow.CallbackSecret,
	})
	// Health routes are excluded: they need live postgres/redis handles.
	return &fixture{app: app, auth: authService, broker: broker}
}

func (f *fixture) tokenFor(t *testing.T, tenantID string, role domain.Role) string {
	t.Helper()
	user, err := f.auth.Register(context.Background(),
		fmt.Sprintf("%s@%s.example", uuid.NewString()[:8], tenantID),
		"password123", tenantID, role)
	require.NoError(t, err)

	token, _, err := f.auth.TokenManager().GenerateToken(user.ID, user.TenantID, user.Role)
	require.NoError(t, err)
	return token
}

func (f *fixture) do(t *testing.T, method, path, token string, body any, headers map[string]string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := f.app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

type ticketBody struct {
	Data struct {
		ID         string `json:"id"`
		CustomerID string `json:"customerId"`
		Title      string `json:"title"`
		Status     string `json:"status"`
	} `json:"data"`
}

type ticketListBody struct {
	Data []struct {
		ID         string `json:"id"`
		CustomerID string `json:"customerId"`
		Title      string `json:"title"`
	} `json:"data"`
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestAuthRegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodPost, "/auth/register", "", fiber.Map{
		"email": "admin@logisticsco.com", "password": "password123",
		"customerId": "LogisticsCo", "role": "Admin",
	}, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/auth/login", "", fiber.Map{
		"email": "admin@logisticsco.com", "password": "password123",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Auth struct {
				Token string `json:"token"`
			} `json:"auth"`
			User struct {
				CustomerID string `json:"customerId"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.Data.Auth.Token)
	assert.Equal(t, "LogisticsCo", body.Data.User.CustomerID)

	resp = f.do(t, http.MethodPost, "/auth/login", "", fiber.Map{
		"email": "admin@logisticsco.com", "password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTicketRoutesRequireCredential(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodGet, "/tickets", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/tickets", "garbage-token", nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestTenantIsolationScenario(t *testing.T) {
	f := newFixture(t)
	tokenA := f.tokenFor(t, "TenantA", domain.RoleUser)
	tokenB := f.tokenFor(t, "TenantB", domain.RoleUser)

	resp := f.do(t, http.MethodPost, "/tickets", tokenA, fiber.Map{
		"title": "A", "description": "B",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[ticketBody](t, resp)
	assert.Equal(t, "Open", created.Data.Status)
	assert.Equal(t, "TenantA", created.Data.CustomerID)

	resp = f.do(t, http.MethodGet, "/tickets", tokenA, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listA := decode[ticketListBody](t, resp)
	require.Len(t, listA.Data, 1)
	assert.Equal(t, created.Data.ID, listA.Data[0].ID)

	resp = f.do(t, http.MethodGet, "/tickets", tokenB, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listB := decode[ticketListBody](t, resp)
	assert.Empty(t, listB.Data)

	// Cross-tenant get is indistinguishable from a missing id.
	resp = f.do(t, http.MethodGet, "/tickets/"+created.Data.ID, tokenB, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/tickets/"+created.Data.ID, tokenA, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/tickets/not-a-uuid", tokenA, nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateTicketValidation(t *testing.T) {
	f := newFixture(t)
	token := f.tokenFor(t, "TenantA", domain.RoleUser)

	resp := f.do(t, http.MethodPost, "/tickets", token, fiber.Map{
		"title": "", "description": "B",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/tickets", token, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[ticketListBody](t, resp)
	assert.Empty(t, list.Data)
}

func TestCreateIgnoresCustomerIDInBody(t *testing.T) {
	f := newFixture(t)
	token := f.tokenFor(t, "TenantA", domain.RoleUser)

	resp := f.do(t, http.MethodPost, "/tickets", token, fiber.Map{
		"title": "A", "description": "B", "customerId": "TenantB",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[ticketBody](t, resp)
	assert.Equal(t, "TenantA", created.Data.CustomerID)
}

func TestStatusCallback(t *testing.T) {
	f := newFixture(t)
	tokenA := f.tokenFor(t, "TenantA", domain.RoleUser)

	resp := f.do(t, http.MethodPost, "/tickets", tokenA, fiber.Map{
		"title": "A", "description": "B",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[ticketBody](t, resp)

	chA, cancelA := f.broker.Subscribe("TenantA")
	defer cancelA()
	chB, cancelB := f.broker.Subscribe("TenantB")
	defer cancelB()

	secretHeader := map[string]string{auth.CallbackSecretHeader: callbackSecret}
	path := "/tickets/" + created.Data.ID + "/status"

	// A user token never opens the callback route.
	resp = f.do(t, http.MethodPut, path, tokenA, fiber.Map{
		"status": "Done", "customerId": "TenantA",
	}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.do(t, http.MethodPut, path, "", fiber.Map{
		"status": "Done", "customerId": "TenantA",
	}, map[string]string{auth.CallbackSecretHeader: "wrong"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.do(t, http.MethodPut, path, "", fiber.Map{
		"status": "Done", "customerId": "TenantB",
	}, secretHeader)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.do(t, http.MethodPut, path, "", fiber.Map{
		"status": "Archived", "customerId": "TenantA",
	}, secretHeader)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodPut, path, "", fiber.Map{
		"status": "Done",
	}, secretHeader)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodPut, path, "", fiber.Map{
		"status": "Done", "customerId": "TenantA",
	}, secretHeader)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[ticketBody](t, resp)
	assert.Equal(t, "Done", updated.Data.Status)

	select {
	case event := <-chA:
		assert.Equal(t, realtime.EventTicketUpdated, event.Name)
		assert.Equal(t, created.Data.ID, event.Ticket.ID)
		assert.Equal(t, domain.TicketStatusDone, event.Ticket.Status)
	case <-time.After(time.Second):
		t.Fatal("TenantA subscriber did not receive the update")
	}
	select {
	case event := <-chB:
		t.Fatalf("TenantB subscriber received TenantA update: %+v", event)
	default:
	}
}
