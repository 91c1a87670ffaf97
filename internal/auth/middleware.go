package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/flowbit/flowbit-api/internal/domain"
	apperrors "github.com/flowbit/flowbit-api/pkg/util"
)

const identityKey = "auth_identity"

// Middleware validates bearer tokens and attaches the verified identity.
type Middleware struct {
	tokens *TokenManager
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// Handle enforces authentication for user-facing routes. A missing or
// garbled header is unauthenticated (401); a header that carries a token
// failing verification is an invalid credential (403).
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthenticated("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthenticated("invalid authorization header")
	}

	identity, err := m.tokens.VerifyToken(parts[1])
	if err != nil {
		return apperrors.NewInvalidCredential("invalid or expired token")
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// IdentityFromContext retrieves the verified identity for the request.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}
