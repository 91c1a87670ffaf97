package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowbit/flowbit-api/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	token, exp, err := tm.GenerateToken("user-1", "TenantA", domain.RoleAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	identity, err := tm.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.UserID)
	assert.Equal(t, "TenantA", identity.TenantID)
	assert.Equal(t, domain.RoleAdmin, identity.Role)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 60).GenerateToken("user-1", "TenantA", domain.RoleUser)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 60).VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyTokenExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	claims := &Claims{
		TenantID: "TenantA",
		Role:     domain.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = tm.VerifyToken(expired)
	assert.Error(t, err)
}

func TestVerifyTokenIncompleteClaims(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	tests := []struct {
		name   string
		claims *Claims
	}{
		{"missing tenant", &Claims{Role: domain.RoleUser, RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}},
		{"missing subject", &Claims{TenantID: "TenantA", Role: domain.RoleUser, RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}},
		{"unknown role", &Claims{TenantID: "TenantA", Role: domain.Role("Owner"), RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tt.claims).SignedString([]byte("test-secret"))
			require.NoError(t, err)

			_, err = tm.VerifyToken(token)
			assert.Error(t, err)
		})
	}
}

func TestVerifyTokenGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	_, err := tm.VerifyToken("not-a-jwt")
	assert.Error(t, err)
}
