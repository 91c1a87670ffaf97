package dto

import (
	"time"

	"github.com/flowbit/flowbit-api/internal/domain"
)

// RegisterRequest payload for new users.
type RegisterRequest struct {
	Email      string      `json:"email" validate:"required,email"`
	Password   string      `json:"password" validate:"required,min=8"`
	CustomerID string      `json:"customerId" validate:"required"`
	Role       domain.Role `json:"role" validate:"omitempty,oneof=Admin User"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UserResponse exposes the non-secret user fields.
type UserResponse struct {
	ID         string      `json:"id"`
	Email      string      `json:"email"`
	CustomerID string      `json:"customerId"`
	Role       domain.Role `json:"role"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		CustomerID: user.TenantID,
		Role:       user.Role,
	}
}
