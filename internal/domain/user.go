package domain

import "time"

// Role enumerates the two access levels within a tenant.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// ValidRole reports whether r is a recognized role.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleUser
}

// User is the authentication record for an end-user belonging to a tenant.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	TenantID     string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
