package domain

// Identity is the verified claim derived from a bearer token. It is built
// once per request by the credential verifier and discarded afterwards;
// it is never persisted.
type Identity struct {
	UserID   string
	TenantID string
	Role     Role
}
