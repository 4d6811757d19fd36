package auth

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingFields      = errors.New("name/email/password required")
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleCustomer }

// Identity is a known user without credentials.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type User struct {
	Identity
	Hash []byte
}

// Directory is the closed set of identities the storefront authenticates against.
type Directory interface {
	Create(ctx context.Context, id Identity, password string) error
	Verify(ctx context.Context, email, password string) (Identity, error)
	Exists(ctx context.Context, email string) (bool, error)
	Ping(ctx context.Context) error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
