package identity

import (
	"context"
	"errors"
)

var (
	ErrInvalidToken = errors.New("invalid_token")
	ErrInvalidEmail = errors.New("invalid_email")
)

// Identity is an authenticated principal in the external user directory.
type Identity struct {
	ID    string
	Email string
	Name  string
}

// Verifier resolves a bearer token into an Identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// Directory looks up identities by email, creating them when absent.
type Directory interface {
	FindOrCreateByEmail(ctx context.Context, email, name string) (Identity, error)
}
