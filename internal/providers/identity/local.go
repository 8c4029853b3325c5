package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

var localNamespace = uuid.MustParse("6f1f4a1e-3c3b-4d0e-9b7a-6c0e2f5f8a11")

// LocalProvider serves development setups without Firebase. A token is
// accepted as the owner id verbatim and directory ids are derived from the
// email address.
type LocalProvider struct{}

func NewLocal() *LocalProvider {
	return &LocalProvider{}
}

func (p *LocalProvider) Verify(ctx context.Context, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{ID: token}, nil
}

func (p *LocalProvider) FindOrCreateByEmail(ctx context.Context, email, name string) (Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return Identity{}, ErrInvalidEmail
	}
	return Identity{
		ID:    uuid.NewSHA1(localNamespace, []byte(email)).String(),
		Email: email,
		Name:  strings.TrimSpace(name),
	}, nil
}
