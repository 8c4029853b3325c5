package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalProvider_Verify(t *testing.T) {
	p := NewLocal()

	ident, err := p.Verify(context.Background(), " owner-1 ")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", ident.ID)

	_, err = p.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLocalProvider_DirectoryIsStablePerEmail(t *testing.T) {
	p := NewLocal()
	ctx := context.Background()

	a, err := p.FindOrCreateByEmail(ctx, "Jane@X.test", "Jane")
	require.NoError(t, err)
	b, err := p.FindOrCreateByEmail(ctx, "jane@x.test", "")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "jane@x.test", a.Email)

	_, err = p.FindOrCreateByEmail(ctx, " ", "")
	assert.ErrorIs(t, err, ErrInvalidEmail)
}
