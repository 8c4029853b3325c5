package ownercontext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOwnerIDFromContext(t *testing.T) {
	_, ok := OwnerIDFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithOwnerID(context.Background(), "  user-1 ")
	id, ok := OwnerIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "user-1", id)

	ctx = WithOwnerID(context.Background(), "   ")
	_, ok = OwnerIDFromContext(ctx)
	assert.False(t, ok)
}

func TestOwnerFromContext_KeepsProfileFields(t *testing.T) {
	ctx := WithOwner(context.Background(), Owner{ID: "u", Email: "a@b.co", Name: "Ada"})
	owner, ok := OwnerFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "a@b.co", owner.Email)
	assert.Equal(t, "Ada", owner.Name)
}
