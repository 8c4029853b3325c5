package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProvider(t *testing.T) {
	ctx := context.Background()
	p := NewMemory()

	id, err := p.Upload(ctx, "inv-1.pdf", "application/pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "inv-1.pdf", id)

	data, err := p.Download(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), data)

	_, err = p.Download(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = p.Upload(ctx, "", "application/pdf", nil)
	assert.Error(t, err)
}
