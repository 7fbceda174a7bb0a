package memory

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveReadDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New()
	id := uuid.New()

	_, ok, err := s.Read(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Save(ctx, id, bytes.NewReader([]byte("one"))))
	require.NoError(t, s.Save(ctx, id, bytes.NewReader([]byte("two"))))

	got, ok, err := s.Read(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("two"), got)
	assert.Equal(t, 1, s.Len())

	got[0] = 'X'
	again, _, _ := s.Read(ctx, id)
	assert.Equal(t, []byte("two"), again)

	require.NoError(t, s.Delete(ctx, id))
	require.NoError(t, s.Delete(ctx, id))
	assert.Zero(t, s.Len())
}
