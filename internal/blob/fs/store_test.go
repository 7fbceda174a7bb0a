package fs

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Layout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := t.TempDir()
	s, err := New(root)
	require.NoError(t, err)

	id := uuid.New()
	require.NoError(t, s.Save(ctx, id, bytes.NewReader([]byte("png"))))

	b, err := os.ReadFile(filepath.Join(root, id.String(), "image.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), b)

	entries, err := os.ReadDir(filepath.Join(root, id.String()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestStore_OverwriteReadDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	id := uuid.New()

	_, ok, err := s.Read(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Save(ctx, id, bytes.NewReader([]byte("first"))))
	require.NoError(t, s.Save(ctx, id, bytes.NewReader([]byte("second"))))

	got, ok, err := s.Read(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("second"), got)

	require.NoError(t, s.Delete(ctx, id))
	_, ok, err = s.Read(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Delete(ctx, id))
	require.NoError(t, s.Ping(ctx))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestStore_SaveReaderError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	id := uuid.New()

	require.NoError(t, s.Save(ctx, id, bytes.NewReader([]byte("kept"))))
	err = s.Save(ctx, id, failingReader{})
	require.Error(t, err)

	got, ok, err := s.Read(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("kept"), got)
}
