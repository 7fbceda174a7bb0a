// Package fs implements a blob store on the local filesystem. Each object is
// written to <root>/<id>/image.png.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/devicehub/devicehub/internal/blob"
)

// Store writes objects below a root directory.
type Store struct {
	root string
}

var _ blob.Store = (*Store)(nil)

// New returns a filesystem-backed blob store rooted at root, creating it if
// needed.
func New(root string) (*Store, error) {
	if root == "" {
		root = "./data/images"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &Store{root: root}, nil
}

// Driver returns the blob driver identifier.
func (s *Store) Driver() blob.Driver { return blob.DriverFilesystem }

func (s *Store) dirFor(id uuid.UUID) string {
	return filepath.Join(s.root, id.String())
}

// Save streams r into a temp file and renames it over the previous object.
func (s *Store) Save(_ context.Context, id uuid.UUID, r io.Reader) error {
	dir := s.dirFor(id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create blob dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write blob %s: %w", id, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync blob %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close blob %s: %w", id, err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(dir, blob.ImageName)); err != nil {
		return fmt.Errorf("rename blob %s: %w", id, err)
	}
	return nil
}

// Read returns the object stored for id.
func (s *Store) Read(_ context.Context, id uuid.UUID) ([]byte, bool, error) {
	b, err := os.ReadFile(filepath.Join(s.dirFor(id), blob.ImageName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read blob %s: %w", id, err)
	}
	return b, true, nil
}

// Delete removes the whole directory of id.
func (s *Store) Delete(_ context.Context, id uuid.UUID) error {
	if err := os.RemoveAll(s.dirFor(id)); err != nil {
		return fmt.Errorf("delete blob %s: %w", id, err)
	}
	return nil
}

// Ping checks that the root directory is still accessible.
func (s *Store) Ping(context.Context) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("blob root %s is not a directory", s.root)
	}
	return nil
}
