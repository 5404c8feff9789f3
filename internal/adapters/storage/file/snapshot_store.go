package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/PabloGalante/spiralite/internal/adapters/storage"
	"github.com/PabloGalante/spiralite/internal/domain"
)

// SnapshotStore keeps the journal in <dir>/<namespace>.json. Writes go to a
// temporary file that is renamed over the target.
type SnapshotStore struct {
	mu   sync.Mutex
	path string
}

func NewSnapshotStore(dir, namespace string) (*SnapshotStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store: data dir is required")
	}
	if namespace == "" {
		namespace = storage.DefaultNamespace
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file store: mkdir %s: %w", dir, err)
	}
	return &SnapshotStore{path: filepath.Join(dir, namespace+".json")}, nil
}

// Path is the file backing the store.
func (s *SnapshotStore) Path() string {
	return s.path
}

func (s *SnapshotStore) Load(ctx context.Context) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Snapshot{}, nil
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("file store: read: %w", err)
	}
	return storage.Decode(b)
}

func (s *SnapshotStore) Save(ctx context.Context, snap domain.Snapshot) error {
	b, err := storage.Encode(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("file store: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file store: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file store: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("file store: rename: %w", err)
	}
	return nil
}
