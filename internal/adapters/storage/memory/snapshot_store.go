package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/PabloGalante/spiralite/internal/domain"
)

// SnapshotStore is an in-memory implementation of domain.SnapshotStore.
// It is NOT persistent and is only suitable for development / local mode.
type SnapshotStore struct {
	mu    sync.RWMutex
	snap  domain.Snapshot
	saves int
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// NewSnapshotStoreWith creates a store pre-seeded with snap.
func NewSnapshotStoreWith(snap domain.Snapshot) *SnapshotStore {
	s := &SnapshotStore{}
	s.snap = clone(snap)
	return s
}

func (s *SnapshotStore) Load(ctx context.Context) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.snap), nil
}

func (s *SnapshotStore) Save(ctx context.Context, snap domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = clone(snap)
	s.saves++
	return nil
}

// Saves reports how many times Save was called.
func (s *SnapshotStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

func clone(snap domain.Snapshot) domain.Snapshot {
	return domain.Snapshot{
		Dreams: slices.Clone(snap.Dreams),
		SortBy: snap.SortBy,
	}
}
