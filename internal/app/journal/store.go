package journal

import (
	"context"
	"fmt"
	"sync"

	"github.com/PabloGalante/spiralite/internal/domain"
	"github.com/PabloGalante/spiralite/internal/observability"
)

// Store is the in-memory dream collection, newest first, with write-through
// persistence to a domain.SnapshotStore.
type Store struct {
	mu      sync.RWMutex
	dreams  []domain.Dream
	sortBy  domain.SortOption
	backend domain.SnapshotStore
}

// NewStore hydrates the collection from backend.
func NewStore(ctx context.Context, backend domain.SnapshotStore) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("journal store: backend is required")
	}

	snap, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("journal store: load: %w", err)
	}

	sortBy := snap.SortBy
	if _, ok := domain.ParseSortOption(string(sortBy)); !ok {
		sortBy = domain.SortDateDesc
	}

	observability.LoggerFromContext(ctx).Info("journal loaded",
		"dreams", len(snap.Dreams),
		"sort_by", sortBy,
	)

	return &Store{
		dreams:  snap.Dreams,
		sortBy:  sortBy,
		backend: backend,
	}, nil
}

// Add prepends dream to the collection.
func (s *Store) Add(ctx context.Context, dream domain.Dream) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dreams = append([]domain.Dream{dream}, s.dreams...)
	s.persistLocked(ctx)
}

// Delete removes the dream with id. Deleting an unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, id domain.DreamID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, d := range s.dreams {
		if d.ID == id {
			s.dreams = append(s.dreams[:i:i], s.dreams[i+1:]...)
			s.persistLocked(ctx)
			return
		}
	}
}

// Get returns the dream with id or domain.ErrDreamNotFound.
func (s *Store) Get(id domain.DreamID) (domain.Dream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.dreams {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.Dream{}, domain.ErrDreamNotFound
}

// All returns a copy of the collection in stored (newest first) order.
func (s *Store) All() []domain.Dream {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Dream, len(s.dreams))
	copy(out, s.dreams)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.dreams)
}

// SetSortBy stores the active sort selection alongside the dreams.
func (s *Store) SetSortBy(ctx context.Context, opt domain.SortOption) error {
	if _, ok := domain.ParseSortOption(string(opt)); !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownSortOption, opt)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sortBy = opt
	s.persistLocked(ctx)
	return nil
}

func (s *Store) SortBy() domain.SortOption {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortBy
}

// Sorted returns the collection in the active sort order.
func (s *Store) Sorted() []domain.Dream {
	return SortDreams(s.All(), s.SortBy())
}

// persistLocked writes the whole snapshot. Failures are logged and counted
// but not returned: the in-memory mutation stands.
func (s *Store) persistLocked(ctx context.Context) {
	snap := domain.Snapshot{
		Dreams: make([]domain.Dream, len(s.dreams)),
		SortBy: s.sortBy,
	}
	copy(snap.Dreams, s.dreams)

	if err := s.backend.Save(ctx, snap); err != nil {
		observability.RecordPersistFailure()
		observability.LoggerFromContext(ctx).Error("failed to persist journal",
			"error", err,
			"dreams", len(snap.Dreams),
		)
	}
}
