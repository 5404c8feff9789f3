package journal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/spiralite/internal/adapters/storage/memory"
	"github.com/PabloGalante/spiralite/internal/domain"
)

var base = time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)

func dreamAt(id string, minutes int, persona domain.PersonaID, typ domain.DreamType, text string) domain.Dream {
	return domain.Dream{
		ID:             domain.DreamID(id),
		Text:           text,
		Persona:        persona,
		DreamType:      typ,
		Interpretation: "interpretation of " + id,
		CreatedAt:      base.Add(time.Duration(minutes) * time.Minute),
	}
}

func ids(dreams []domain.Dream) []domain.DreamID {
	out := make([]domain.DreamID, len(dreams))
	for i, d := range dreams {
		out[i] = d.ID
	}
	return out
}

func newMemoryStore(t *testing.T, seed ...domain.Dream) (*Store, *memory.SnapshotStore) {
	t.Helper()
	backend := memory.NewSnapshotStoreWith(domain.Snapshot{Dreams: seed})
	store, err := NewStore(context.Background(), backend)
	require.NoError(t, err)
	return store, backend
}

// failingBackend loads fine and refuses every save.
type failingBackend struct {
	mu    sync.Mutex
	calls int
}

func (f *failingBackend) Load(ctx context.Context) (domain.Snapshot, error) {
	return domain.Snapshot{}, nil
}

func (f *failingBackend) Save(ctx context.Context, snap domain.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return errors.New("disk full")
}

// stubCompleter returns a canned reply or error and records the payload.
type stubCompleter struct {
	reply    string
	err      error
	calls    int
	messages []domain.ChatMessage
}

func (s *stubCompleter) Complete(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	s.calls++
	s.messages = messages
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}
