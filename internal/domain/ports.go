package domain

import "context"

// ChatMessage is one entry of the payload sent to a completion backend.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Completer defines how the core application obtains a raw text completion.
// Implementations make a single attempt and return a *NetworkError on failure.
type Completer interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// SnapshotStore is the durable key-value backend of the dream journal.
// Load returns an empty snapshot (and no error) when nothing was saved yet.
type SnapshotStore interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}
