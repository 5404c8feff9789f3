package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/spiralite/internal/adapters/storage"
	"github.com/PabloGalante/spiralite/internal/domain"
)

const collection = "journals"

// Store keeps each namespace as one document of the journals collection.
type Store struct {
	client    *firestore.Client
	namespace string
}

// NewStore creates a Firestore store.
// Uses the project passed (SPIRALITE_GCP_PROJECT).
func NewStore(ctx context.Context, projectID, namespace string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return NewStoreWithClient(client, namespace), nil
}

// NewStoreWithClient wires an existing client (emulator or tests).
func NewStoreWithClient(client *firestore.Client, namespace string) *Store {
	if namespace == "" {
		namespace = storage.DefaultNamespace
	}
	return &Store{client: client, namespace: namespace}
}

func (s *Store) doc() *firestore.DocumentRef {
	return s.client.Collection(collection).Doc(s.namespace)
}

// journalDoc holds the encoded envelope so the stored bytes match the other
// backends.
type journalDoc struct {
	Value     string    `firestore:"value"`
	Dreams    int       `firestore:"dreams"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func (s *Store) Load(ctx context.Context) (domain.Snapshot, error) {
	snap, err := s.doc().Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.Snapshot{}, nil
		}
		return domain.Snapshot{}, fmt.Errorf("firestore Load: %w", err)
	}

	var doc journalDoc
	if err := snap.DataTo(&doc); err != nil {
		return domain.Snapshot{}, fmt.Errorf("firestore Load decode: %w", err)
	}

	return storage.Decode([]byte(doc.Value))
}

func (s *Store) Save(ctx context.Context, snap domain.Snapshot) error {
	b, err := storage.Encode(snap)
	if err != nil {
		return err
	}

	doc := journalDoc{
		Value:     string(b),
		Dreams:    len(snap.Dreams),
		UpdatedAt: time.Now().UTC(),
	}

	if _, err := s.doc().Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore Save: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
