// Package factory builds the adapters selected by config.
package factory

import (
	"context"
	"fmt"
	"io"

	"github.com/PabloGalante/spiralite/internal/adapters/llm"
	firestorestore "github.com/PabloGalante/spiralite/internal/adapters/storage/firestore"
	filestore "github.com/PabloGalante/spiralite/internal/adapters/storage/file"
	memstore "github.com/PabloGalante/spiralite/internal/adapters/storage/memory"
	sqlitestore "github.com/PabloGalante/spiralite/internal/adapters/storage/sqlite"
	"github.com/PabloGalante/spiralite/internal/app/interpret"
	"github.com/PabloGalante/spiralite/internal/app/journal"
	"github.com/PabloGalante/spiralite/internal/config"
	"github.com/PabloGalante/spiralite/internal/domain"
	"github.com/PabloGalante/spiralite/internal/observability"
)

// NewCompleter creates the completion backend named by cfg.LLMBackend.
func NewCompleter(ctx context.Context, cfg *config.Config) (domain.Completer, error) {
	log := observability.WithFields("component", "factory", "llm_backend", cfg.LLMBackend)

	switch cfg.LLMBackend {
	case config.LLMMock:
		log.Info("using mock completer")
		return llm.NewMockClient(), nil
	case config.LLMToolkit:
		log.Info("using toolkit completer", "url", cfg.CompletionURL)
		return llm.NewToolkitClient(cfg.CompletionURL, cfg.CompletionTimeout), nil
	case config.LLMOpenAI:
		log.Info("using openai completer", "model", cfg.OpenAIModel)
		return llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	case config.LLMVertex:
		log.Info("using vertex completer", "project", cfg.GCPProjectID, "model", cfg.ModelName)
		return llm.NewVertexClient(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.ModelName)
	default:
		return nil, fmt.Errorf("unsupported llm backend: %s", cfg.LLMBackend)
	}
}

// NewSnapshotStore creates the persistence backend named by
// cfg.StorageBackend. The returned closer releases its connections.
func NewSnapshotStore(ctx context.Context, cfg *config.Config) (domain.SnapshotStore, io.Closer, error) {
	log := observability.WithFields("component", "factory", "storage_backend", cfg.StorageBackend)

	switch cfg.StorageBackend {
	case config.StorageMemory:
		log.Info("using in-memory storage")
		return memstore.NewSnapshotStore(), nopCloser{}, nil

	case config.StorageFile:
		s, err := filestore.NewSnapshotStore(cfg.DataDir, cfg.Namespace)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using file storage", "path", s.Path())
		return s, nopCloser{}, nil

	case config.StorageSQLite:
		s, err := sqlitestore.NewKVStore(ctx, cfg.SQLitePath, cfg.Namespace)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using sqlite storage", "path", cfg.SQLitePath)
		return s, s, nil

	case config.StorageFirestore:
		s, err := firestorestore.NewStore(ctx, cfg.GCPProjectID, cfg.Namespace)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using firestore storage", "project", cfg.GCPProjectID)
		return s, s, nil

	default:
		return nil, nil, fmt.Errorf("unsupported storage backend: %s", cfg.StorageBackend)
	}
}

// NewParser creates the response parser, loading classifier rules from
// cfg.ClassifierRules when set.
func NewParser(cfg *config.Config) (*interpret.Parser, error) {
	opts := []interpret.Option{interpret.WithMinRecoveredLength(cfg.MinRecoveredLength)}

	if cfg.ClassifierRules != "" {
		c, err := interpret.LoadRules(cfg.ClassifierRules)
		if err != nil {
			return nil, err
		}
		observability.Logger().Info("loaded classifier rules",
			"path", cfg.ClassifierRules,
			"rules", len(c.Rules()),
		)
		opts = append(opts, interpret.WithClassifier(c))
	}

	return interpret.NewParser(opts...), nil
}

// Journal bundles the wired service with the resources to release.
type Journal struct {
	Service *journal.Service
	closer  io.Closer
}

func (j *Journal) Close() error {
	return j.closer.Close()
}

// NewJournal wires completer, parser and store into a journal service.
func NewJournal(ctx context.Context, cfg *config.Config) (*Journal, error) {
	completer, err := NewCompleter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("completer: %w", err)
	}

	parser, err := NewParser(cfg)
	if err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}

	backend, closer, err := NewSnapshotStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	store, err := journal.NewStore(ctx, backend)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	return &Journal{
		Service: journal.NewService(completer, store, parser),
		closer:  closer,
	}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
