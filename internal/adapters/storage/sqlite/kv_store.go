package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/PabloGalante/spiralite/internal/adapters/storage"
	"github.com/PabloGalante/spiralite/internal/domain"
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	namespace  TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// Open opens (or creates) a SQLite database at path with WAL journaling.
func Open(path string) (*sql.DB, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// KVStore keeps the encoded snapshot as one row of the kv table.
type KVStore struct {
	db        *sql.DB
	namespace string
}

// NewKVStore opens path and creates the kv table if needed.
func NewKVStore(ctx context.Context, path, namespace string) (*KVStore, error) {
	db, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open %s: %w", path, err)
	}
	s, err := NewKVStoreWithDB(ctx, db, namespace)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewKVStoreWithDB wires an existing connection.
func NewKVStoreWithDB(ctx context.Context, db *sql.DB, namespace string) (*KVStore, error) {
	if namespace == "" {
		namespace = storage.DefaultNamespace
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("sqlite create kv table: %w", err)
	}
	return &KVStore{db: db, namespace: namespace}, nil
}

func (s *KVStore) Load(ctx context.Context) (domain.Snapshot, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE namespace = ?`, s.namespace).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Snapshot{}, nil
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("sqlite load %s: %w", s.namespace, err)
	}
	return storage.Decode([]byte(value))
}

func (s *KVStore) Save(ctx context.Context, snap domain.Snapshot) error {
	b, err := storage.Encode(snap)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO kv (namespace, value, updated_at) VALUES (?,?,?)
		ON CONFLICT(namespace) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.namespace, string(b), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("sqlite save %s: %w", s.namespace, err)
	}
	return nil
}

// HealthCheck pings the database.
func (s *KVStore) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *KVStore) Close() error {
	return s.db.Close()
}
