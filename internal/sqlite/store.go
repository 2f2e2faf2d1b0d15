// File path: internal/sqlite/store.go
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nicodishanthj/xcgen/internal/common"
)

// ErrIndexMissing is returned when the index file does not exist and the
// config does not allow creating it.
var ErrIndexMissing = errors.New("local index not found; run the index build first")

// ErrReadOnly is returned by writes on an index opened without CreateIfMissing.
var ErrReadOnly = errors.New("local index is opened read-only")

// Store wraps a pooled sqlx.DB connection to the local snippet index.
type Store struct {
	db       *sqlx.DB
	path     string
	readOnly bool
}

// Open constructs a Store backed by the SQLite database at the provided path.
// An empty path falls back to INDEX_PATH.
func Open(path string) (*Store, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		cfg.Path = trimmed
	}
	return OpenWithConfig(cfg)
}

// OpenWithConfig constructs a Store using the provided configuration. With
// CreateIfMissing the file is opened read-write in WAL mode and the schema is
// migrated; otherwise the existing index is opened read-only as built.
func OpenWithConfig(cfg Config) (*Store, error) {
	cfg.applyDefaults()
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve sqlite path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat sqlite path: %w", err)
		}
		if !cfg.CreateIfMissing {
			return nil, fmt.Errorf("%w: %s", ErrIndexMissing, abs)
		}
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return nil, fmt.Errorf("create index directory: %w", err)
		}
	}
	busy := int(cfg.BusyTimeout / time.Millisecond)
	if busy <= 0 {
		busy = 5000
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)", abs, busy)
	if cfg.CreateIfMissing {
		dsn += "&_pragma=journal_mode(WAL)"
	} else {
		dsn += "&mode=ro"
	}
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingTimeout := cfg.BusyTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	store := &Store{db: db, path: abs, readOnly: !cfg.CreateIfMissing}
	if !store.readOnly {
		if err := store.migrate(context.Background()); err != nil {
			db.Close()
			return nil, err
		}
	}
	common.Logger().Info("sqlite: index opened", "path", abs, "read_only", store.readOnly)
	return store, nil
}

func (s *Store) Name() string {
	return "sqlite"
}

// Path is the absolute location of the index file.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close releases the underlying database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	for i, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute schema statement %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}

// position preserves first-insertion order, which breaks score ties.
// Connection pragmas live in the DSN; only DDL runs in the migration.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS snippets (
                position INTEGER PRIMARY KEY AUTOINCREMENT,
                id TEXT NOT NULL UNIQUE,
                content TEXT NOT NULL,
                metadata TEXT,
                dimension INTEGER NOT NULL,
                embedding BLOB NOT NULL,
                created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
                updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
	`CREATE TABLE IF NOT EXISTS audit (
                id INTEGER PRIMARY KEY AUTOINCREMENT,
                action TEXT NOT NULL,
                detail TEXT,
                created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
	`CREATE INDEX IF NOT EXISTS idx_snippets_updated ON snippets(updated_at);`,
	`CREATE INDEX IF NOT EXISTS idx_audit_created ON audit(created_at);`,
}
