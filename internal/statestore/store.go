package statestore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"memekiosk/internal/logging"
	"memekiosk/internal/rotation"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store persists per-item display statuses for one queue, backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open initializes or connects to a status database. A database that cannot
// be read or carries an unexpected schema is discarded and recreated, so a
// damaged file costs prior statuses but never blocks startup.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure state directory: %w", err)
	}

	store, err := open(path, logger)
	if err == nil {
		return store, nil
	}

	logger.Warn("status database unreadable, starting fresh",
		logging.String(logging.FieldPath, path),
		logging.Error(err))
	for _, stale := range []string{path, path + "-wal", path + "-shm"} {
		_ = os.Remove(stale)
	}
	return open(path, logger)
}

func open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, logger: logger}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d", ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Load returns every persisted path with a recognized status. Rows whose
// status no longer parses are skipped rather than failing the load.
func (s *Store) Load(ctx context.Context) (map[string]rotation.Status, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT path, status FROM item_status")
	if err != nil {
		return nil, fmt.Errorf("query item statuses: %w", err)
	}
	defer rows.Close()

	statuses := make(map[string]rotation.Status)
	for rows.Next() {
		var path, raw string
		if err := rows.Scan(&path, &raw); err != nil {
			return nil, fmt.Errorf("scan item status: %w", err)
		}
		status, ok := rotation.ParseStatus(raw)
		if !ok {
			s.logger.Warn("skipping unknown persisted status",
				logging.String(logging.FieldPath, path),
				logging.String("status", raw))
			continue
		}
		statuses[path] = status
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item statuses: %w", err)
	}
	return statuses, nil
}

// Replace rewrites the full status table in one transaction.
func (s *Store) Replace(ctx context.Context, statuses map[string]rotation.Status) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM item_status"); err != nil {
		return fmt.Errorf("clear item statuses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO item_status (path, status) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare status insert: %w", err)
	}
	defer stmt.Close()

	for path, status := range statuses {
		if _, err := stmt.ExecContext(ctx, path, string(status)); err != nil {
			return fmt.Errorf("insert status for %q: %w", path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
