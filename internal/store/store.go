// Package store keeps practice sessions and their filler word counts in
// SQLite.
//
// Two drivers are supported and selected by name: "sqlite" is the pure Go
// modernc.org/sqlite driver and "sqlite3" is the cgo
// github.com/mattn/go-sqlite3 driver.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"highpitch/internal/logging"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

const (
	// DriverPure is the modernc.org/sqlite driver name.
	DriverPure = "sqlite"
	// DriverCgo is the github.com/mattn/go-sqlite3 driver name.
	DriverCgo = "sqlite3"
)

// ErrSessionNotFound is returned when a session id has no row.
var ErrSessionNotFound = errors.New("store: session not found")

// Store manages the session database.
type Store struct {
	db     *sql.DB
	dbPath string
	driver string
	mu     sync.RWMutex
}

// Open creates or opens the session database at path using driver.
func Open(ctx context.Context, driver, path string) (*Store, error) {
	dsn, err := dataSourceName(driver, path)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite serialises writers; one connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{
		db:     db,
		dbPath: path,
		driver: driver,
	}

	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	logging.Store("opened %s (driver=%s)", path, driver)
	return s, nil
}

func dataSourceName(driver, path string) (string, error) {
	switch driver {
	case DriverCgo:
		return path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", nil
	case DriverPure:
		return path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", nil
	default:
		return "", fmt.Errorf("unsupported sqlite driver %q", driver)
	}
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Driver returns the database/sql driver name in use.
func (s *Store) Driver() string {
	return s.driver
}

// initSchema creates the database schema.
func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	-- Practice sessions
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		started_at TEXT NOT NULL,
		total_fillers INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at);

	-- Per-word filler counts, one row per word per session
	CREATE TABLE IF NOT EXISTS filler_words (
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		word TEXT NOT NULL,
		count INTEGER NOT NULL,
		PRIMARY KEY (session_id, word)
	);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}
