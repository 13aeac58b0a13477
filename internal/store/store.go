package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// DefaultBusyTimeout bounds the wait on a locked result file.
const DefaultBusyTimeout = 5 * time.Second

// Options configures a connection.
type Options struct {
	// BusyTimeout is applied once at open. Zero means DefaultBusyTimeout.
	BusyTimeout time.Duration

	// Logger receives index and schema diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.BusyTimeout <= 0 {
		o.BusyTimeout = DefaultBusyTimeout
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Store is an open result file.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
	calls  atomic.Int64

	// inputs remembers the placeholder count of each SQL text.
	inputs sync.Map
}

// Open opens an existing result file. A missing file is connection-fatal;
// Open never creates one.
func Open(ctx context.Context, path string, opts Options) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, connectionError("open", path, err)
	}
	return open(ctx, path, opts.withDefaults())
}

// Create opens path for writing, creating the file and its schema when it
// does not exist yet. created reports whether the schema was applied.
func Create(ctx context.Context, path string, opts Options) (s *Store, created bool, err error) {
	_, statErr := os.Stat(path)
	switch {
	case errors.Is(statErr, fs.ErrNotExist):
		created = true
	case statErr != nil:
		return nil, false, connectionError("create", path, statErr)
	}

	s, err = open(ctx, path, opts.withDefaults())
	if err != nil {
		return nil, false, err
	}
	if created {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			s.Close()
			return nil, false, connectionError("apply schema", path, err)
		}
		s.logger.Debug("created result file schema", "path", path)
	}
	return s, created, nil
}

func open(ctx context.Context, path string, opts Options) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, connectionError("open", path, err)
	}

	// One connection: a transaction-scoped Statement pins it, and SQLite
	// allows a single writer anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, connectionError("connect", path, err)
	}

	if err := applyPragmas(ctx, db, opts); err != nil {
		db.Close()
		return nil, connectionError("apply pragmas", path, err)
	}

	// A file that is not SQLite opens fine and fails on first read.
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master").Scan(&n); err != nil {
		db.Close()
		return nil, connectionError("read schema", path, err)
	}

	return &Store{db: db, path: path, logger: opts.Logger}, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(ctx context.Context, db *sql.DB, opts Options) error {
	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout = %d", opts.BusyTimeout.Milliseconds()),
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB. The pool holds a single connection, so
// callers must not hold rows open across Statement calls.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the result file path.
func (s *Store) Path() string {
	return s.path
}

// Logger returns the logger the store was opened with.
func (s *Store) Logger() *slog.Logger {
	return s.logger
}

// Calls returns how many statement executions this store has issued.
func (s *Store) Calls() int64 {
	return s.calls.Load()
}

// HasTable reports whether a table or view with the given name exists.
func (s *Store) HasTable(ctx context.Context, name string) (bool, error) {
	const query = "SELECT COUNT(*) FROM sqlite_master WHERE type IN ('table', 'view') AND name = ? COLLATE NOCASE"
	var n int
	if err := s.db.QueryRowContext(ctx, query, name).Scan(&n); err != nil {
		return false, statementError("has table", query, err)
	}
	return n > 0, nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
