package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store is an append-only journal of dispatched actions backed by SQLite.
type Store struct {
	db        *sql.DB
	clock     Clock
	sessionID string
}

// Option configures a Store at Open.
type Option func(*Store)

// WithClock replaces the clock that resumes from the journal.
func WithClock(c Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// WithSessionID fixes the session ID instead of generating a UUIDv7.
func WithSessionID(id string) Option {
	return func(s *Store) {
		s.sessionID = id
	}
}

// Open creates or opens the journal at path and starts a new session.
// Without WithClock the clock resumes after the highest recorded seq.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	for _, opt := range opts {
		opt(s)
	}
	if s.sessionID == "" {
		s.sessionID = uuid.Must(uuid.NewV7()).String()
	}

	last, err := s.lastSeq()
	if err != nil {
		db.Close()
		return nil, err
	}
	if s.clock == nil {
		s.clock = NewClockAt(last)
	}
	if _, err := db.Exec(`
		INSERT INTO sessions (id, start_seq) VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, s.sessionID, last); err != nil {
		db.Close()
		return nil, fmt.Errorf("start session: %w", err)
	}

	slog.Debug("journal opened", "path", path, "session", s.sessionID, "last_seq", last)
	return s, nil
}

// openDB connects to SQLite with a single connection, then applies
// pragmas, schema and migrations.
func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One writer at a time; a second connection would also see a
	// different :memory: database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SessionID returns the ID stamped on every record written by s.
func (s *Store) SessionID() string {
	return s.sessionID
}

func (s *Store) lastSeq() (int64, error) {
	var last int64
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(seq), 0) FROM actions`).Scan(&last); err != nil {
		return 0, fmt.Errorf("read last seq: %w", err)
	}
	return last, nil
}

var pragmas = []struct{ name, value string }{
	{"journal_mode", "WAL"},
	{"synchronous", "NORMAL"},
	{"busy_timeout", "5000"},
	{"foreign_keys", "ON"},
}

func applyPragmas(db *sql.DB) error {
	for _, p := range pragmas {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)); err != nil {
			return fmt.Errorf("pragma %s: %w", p.name, err)
		}
	}
	return nil
}

// applySchema is idempotent: the schema uses IF NOT EXISTS and
// migrations are gated on user_version.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// migrations[i] upgrades a journal from user_version i to i+1.
var migrations = []func(*sql.DB) error{
	// v1: type index for RecordsOfType
	func(db *sql.DB) error {
		_, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_actions_type ON actions(type, seq)`)
		return err
	},
}

var currentSchemaVersion = len(migrations)

func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	for v := version; v < len(migrations); v++ {
		if err := migrations[v](db); err != nil {
			return fmt.Errorf("migrate to v%d: %w", v+1, err)
		}
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// schemaVersion returns PRAGMA user_version. Used for testing.
func (s *Store) schemaVersion() (int, error) {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	return version, err
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
