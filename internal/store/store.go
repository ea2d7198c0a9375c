package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

var (
	// ErrMatchNotFound is returned when no match has the requested id.
	ErrMatchNotFound = errors.New("match not found")

	// ErrMatchExists is returned when creating a match whose id is taken.
	ErrMatchExists = errors.New("match already exists")

	// ErrNoEvents is returned when truncating an empty journal.
	ErrNoEvents = errors.New("no events to delete")

	// ErrSchemaTooNew is returned when a journal was written by a build
	// with later migrations than this one knows.
	ErrSchemaTooNew = errors.New("journal schema is newer than this build")
)

const defaultBusyTimeout = 5 * time.Second

// migration upgrades the journal by one schema version. schema.sql holds
// the version 0 tables; migrations build on it in order.
type migration struct {
	version int
	stmt    string
}

var migrations = []migration{
	// Innings and wicket counts can be read without decoding payloads.
	{1, `CREATE INDEX IF NOT EXISTS idx_events_match_kind ON events(match_id, kind)`},
}

func latestVersion() int {
	return migrations[len(migrations)-1].version
}

// Store is the durable scoring journal: one row per match setup and one
// per accepted event, ordered by seq.
//
// All access goes through a single connection, so writes are serialized
// and every statement sees the connection's pragmas.
type Store struct {
	db *sql.DB
}

// Option configures Open.
type Option func(*options)

type options struct {
	busyTimeout time.Duration
}

// WithBusyTimeout sets how long a statement waits on a database locked by
// another process before failing. Non-positive values keep the default of
// five seconds.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.busyTimeout = d
		}
	}
}

// Open opens the journal at path, creating it if needed, and migrates it
// to the latest schema. Opening an up-to-date journal changes nothing.
func Open(path string, opts ...Option) (*Store, error) {
	o := options{busyTimeout: defaultBusyTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := prepare(db, o); err != nil {
		db.Close()
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func prepare(db *sql.DB, o options) error {
	pragmas := []struct {
		name  string
		value any
	}{
		{"journal_mode", "WAL"},
		{"synchronous", "NORMAL"},
		{"busy_timeout", o.busyTimeout.Milliseconds()},
		// Deleting a match cascades to its events.
		{"foreign_keys", "ON"},
	}
	for _, p := range pragmas {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA %s = %v", p.name, p.value)); err != nil {
			return fmt.Errorf("pragma %s: %w", p.name, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return migrate(db)
}

// migrate applies every migration above the journal's user_version, each
// in its own transaction together with the version bump.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > latestVersion() {
		return fmt.Errorf("%w: journal is v%d, this build reads up to v%d",
			ErrSchemaTooNew, version, latestVersion())
	}

	for _, m := range migrations {
		if m.version <= version {
			continue
		}
		if err := applyMigration(db, m); err != nil {
			return fmt.Errorf("migrate to v%d: %w", m.version, err)
		}
	}
	return nil
}

func applyMigration(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.stmt); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
		return err
	}
	return tx.Commit()
}
