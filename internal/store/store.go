// Package store implements the entity accessors over SQLite. It is the
// subsystem's only writer: scope builders and tool handlers receive a
// *Store explicitly (never a package-level handle) so tests can
// substitute a temp-file database.
//
// All reads and writes are soft-delete aware: rows with deleted_at set
// are invisible to Get/List. Mutations that enforce ownership embed the
// ownership predicate in the statement's WHERE clause, so the check and
// the write are a single atomic statement.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	eventraotel "github.com/eventra-io/eventra/internal/otel"
)

var tracer = eventraotel.Tracer("github.com/eventra-io/eventra/internal/store")

// ErrNotFound is returned when a row does not exist, is soft-deleted,
// or a guarded mutation matched zero rows.
var ErrNotFound = errors.New("record not found")

const schema = `
CREATE TABLE IF NOT EXISTS clients (
    id TEXT PRIMARY KEY,
    venue_id TEXT NOT NULL,
    name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL,
    deleted_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS venues (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    address TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL,
    deleted_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS vendors (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL,
    deleted_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS venue_vendors (
    id TEXT PRIMARY KEY,
    venue_id TEXT NOT NULL,
    vendor_id TEXT NOT NULL,
    approval_status TEXT NOT NULL DEFAULT 'pending',
    created_at TIMESTAMP NOT NULL,
    deleted_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS spaces (
    id TEXT PRIMARY KEY,
    venue_id TEXT NOT NULL,
    name TEXT NOT NULL,
    capacity INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    deleted_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    client_id TEXT NOT NULL,
    venue_id TEXT NOT NULL,
    space_id TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL,
    type TEXT NOT NULL DEFAULT '',
    date TIMESTAMP NOT NULL,
    guest_count INTEGER NOT NULL DEFAULT 0,
    budget REAL NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'planning',
    created_at TIMESTAMP NOT NULL,
    deleted_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS elements (
    id TEXT PRIMARY KEY,
    venue_id TEXT NOT NULL,
    vendor_id TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    price REAL NOT NULL DEFAULT 0,
    lead_time_days INTEGER NOT NULL DEFAULT 0,
    available INTEGER NOT NULL DEFAULT 1,
    blackout_dates TEXT NOT NULL DEFAULT '[]',
    created_at TIMESTAMP NOT NULL,
    deleted_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS event_elements (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL,
    element_id TEXT NOT NULL,
    vendor_id TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL,
    amount REAL NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'pending',
    notes TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL,
    deleted_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS guests (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL,
    name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    rsvp_status TEXT NOT NULL DEFAULT 'pending',
    plus_ones INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    deleted_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tasks (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL,
    venue_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    assignee_role TEXT NOT NULL,
    vendor_id TEXT NOT NULL DEFAULT '',
    due_date TIMESTAMP,
    status TEXT NOT NULL DEFAULT 'open',
    form_schema TEXT NOT NULL DEFAULT '',
    response TEXT NOT NULL DEFAULT '',
    completed_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL,
    deleted_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL DEFAULT '',
    sender_id TEXT NOT NULL,
    sender_role TEXT NOT NULL,
    recipient_id TEXT NOT NULL,
    recipient_role TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    deleted_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS action_records (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL,
    actor_id TEXT NOT NULL,
    actor_role TEXT NOT NULL,
    action_type TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_client ON events(client_id);
CREATE INDEX IF NOT EXISTS idx_events_venue ON events(venue_id);
CREATE INDEX IF NOT EXISTS idx_elements_venue ON elements(venue_id);
CREATE INDEX IF NOT EXISTS idx_elements_vendor ON elements(vendor_id);
CREATE INDEX IF NOT EXISTS idx_event_elements_event ON event_elements(event_id);
CREATE INDEX IF NOT EXISTS idx_guests_event ON guests(event_id);
CREATE INDEX IF NOT EXISTS idx_tasks_event ON tasks(event_id);
CREATE INDEX IF NOT EXISTS idx_tasks_venue ON tasks(venue_id);
CREATE INDEX IF NOT EXISTS idx_tasks_vendor ON tasks(vendor_id);
CREATE INDEX IF NOT EXISTS idx_messages_event ON messages(event_id);
CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender_id);
CREATE INDEX IF NOT EXISTS idx_messages_recipient ON messages(recipient_id);
CREATE INDEX IF NOT EXISTS idx_actions_event ON action_records(event_id);
CREATE INDEX IF NOT EXISTS idx_venue_vendors_venue ON venue_vendors(venue_id);
`

// Store is the SQLite-backed entity accessor set.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at dbPath and applies
// the schema. Busy timeout keeps concurrent request handlers from
// surfacing spurious SQLITE_BUSY errors.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_journal_mode=WAL&_fk=1")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// newID returns a prefixed opaque id, e.g. "evt_1b9d6bcd...".
func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// execGuarded runs a mutation that embeds an ownership predicate and
// converts "zero rows affected" into ErrNotFound. Callers that need to
// distinguish not-found from unauthorized must read first; the guard is
// the atomic backstop, not the primary check.
func (s *Store) execGuarded(ctx context.Context, query string, args ...interface{}) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
