package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/eventra-io/eventra/internal/entity"
)

const eventCols = "id, client_id, venue_id, space_id, name, type, date, guest_count, budget, status, created_at"

// CreateEvent inserts a new event and returns it with a generated id.
func (s *Store) CreateEvent(ctx context.Context, ev *entity.Event) (*entity.Event, error) {
	out := *ev
	out.ID = newID("evt")
	out.CreatedAt = time.Now().UTC()
	if out.Status == "" {
		out.Status = entity.EventStatusPlanning
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, client_id, venue_id, space_id, name, type, date, guest_count, budget, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		out.ID, out.ClientID, out.VenueID, out.SpaceID, out.Name, out.Type,
		out.Date.UTC(), out.GuestCount, out.Budget, out.Status, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetEvent returns the event by id, excluding soft-deleted rows.
func (s *Store) GetEvent(ctx context.Context, id string) (*entity.Event, error) {
	ctx, span := tracer.Start(ctx, "store.get_event",
		trace.WithAttributes(attribute.String("event.id", id)))
	defer span.End()

	row := s.db.QueryRowContext(ctx,
		"SELECT "+eventCols+" FROM events WHERE id = ? AND deleted_at IS NULL", id)
	return scanEvent(row)
}

// ListEventsByVenue returns all live events hosted by the venue,
// soonest first.
func (s *Store) ListEventsByVenue(ctx context.Context, venueID string) ([]entity.Event, error) {
	return s.queryEvents(ctx,
		"SELECT "+eventCols+" FROM events WHERE venue_id = ? AND deleted_at IS NULL ORDER BY date ASC", venueID)
}

// ListEventsByIDs returns the live events among the given ids. Order
// follows event date; ids with no live row are silently absent.
func (s *Store) ListEventsByIDs(ctx context.Context, ids []string) ([]entity.Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return s.queryEvents(ctx,
		"SELECT "+eventCols+" FROM events WHERE id IN ("+placeholders+") AND deleted_at IS NULL ORDER BY date ASC",
		args...)
}

// UpdateEventStatus flips the event's status. The venue ownership
// predicate is part of the statement; zero rows affected yields
// ErrNotFound.
func (s *Store) UpdateEventStatus(ctx context.Context, eventID, venueID, status string) (*entity.Event, error) {
	err := s.execGuarded(ctx,
		"UPDATE events SET status = ? WHERE id = ? AND venue_id = ? AND deleted_at IS NULL",
		status, eventID, venueID)
	if err != nil {
		return nil, err
	}
	return s.GetEvent(ctx, eventID)
}

func (s *Store) queryEvents(ctx context.Context, query string, args ...interface{}) ([]entity.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Event
	for rows.Next() {
		var ev entity.Event
		if err := rows.Scan(&ev.ID, &ev.ClientID, &ev.VenueID, &ev.SpaceID, &ev.Name, &ev.Type,
			&ev.Date, &ev.GuestCount, &ev.Budget, &ev.Status, &ev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func scanEvent(row *sql.Row) (*entity.Event, error) {
	var ev entity.Event
	err := row.Scan(&ev.ID, &ev.ClientID, &ev.VenueID, &ev.SpaceID, &ev.Name, &ev.Type,
		&ev.Date, &ev.GuestCount, &ev.Budget, &ev.Status, &ev.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}
