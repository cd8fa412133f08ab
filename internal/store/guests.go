package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/eventra-io/eventra/internal/entity"
)

const guestCols = "id, event_id, name, email, rsvp_status, plus_ones, created_at"

// CreateGuest adds a guest to an event's list.
func (s *Store) CreateGuest(ctx context.Context, g *entity.Guest) (*entity.Guest, error) {
	out := *g
	out.ID = newID("gst")
	out.CreatedAt = time.Now().UTC()
	if out.RSVPStatus == "" {
		out.RSVPStatus = entity.RSVPPending
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO guests (id, event_id, name, email, rsvp_status, plus_ones, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		out.ID, out.EventID, out.Name, out.Email, out.RSVPStatus, out.PlusOnes, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetGuest returns the guest by id, excluding soft-deleted rows.
func (s *Store) GetGuest(ctx context.Context, id string) (*entity.Guest, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+guestCols+" FROM guests WHERE id = ? AND deleted_at IS NULL", id)
	var g entity.Guest
	err := row.Scan(&g.ID, &g.EventID, &g.Name, &g.Email, &g.RSVPStatus, &g.PlusOnes, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGuestsByEvent returns the event's live guest list.
func (s *Store) ListGuestsByEvent(ctx context.Context, eventID string) ([]entity.Guest, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+guestCols+" FROM guests WHERE event_id = ? AND deleted_at IS NULL ORDER BY name", eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Guest
	for rows.Next() {
		var g entity.Guest
		if err := rows.Scan(&g.ID, &g.EventID, &g.Name, &g.Email, &g.RSVPStatus, &g.PlusOnes, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// UpdateGuestRSVP sets a guest's RSVP status. The parent-event
// predicate is part of the statement.
func (s *Store) UpdateGuestRSVP(ctx context.Context, guestID, eventID, status string) (*entity.Guest, error) {
	err := s.execGuarded(ctx,
		"UPDATE guests SET rsvp_status = ? WHERE id = ? AND event_id = ? AND deleted_at IS NULL",
		status, guestID, eventID)
	if err != nil {
		return nil, err
	}
	return s.GetGuest(ctx, guestID)
}
