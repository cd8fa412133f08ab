package store

import (
	"context"
	"time"

	"github.com/eventra-io/eventra/internal/entity"
)

// maxActionHistory caps how many history lines any scope reads.
const maxActionHistory = 50

// RecordAction appends an action-history line for an event. History is
// append-only and never soft-deleted.
func (s *Store) RecordAction(ctx context.Context, a *entity.ActionRecord) error {
	id := newID("act")
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO action_records (id, event_id, actor_id, actor_role, action_type, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, a.EventID, a.ActorID, a.ActorRole, a.ActionType, a.Description, time.Now().UTC())
	return err
}

// ListRecentActionsByEvent returns up to limit (capped at 50) most
// recent history lines for one event, newest first.
func (s *Store) ListRecentActionsByEvent(ctx context.Context, eventID string, limit int) ([]entity.ActionRecord, error) {
	return s.queryActions(ctx, `
		SELECT id, event_id, actor_id, actor_role, action_type, description, created_at
		FROM action_records WHERE event_id = ? ORDER BY created_at DESC LIMIT ?`,
		eventID, clampHistory(limit))
}

// ListRecentActionsByVenue returns up to limit (capped at 50) most
// recent history lines across all of a venue's events, newest first.
func (s *Store) ListRecentActionsByVenue(ctx context.Context, venueID string, limit int) ([]entity.ActionRecord, error) {
	return s.queryActions(ctx, `
		SELECT a.id, a.event_id, a.actor_id, a.actor_role, a.action_type, a.description, a.created_at
		FROM action_records a
		JOIN events e ON e.id = a.event_id
		WHERE e.venue_id = ? ORDER BY a.created_at DESC LIMIT ?`,
		venueID, clampHistory(limit))
}

func clampHistory(limit int) int {
	if limit <= 0 || limit > maxActionHistory {
		return maxActionHistory
	}
	return limit
}

func (s *Store) queryActions(ctx context.Context, query string, args ...interface{}) ([]entity.ActionRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.ActionRecord
	for rows.Next() {
		var a entity.ActionRecord
		if err := rows.Scan(&a.ID, &a.EventID, &a.ActorID, &a.ActorRole, &a.ActionType,
			&a.Description, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
