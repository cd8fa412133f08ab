package store

import (
	"context"
	"time"

	"github.com/eventra-io/eventra/internal/entity"
)

const messageCols = "id, event_id, sender_id, sender_role, recipient_id, recipient_role, content, created_at"

// CreateMessage appends a message to a thread.
func (s *Store) CreateMessage(ctx context.Context, m *entity.Message) (*entity.Message, error) {
	out := *m
	out.ID = newID("msg")
	out.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, event_id, sender_id, sender_role, recipient_id, recipient_role, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		out.ID, out.EventID, out.SenderID, out.SenderRole, out.RecipientID, out.RecipientRole,
		out.Content, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMessagesByEvent returns the event's live message thread in order.
func (s *Store) ListMessagesByEvent(ctx context.Context, eventID string) ([]entity.Message, error) {
	return s.queryMessages(ctx,
		"SELECT "+messageCols+" FROM messages WHERE event_id = ? AND deleted_at IS NULL ORDER BY created_at ASC", eventID)
}

// ListMessagesByParticipant returns live messages sent to or from the
// actor, newest first.
func (s *Store) ListMessagesByParticipant(ctx context.Context, actorID string) ([]entity.Message, error) {
	return s.queryMessages(ctx,
		"SELECT "+messageCols+" FROM messages WHERE (sender_id = ? OR recipient_id = ?) AND deleted_at IS NULL ORDER BY created_at DESC",
		actorID, actorID)
}

func (s *Store) queryMessages(ctx context.Context, query string, args ...interface{}) ([]entity.Message, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Message
	for rows.Next() {
		var m entity.Message
		if err := rows.Scan(&m.ID, &m.EventID, &m.SenderID, &m.SenderRole, &m.RecipientID,
			&m.RecipientRole, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
