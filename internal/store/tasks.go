package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/eventra-io/eventra/internal/entity"
)

const taskCols = "id, event_id, venue_id, title, description, assignee_role, vendor_id, due_date, status, form_schema, response, completed_at, created_at"

// CreateTask inserts a task attached to an event.
func (s *Store) CreateTask(ctx context.Context, t *entity.Task) (*entity.Task, error) {
	out := *t
	out.ID = newID("tsk")
	out.CreatedAt = time.Now().UTC()
	if out.Status == "" {
		out.Status = entity.TaskOpen
	}
	var due interface{}
	if out.DueDate != nil {
		due = out.DueDate.UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, event_id, venue_id, title, description, assignee_role, vendor_id, due_date, status, form_schema, response, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		out.ID, out.EventID, out.VenueID, out.Title, out.Description, out.AssigneeRole,
		out.VendorID, due, out.Status, out.FormSchema, out.Response, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTask returns the task by id, excluding soft-deleted rows.
func (s *Store) GetTask(ctx context.Context, id string) (*entity.Task, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+taskCols+" FROM tasks WHERE id = ? AND deleted_at IS NULL", id)
	t, err := scanTaskRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTasksByEvent returns the event's live tasks, oldest first.
func (s *Store) ListTasksByEvent(ctx context.Context, eventID string) ([]entity.Task, error) {
	return s.queryTasks(ctx,
		"SELECT "+taskCols+" FROM tasks WHERE event_id = ? AND deleted_at IS NULL ORDER BY created_at ASC", eventID)
}

// ListTasksByVenue returns all live tasks across the venue's events.
func (s *Store) ListTasksByVenue(ctx context.Context, venueID string) ([]entity.Task, error) {
	return s.queryTasks(ctx,
		"SELECT "+taskCols+" FROM tasks WHERE venue_id = ? AND deleted_at IS NULL ORDER BY created_at ASC", venueID)
}

// ListTasksByVendor returns only tasks assigned to the vendor.
func (s *Store) ListTasksByVendor(ctx context.Context, vendorID string) ([]entity.Task, error) {
	return s.queryTasks(ctx,
		"SELECT "+taskCols+" FROM tasks WHERE vendor_id = ? AND assignee_role = 'vendor' AND deleted_at IS NULL ORDER BY created_at ASC", vendorID)
}

// CompleteTaskForEvent marks a task completed, guarded by the parent
// event id (caller has verified event ownership).
func (s *Store) CompleteTaskForEvent(ctx context.Context, taskID, eventID, response string) (*entity.Task, error) {
	return s.completeTask(ctx, taskID, response, "event_id = ?", eventID)
}

// CompleteTaskForVenue marks a task completed, guarded by the owning
// venue id.
func (s *Store) CompleteTaskForVenue(ctx context.Context, taskID, venueID, response string) (*entity.Task, error) {
	return s.completeTask(ctx, taskID, response, "venue_id = ?", venueID)
}

// CompleteTaskForVendor marks a task completed, guarded by the assigned
// vendor id.
func (s *Store) CompleteTaskForVendor(ctx context.Context, taskID, vendorID, response string) (*entity.Task, error) {
	return s.completeTask(ctx, taskID, response, "vendor_id = ? AND assignee_role = 'vendor'", vendorID)
}

func (s *Store) completeTask(ctx context.Context, taskID, response, guard string, guardArgs ...interface{}) (*entity.Task, error) {
	now := time.Now().UTC()
	args := append([]interface{}{entity.TaskCompleted, response, now, taskID}, guardArgs...)
	err := s.execGuarded(ctx,
		"UPDATE tasks SET status = ?, response = ?, completed_at = ? WHERE id = ? AND "+guard+" AND deleted_at IS NULL",
		args...)
	if err != nil {
		return nil, err
	}
	return s.GetTask(ctx, taskID)
}

func (s *Store) queryTasks(ctx context.Context, query string, args ...interface{}) ([]entity.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Task
	for rows.Next() {
		t, err := scanTaskRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func scanTaskRow(scan func(...interface{}) error) (*entity.Task, error) {
	var t entity.Task
	var due, completed sql.NullTime
	if err := scan(&t.ID, &t.EventID, &t.VenueID, &t.Title, &t.Description, &t.AssigneeRole,
		&t.VendorID, &due, &t.Status, &t.FormSchema, &t.Response, &completed, &t.CreatedAt); err != nil {
		return nil, err
	}
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	if completed.Valid {
		c := completed.Time
		t.CompletedAt = &c
	}
	return &t, nil
}
