package store

import (
	"context"
	"time"
)

// softDeletedTables are the tables eligible for hard-delete sweeping.
// action_records is append-only and intentionally absent.
var softDeletedTables = []string{
	"clients", "venues", "vendors", "venue_vendors", "spaces",
	"events", "elements", "event_elements", "guests", "tasks", "messages",
}

// PurgeSoftDeleted hard-deletes rows soft-deleted more than
// retentionDays ago. Returns the total rows removed across tables.
func (s *Store) PurgeSoftDeleted(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)

	var total int64
	for _, table := range softDeletedTables {
		res, err := s.db.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE deleted_at IS NOT NULL AND deleted_at < ?", cutoff)
		if err != nil {
			return total, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
