package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/eventra-io/eventra/internal/entity"
)

const elementCols = "id, venue_id, vendor_id, name, description, category, price, lead_time_days, available, blackout_dates, created_at"

// CreateElement inserts a catalogue offering. Blackout dates are stored
// as a JSON array of YYYY-MM-DD strings.
func (s *Store) CreateElement(ctx context.Context, el *entity.Element) (*entity.Element, error) {
	out := *el
	out.ID = newID("elm")
	out.CreatedAt = time.Now().UTC()
	blackouts, err := json.Marshal(out.BlackoutDates)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO elements (id, venue_id, vendor_id, name, description, category, price, lead_time_days, available, blackout_dates, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		out.ID, out.VenueID, out.VendorID, out.Name, out.Description, out.Category,
		out.Price, out.LeadTimeDays, out.Available, string(blackouts), out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetElement returns the offering by id, excluding soft-deleted rows.
func (s *Store) GetElement(ctx context.Context, id string) (*entity.Element, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+elementCols+" FROM elements WHERE id = ? AND deleted_at IS NULL", id)
	el, err := scanElementRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return el, nil
}

// ListElementsByVenue returns the venue's full live offering catalogue.
func (s *Store) ListElementsByVenue(ctx context.Context, venueID string) ([]entity.Element, error) {
	return s.queryElements(ctx,
		"SELECT "+elementCols+" FROM elements WHERE venue_id = ? AND deleted_at IS NULL ORDER BY category, name", venueID)
}

// ListElementsByVendor returns only the vendor's own live offerings.
func (s *Store) ListElementsByVendor(ctx context.Context, vendorID string) ([]entity.Element, error) {
	return s.queryElements(ctx,
		"SELECT "+elementCols+" FROM elements WHERE vendor_id = ? AND deleted_at IS NULL ORDER BY category, name", vendorID)
}

// ElementUpdate carries the optional fields of a vendor's offering
// update. Nil fields are left unchanged.
type ElementUpdate struct {
	Description *string
	Price       *float64
	Available   *bool
}

// UpdateElementOffering applies a partial update to an offering. The
// vendor ownership predicate is part of the statement.
func (s *Store) UpdateElementOffering(ctx context.Context, elementID, vendorID string, upd ElementUpdate) (*entity.Element, error) {
	set := "id = id"
	args := []interface{}{}
	if upd.Description != nil {
		set += ", description = ?"
		args = append(args, *upd.Description)
	}
	if upd.Price != nil {
		set += ", price = ?"
		args = append(args, *upd.Price)
	}
	if upd.Available != nil {
		set += ", available = ?"
		args = append(args, *upd.Available)
	}
	args = append(args, elementID, vendorID)
	err := s.execGuarded(ctx,
		"UPDATE elements SET "+set+" WHERE id = ? AND vendor_id = ? AND deleted_at IS NULL", args...)
	if err != nil {
		return nil, err
	}
	return s.GetElement(ctx, elementID)
}

func (s *Store) queryElements(ctx context.Context, query string, args ...interface{}) ([]entity.Element, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Element
	for rows.Next() {
		el, err := scanElementRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *el)
	}
	return out, rows.Err()
}

func scanElementRow(scan func(...interface{}) error) (*entity.Element, error) {
	var el entity.Element
	var blackouts string
	if err := scan(&el.ID, &el.VenueID, &el.VendorID, &el.Name, &el.Description, &el.Category,
		&el.Price, &el.LeadTimeDays, &el.Available, &blackouts, &el.CreatedAt); err != nil {
		return nil, err
	}
	if blackouts != "" && blackouts != "[]" {
		if err := json.Unmarshal([]byte(blackouts), &el.BlackoutDates); err != nil {
			// Tolerate a malformed column rather than failing the read.
			el.BlackoutDates = nil
		}
	}
	return &el, nil
}

const eventElementCols = "id, event_id, element_id, vendor_id, name, amount, status, notes, created_at"

// CreateEventElement attaches an element to an event. Amount is the
// element's listed price captured by the caller at attach time.
func (s *Store) CreateEventElement(ctx context.Context, ee *entity.EventElement) (*entity.EventElement, error) {
	out := *ee
	out.ID = newID("eel")
	out.CreatedAt = time.Now().UTC()
	if out.Status == "" {
		out.Status = entity.EventElementPending
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO event_elements (id, event_id, element_id, vendor_id, name, amount, status, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		out.ID, out.EventID, out.ElementID, out.VendorID, out.Name, out.Amount, out.Status, out.Notes, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetEventElement returns the event-element by id, excluding
// soft-deleted rows.
func (s *Store) GetEventElement(ctx context.Context, id string) (*entity.EventElement, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+eventElementCols+" FROM event_elements WHERE id = ? AND deleted_at IS NULL", id)
	var ee entity.EventElement
	err := row.Scan(&ee.ID, &ee.EventID, &ee.ElementID, &ee.VendorID, &ee.Name, &ee.Amount,
		&ee.Status, &ee.Notes, &ee.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ee, nil
}

// ListEventElements returns the live elements attached to an event.
func (s *Store) ListEventElements(ctx context.Context, eventID string) ([]entity.EventElement, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+eventElementCols+" FROM event_elements WHERE event_id = ? AND deleted_at IS NULL ORDER BY created_at ASC", eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.EventElement
	for rows.Next() {
		var ee entity.EventElement
		if err := rows.Scan(&ee.ID, &ee.EventID, &ee.ElementID, &ee.VendorID, &ee.Name, &ee.Amount,
			&ee.Status, &ee.Notes, &ee.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ee)
	}
	return out, rows.Err()
}

// ListEventElementsByElement returns the live attachments of one
// catalogue element across events.
func (s *Store) ListEventElementsByElement(ctx context.Context, elementID string) ([]entity.EventElement, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+eventElementCols+" FROM event_elements WHERE element_id = ? AND deleted_at IS NULL ORDER BY created_at ASC", elementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.EventElement
	for rows.Next() {
		var ee entity.EventElement
		if err := rows.Scan(&ee.ID, &ee.EventID, &ee.ElementID, &ee.VendorID, &ee.Name, &ee.Amount,
			&ee.Status, &ee.Notes, &ee.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ee)
	}
	return out, rows.Err()
}

// RemoveEventElement soft-deletes an attachment. The parent-event
// predicate is part of the statement.
func (s *Store) RemoveEventElement(ctx context.Context, id, eventID string) error {
	return s.execGuarded(ctx,
		"UPDATE event_elements SET deleted_at = ? WHERE id = ? AND event_id = ? AND deleted_at IS NULL",
		time.Now().UTC(), id, eventID)
}
