package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/eventra-io/eventra/internal/entity"
)

// CreateClient inserts a client record.
func (s *Store) CreateClient(ctx context.Context, c *entity.Client) (*entity.Client, error) {
	out := *c
	out.ID = newID("cli")
	out.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO clients (id, venue_id, name, email, phone, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		out.ID, out.VenueID, out.Name, out.Email, out.Phone, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetClient returns the client by id, excluding soft-deleted rows.
func (s *Store) GetClient(ctx context.Context, id string) (*entity.Client, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, venue_id, name, email, phone, created_at FROM clients WHERE id = ? AND deleted_at IS NULL", id)
	var c entity.Client
	err := row.Scan(&c.ID, &c.VenueID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateVenue inserts a venue record.
func (s *Store) CreateVenue(ctx context.Context, v *entity.Venue) (*entity.Venue, error) {
	out := *v
	out.ID = newID("ven")
	out.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO venues (id, name, email, address, description, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		out.ID, out.Name, out.Email, out.Address, out.Description, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetVenue returns the venue by id, excluding soft-deleted rows.
func (s *Store) GetVenue(ctx context.Context, id string) (*entity.Venue, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, address, description, created_at FROM venues WHERE id = ? AND deleted_at IS NULL", id)
	var v entity.Venue
	err := row.Scan(&v.ID, &v.Name, &v.Email, &v.Address, &v.Description, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateVendor inserts a vendor record.
func (s *Store) CreateVendor(ctx context.Context, v *entity.Vendor) (*entity.Vendor, error) {
	out := *v
	out.ID = newID("vnd")
	out.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO vendors (id, name, email, category, created_at) VALUES (?, ?, ?, ?, ?)",
		out.ID, out.Name, out.Email, out.Category, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetVendor returns the vendor by id, excluding soft-deleted rows.
func (s *Store) GetVendor(ctx context.Context, id string) (*entity.Vendor, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, category, created_at FROM vendors WHERE id = ? AND deleted_at IS NULL", id)
	var v entity.Vendor
	err := row.Scan(&v.ID, &v.Name, &v.Email, &v.Category, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateVenueVendor inserts a directory entry linking a vendor to a venue.
func (s *Store) CreateVenueVendor(ctx context.Context, vv *entity.VenueVendor) (*entity.VenueVendor, error) {
	out := *vv
	out.ID = newID("vvn")
	out.CreatedAt = time.Now().UTC()
	if out.ApprovalStatus == "" {
		out.ApprovalStatus = entity.ApprovalPending
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO venue_vendors (id, venue_id, vendor_id, approval_status, created_at) VALUES (?, ?, ?, ?, ?)",
		out.ID, out.VenueID, out.VendorID, out.ApprovalStatus, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetVenueVendor returns the directory entry by id, excluding
// soft-deleted rows.
func (s *Store) GetVenueVendor(ctx context.Context, id string) (*entity.VenueVendor, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, venue_id, vendor_id, approval_status, created_at FROM venue_vendors WHERE id = ? AND deleted_at IS NULL", id)
	var vv entity.VenueVendor
	err := row.Scan(&vv.ID, &vv.VenueID, &vv.VendorID, &vv.ApprovalStatus, &vv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &vv, nil
}

// UpdateVenueVendorApproval sets the approval status on a directory
// entry. The venue ownership predicate is part of the statement.
func (s *Store) UpdateVenueVendorApproval(ctx context.Context, id, venueID, status string) (*entity.VenueVendor, error) {
	err := s.execGuarded(ctx,
		"UPDATE venue_vendors SET approval_status = ? WHERE id = ? AND venue_id = ? AND deleted_at IS NULL",
		status, id, venueID)
	if err != nil {
		return nil, err
	}
	return s.GetVenueVendor(ctx, id)
}

// VendorDirectoryEntry is a venue's view of one vendor: the directory
// row enriched with the vendor's name, category, and live offering count.
type VendorDirectoryEntry struct {
	entity.VenueVendor
	VendorName     string `json:"vendor_name"`
	VendorCategory string `json:"vendor_category,omitempty"`
	OfferingCount  int    `json:"offering_count"`
}

// ListVendorDirectory returns the venue's vendor directory with
// approval status and per-vendor offering counts.
func (s *Store) ListVendorDirectory(ctx context.Context, venueID string) ([]VendorDirectoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT vv.id, vv.venue_id, vv.vendor_id, vv.approval_status, vv.created_at,
		       v.name, v.category,
		       (SELECT COUNT(*) FROM elements e
		        WHERE e.vendor_id = vv.vendor_id AND e.venue_id = vv.venue_id AND e.deleted_at IS NULL)
		FROM venue_vendors vv
		JOIN vendors v ON v.id = vv.vendor_id AND v.deleted_at IS NULL
		WHERE vv.venue_id = ? AND vv.deleted_at IS NULL
		ORDER BY v.name`, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []VendorDirectoryEntry
	for rows.Next() {
		var e VendorDirectoryEntry
		if err := rows.Scan(&e.ID, &e.VenueID, &e.VendorID, &e.ApprovalStatus, &e.CreatedAt,
			&e.VendorName, &e.VendorCategory, &e.OfferingCount); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CreateSpace inserts a bookable space for a venue.
func (s *Store) CreateSpace(ctx context.Context, sp *entity.Space) (*entity.Space, error) {
	out := *sp
	out.ID = newID("spc")
	out.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO spaces (id, venue_id, name, capacity, created_at) VALUES (?, ?, ?, ?, ?)",
		out.ID, out.VenueID, out.Name, out.Capacity, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSpacesByVenue returns the venue's live space inventory.
func (s *Store) ListSpacesByVenue(ctx context.Context, venueID string) ([]entity.Space, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, venue_id, name, capacity, created_at FROM spaces WHERE venue_id = ? AND deleted_at IS NULL ORDER BY name", venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Space
	for rows.Next() {
		var sp entity.Space
		if err := rows.Scan(&sp.ID, &sp.VenueID, &sp.Name, &sp.Capacity, &sp.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}
