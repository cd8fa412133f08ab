// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/eventra-io/eventra/internal/entity"
	"github.com/eventra-io/eventra/internal/store"
)

// NewTestStore creates a store in a temp dir and registers t.Cleanup to
// close it.
func NewTestStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "eventra.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// Fixture is a seeded two-tenant world. Venue A has a client, an
// approved vendor with one offering, an in-house offering, and one
// event in planning. Venue B exists solely so cross-tenant access has
// something real to be denied against.
type Fixture struct {
	VenueA  *entity.Venue
	VenueB  *entity.Venue
	ClientA *entity.Client
	ClientB *entity.Client

	Vendor      *entity.Vendor
	VenueVendor *entity.VenueVendor

	VendorElement  *entity.Element // supplied by Vendor, 7 days lead time
	InHouseElement *entity.Element // venue A's own offering

	EventA *entity.Event // venue A, ClientA, 30 days out
	EventB *entity.Event // venue B, ClientB
}

// NewFixture seeds the standard world into st.
func NewFixture(t *testing.T, st *store.Store) *Fixture {
	t.Helper()
	ctx := context.Background()
	f := &Fixture{}
	var err error

	f.VenueA, err = st.CreateVenue(ctx, &entity.Venue{Name: "Harborview Hall", Email: "a@venue.test"})
	if err != nil {
		t.Fatal(err)
	}
	f.VenueB, err = st.CreateVenue(ctx, &entity.Venue{Name: "Summit House", Email: "b@venue.test"})
	if err != nil {
		t.Fatal(err)
	}
	f.ClientA, err = st.CreateClient(ctx, &entity.Client{VenueID: f.VenueA.ID, Name: "Acme Events", Email: "a@client.test"})
	if err != nil {
		t.Fatal(err)
	}
	f.ClientB, err = st.CreateClient(ctx, &entity.Client{VenueID: f.VenueB.ID, Name: "Globex Events", Email: "b@client.test"})
	if err != nil {
		t.Fatal(err)
	}
	f.Vendor, err = st.CreateVendor(ctx, &entity.Vendor{Name: "Petal & Stem", Email: "v@vendor.test", Category: "florist"})
	if err != nil {
		t.Fatal(err)
	}
	f.VenueVendor, err = st.CreateVenueVendor(ctx, &entity.VenueVendor{
		VenueID:        f.VenueA.ID,
		VendorID:       f.Vendor.ID,
		ApprovalStatus: entity.ApprovalApproved,
	})
	if err != nil {
		t.Fatal(err)
	}
	f.VendorElement, err = st.CreateElement(ctx, &entity.Element{
		VenueID:      f.VenueA.ID,
		VendorID:     f.Vendor.ID,
		Name:         "Seasonal centerpieces",
		Category:     "florals",
		Price:        85,
		LeadTimeDays: 7,
		Available:    true,
	})
	if err != nil {
		t.Fatal(err)
	}
	f.InHouseElement, err = st.CreateElement(ctx, &entity.Element{
		VenueID:      f.VenueA.ID,
		Name:         "House AV package",
		Category:     "production",
		Price:        400,
		LeadTimeDays: 1,
		Available:    true,
	})
	if err != nil {
		t.Fatal(err)
	}
	f.EventA, err = st.CreateEvent(ctx, &entity.Event{
		ClientID:   f.ClientA.ID,
		VenueID:    f.VenueA.ID,
		Name:       "Acme Annual Gala",
		Date:       time.Now().UTC().AddDate(0, 0, 30),
		GuestCount: 180,
	})
	if err != nil {
		t.Fatal(err)
	}
	f.EventB, err = st.CreateEvent(ctx, &entity.Event{
		ClientID:   f.ClientB.ID,
		VenueID:    f.VenueB.ID,
		Name:       "Globex Offsite",
		Date:       time.Now().UTC().AddDate(0, 0, 45),
		GuestCount: 40,
	})
	if err != nil {
		t.Fatal(err)
	}
	return f
}
