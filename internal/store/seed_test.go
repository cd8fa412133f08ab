package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `
venues:
  - alias: harborview
    name: Harborview Hall
    email: hello@harborview.test
clients:
  - alias: acme
    venue: harborview
    name: Acme Events
    email: events@acme.test
vendors:
  - alias: petal
    name: Petal & Stem
    category: florist
    venues:
      - venue: harborview
        approval: approved
spaces:
  - venue: harborview
    name: Main Ballroom
    capacity: 250
elements:
  - alias: centerpieces
    venue: harborview
    vendor: petal
    name: Seasonal centerpieces
    price: 85.0
    lead_time_days: 14
events:
  - alias: gala
    venue: harborview
    client: acme
    name: Acme Annual Gala
    date: 2026-11-20
    guest_count: 180
`

func TestSeedFromFile(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	res, err := st.SeedFromFile(ctx, path)
	require.NoError(t, err)

	venueID := res.Venues["harborview"]
	require.NotEmpty(t, venueID)

	event, err := st.GetEvent(ctx, res.Events["gala"])
	require.NoError(t, err)
	assert.Equal(t, venueID, event.VenueID)
	assert.Equal(t, res.Clients["acme"], event.ClientID)
	assert.Equal(t, 180, event.GuestCount)
	assert.Equal(t, "2026-11-20", event.Date.UTC().Format("2006-01-02"))

	el, err := st.GetElement(ctx, res.Elements["centerpieces"])
	require.NoError(t, err)
	assert.Equal(t, res.Vendors["petal"], el.VendorID)
	assert.True(t, el.Available, "availability defaults to true when omitted")

	directory, err := st.ListVendorDirectory(ctx, venueID)
	require.NoError(t, err)
	require.Len(t, directory, 1)
	assert.Equal(t, "approved", directory[0].ApprovalStatus)

	spaces, err := st.ListSpacesByVenue(ctx, venueID)
	require.NoError(t, err)
	require.Len(t, spaces, 1)
	assert.Equal(t, 250, spaces[0].Capacity)
}

func TestSeed_UnknownAliasFails(t *testing.T) {
	st := newTestStore(t)
	var f SeedFile
	f.Clients = append(f.Clients, struct {
		Alias string `yaml:"alias"`
		Venue string `yaml:"venue"`
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
	}{Alias: "acme", Venue: "nope", Name: "Acme"})

	_, err := st.Seed(context.Background(), &f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown venue alias")
}
