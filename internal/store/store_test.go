package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventra-io/eventra/internal/entity"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "eventra.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func seedWorld(t *testing.T, st *Store) (*entity.Venue, *entity.Client, *entity.Event) {
	t.Helper()
	ctx := context.Background()
	venue, err := st.CreateVenue(ctx, &entity.Venue{Name: "Harborview Hall", Email: "hello@venue.test"})
	require.NoError(t, err)
	client, err := st.CreateClient(ctx, &entity.Client{VenueID: venue.ID, Name: "Acme Events", Email: "acme@client.test"})
	require.NoError(t, err)
	event, err := st.CreateEvent(ctx, &entity.Event{
		ClientID:   client.ID,
		VenueID:    venue.ID,
		Name:       "Annual Gala",
		Date:       time.Now().UTC().AddDate(0, 0, 30),
		GuestCount: 120,
	})
	require.NoError(t, err)
	return venue, client, event
}

func TestCreateEvent_DefaultsAndGet(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	_, _, event := seedWorld(t, st)

	assert.True(t, strings.HasPrefix(event.ID, "evt_"))
	assert.Equal(t, entity.EventStatusPlanning, event.Status)

	got, err := st.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, event.ClientID, got.ClientID)
	assert.Equal(t, 120, got.GuestCount)
}

func TestGetEvent_NotFound(t *testing.T) {
	st := newTestStore(t)
	_, err := st.GetEvent(context.Background(), "evt_missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateEventStatus_GuardedByVenue(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	venue, _, event := seedWorld(t, st)

	updated, err := st.UpdateEventStatus(ctx, event.ID, venue.ID, entity.EventStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, entity.EventStatusConfirmed, updated.Status)

	// Wrong venue in the guard: zero rows affected.
	_, err = st.UpdateEventStatus(ctx, event.ID, "ven_other", entity.EventStatusCancelled)
	assert.ErrorIs(t, err, ErrNotFound)

	unchanged, err := st.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EventStatusConfirmed, unchanged.Status)
}

func TestListEventsByIDs(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	venue, client, event := seedWorld(t, st)

	second, err := st.CreateEvent(ctx, &entity.Event{
		ClientID: client.ID, VenueID: venue.ID, Name: "Board Dinner",
		Date: time.Now().UTC().AddDate(0, 0, 10),
	})
	require.NoError(t, err)

	events, err := st.ListEventsByIDs(ctx, []string{event.ID, second.ID, "evt_missing"})
	require.NoError(t, err)
	require.Len(t, events, 2)
	// Soonest first.
	assert.Equal(t, second.ID, events[0].ID)

	none, err := st.ListEventsByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestElementRoundTripWithBlackouts(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	venue, _, _ := seedWorld(t, st)

	el, err := st.CreateElement(ctx, &entity.Element{
		VenueID:       venue.ID,
		Name:          "Seasonal centerpieces",
		Price:         85,
		LeadTimeDays:  14,
		Available:     true,
		BlackoutDates: []string{"2026-12-24", "2026-12-25"},
	})
	require.NoError(t, err)

	got, err := st.GetElement(ctx, el.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-12-24", "2026-12-25"}, got.BlackoutDates)
	assert.Equal(t, 85.0, got.Price)
}

func TestUpdateElementOffering_GuardedByVendor(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	venue, _, _ := seedWorld(t, st)

	vendor, err := st.CreateVendor(ctx, &entity.Vendor{Name: "Petal & Stem", Category: "florist"})
	require.NoError(t, err)
	el, err := st.CreateElement(ctx, &entity.Element{
		VenueID: venue.ID, VendorID: vendor.ID, Name: "Centerpieces", Price: 85, Available: true,
	})
	require.NoError(t, err)

	price := 95.0
	available := false
	updated, err := st.UpdateElementOffering(ctx, el.ID, vendor.ID, ElementUpdate{Price: &price, Available: &available})
	require.NoError(t, err)
	assert.Equal(t, 95.0, updated.Price)
	assert.False(t, updated.Available)

	_, err = st.UpdateElementOffering(ctx, el.ID, "vnd_other", ElementUpdate{Price: &price})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEventElementSoftDeleteAndPurge(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	venue, _, event := seedWorld(t, st)

	el, err := st.CreateElement(ctx, &entity.Element{VenueID: venue.ID, Name: "House AV", Price: 400, Available: true})
	require.NoError(t, err)
	ee, err := st.CreateEventElement(ctx, &entity.EventElement{
		EventID: event.ID, ElementID: el.ID, Name: el.Name, Amount: el.Price,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.EventElementPending, ee.Status)

	// Guarded by event id.
	err = st.RemoveEventElement(ctx, ee.ID, "evt_other")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.RemoveEventElement(ctx, ee.ID, event.ID))
	_, err = st.GetEventElement(ctx, ee.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Fresh soft-deletes survive the purge window.
	purged, err := st.PurgeSoftDeleted(ctx, 30)
	require.NoError(t, err)
	assert.Zero(t, purged)

	// A non-positive window never deletes.
	purged, err = st.PurgeSoftDeleted(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, purged)
}

func TestGuestRSVPGuardedUpdate(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	_, _, event := seedWorld(t, st)

	guest, err := st.CreateGuest(ctx, &entity.Guest{EventID: event.ID, Name: "Dana", PlusOnes: 1})
	require.NoError(t, err)
	assert.Equal(t, entity.RSVPPending, guest.RSVPStatus)

	updated, err := st.UpdateGuestRSVP(ctx, guest.ID, event.ID, entity.RSVPAttending)
	require.NoError(t, err)
	assert.Equal(t, entity.RSVPAttending, updated.RSVPStatus)

	_, err = st.UpdateGuestRSVP(ctx, guest.ID, "evt_other", entity.RSVPDeclined)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteTaskGuards(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	venue, _, event := seedWorld(t, st)

	task, err := st.CreateTask(ctx, &entity.Task{
		EventID:      event.ID,
		VenueID:      venue.ID,
		Title:        "Confirm menu",
		AssigneeRole: "client",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TaskOpen, task.Status)

	_, err = st.CompleteTaskForEvent(ctx, task.ID, "evt_other", "")
	assert.ErrorIs(t, err, ErrNotFound)

	done, err := st.CompleteTaskForEvent(ctx, task.ID, event.ID, `{"choice":"salmon"}`)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskCompleted, done.Status)
	assert.Equal(t, `{"choice":"salmon"}`, done.Response)
	require.NotNil(t, done.CompletedAt)
}

func TestListTasksByVendor(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	venue, _, event := seedWorld(t, st)

	vendor, err := st.CreateVendor(ctx, &entity.Vendor{Name: "Brasshouse"})
	require.NoError(t, err)

	_, err = st.CreateTask(ctx, &entity.Task{
		EventID: event.ID, VenueID: venue.ID, Title: "Load-in schedule",
		AssigneeRole: "vendor", VendorID: vendor.ID,
	})
	require.NoError(t, err)
	_, err = st.CreateTask(ctx, &entity.Task{
		EventID: event.ID, VenueID: venue.ID, Title: "Confirm menu", AssigneeRole: "client",
	})
	require.NoError(t, err)

	tasks, err := st.ListTasksByVendor(ctx, vendor.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Load-in schedule", tasks[0].Title)
}

func TestVendorDirectory(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	venue, _, _ := seedWorld(t, st)

	vendor, err := st.CreateVendor(ctx, &entity.Vendor{Name: "Petal & Stem", Category: "florist"})
	require.NoError(t, err)
	vv, err := st.CreateVenueVendor(ctx, &entity.VenueVendor{
		VenueID: venue.ID, VendorID: vendor.ID, ApprovalStatus: entity.ApprovalPending,
	})
	require.NoError(t, err)
	_, err = st.CreateElement(ctx, &entity.Element{
		VenueID: venue.ID, VendorID: vendor.ID, Name: "Centerpieces", Price: 85, Available: true,
	})
	require.NoError(t, err)

	directory, err := st.ListVendorDirectory(ctx, venue.ID)
	require.NoError(t, err)
	require.Len(t, directory, 1)
	assert.Equal(t, "Petal & Stem", directory[0].VendorName)
	assert.Equal(t, "florist", directory[0].VendorCategory)
	assert.Equal(t, 1, directory[0].OfferingCount)
	assert.Equal(t, entity.ApprovalPending, directory[0].ApprovalStatus)

	approved, err := st.UpdateVenueVendorApproval(ctx, vv.ID, venue.ID, entity.ApprovalApproved)
	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalApproved, approved.ApprovalStatus)

	_, err = st.UpdateVenueVendorApproval(ctx, vv.ID, "ven_other", entity.ApprovalRejected)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMessagesByEventAndParticipant(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	venue, client, event := seedWorld(t, st)

	_, err := st.CreateMessage(ctx, &entity.Message{
		EventID: event.ID, SenderID: client.ID, SenderRole: "client",
		RecipientID: venue.ID, RecipientRole: "venue", Content: "Can we add a second bar?",
	})
	require.NoError(t, err)
	_, err = st.CreateMessage(ctx, &entity.Message{
		EventID: event.ID, SenderID: venue.ID, SenderRole: "venue",
		RecipientID: client.ID, RecipientRole: "client", Content: "Yes, for the main ballroom.",
	})
	require.NoError(t, err)

	thread, err := st.ListMessagesByEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, "Can we add a second bar?", thread[0].Content)

	mine, err := st.ListMessagesByParticipant(ctx, client.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestActionHistoryClamped(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	_, client, event := seedWorld(t, st)

	for i := 0; i < maxActionHistory+10; i++ {
		err := st.RecordAction(ctx, &entity.ActionRecord{
			EventID:     event.ID,
			ActorID:     client.ID,
			ActorRole:   "client",
			ActionType:  "guest_added",
			Description: fmt.Sprintf("added guest %d", i),
		})
		require.NoError(t, err)
	}

	actions, err := st.ListRecentActionsByEvent(ctx, event.ID, maxActionHistory*2)
	require.NoError(t, err)
	assert.Len(t, actions, maxActionHistory)

	few, err := st.ListRecentActionsByEvent(ctx, event.ID, 5)
	require.NoError(t, err)
	assert.Len(t, few, 5)
}
