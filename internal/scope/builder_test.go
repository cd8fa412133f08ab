package scope_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventra-io/eventra/internal/apperr"
	"github.com/eventra-io/eventra/internal/entity"
	"github.com/eventra-io/eventra/internal/identity"
	"github.com/eventra-io/eventra/internal/scope"
	"github.com/eventra-io/eventra/internal/testutil"
)

func clientID(f *testutil.Fixture) identity.Identity {
	return identity.Identity{ActorID: f.ClientA.ID, Role: identity.RoleClient}
}

func TestBuildClientScope_OwnEvent(t *testing.T) {
	st := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, st)
	ctx := context.Background()

	_, err := st.CreateEventElement(ctx, &entity.EventElement{
		EventID:   f.EventA.ID,
		ElementID: f.VendorElement.ID,
		VendorID:  f.Vendor.ID,
		Name:      f.VendorElement.Name,
		Amount:    f.VendorElement.Price,
	})
	require.NoError(t, err)

	b := scope.NewBuilder(st)
	sc, err := b.BuildClientScope(ctx, clientID(f), f.EventA.ID)
	require.NoError(t, err)

	assert.Equal(t, f.EventA.ID, sc.Event.ID)
	assert.Equal(t, f.VenueA.ID, sc.Venue.ID)
	require.Len(t, sc.EventElements, 1)
	assert.Equal(t, "Petal & Stem", sc.EventElements[0].VendorName)
	assert.Len(t, sc.Offerings, 2)
	require.Len(t, sc.VendorDirectory, 1)
	assert.False(t, sc.AsOf.IsZero())
}

func TestBuildClientScope_InHouseElementNamedAfterVenue(t *testing.T) {
	st := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, st)
	ctx := context.Background()

	_, err := st.CreateEventElement(ctx, &entity.EventElement{
		EventID:   f.EventA.ID,
		ElementID: f.InHouseElement.ID,
		Name:      f.InHouseElement.Name,
		Amount:    f.InHouseElement.Price,
	})
	require.NoError(t, err)

	sc, err := scope.NewBuilder(st).BuildClientScope(ctx, clientID(f), f.EventA.ID)
	require.NoError(t, err)
	require.Len(t, sc.EventElements, 1)
	assert.Equal(t, f.VenueA.Name, sc.EventElements[0].VendorName)
}

func TestBuildClientScope_ForeignEventDenied(t *testing.T) {
	st := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, st)

	// ClientA asking for venue B's event: denied before any fan-out.
	_, err := scope.NewBuilder(st).BuildClientScope(context.Background(), clientID(f), f.EventB.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))
}

func TestBuildClientScope_MissingEvent(t *testing.T) {
	st := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, st)

	_, err := scope.NewBuilder(st).BuildClientScope(context.Background(), clientID(f), "evt_missing")
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestBuildVenueTenantScope(t *testing.T) {
	st := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, st)
	ctx := context.Background()

	_, err := st.CreateTask(ctx, &entity.Task{
		EventID: f.EventA.ID, VenueID: f.VenueA.ID, Title: "Confirm layout", AssigneeRole: "venue",
	})
	require.NoError(t, err)

	id := identity.Identity{ActorID: f.VenueA.ID, Role: identity.RoleVenue}
	sc, err := scope.NewBuilder(st).BuildVenueTenantScope(ctx, id)
	require.NoError(t, err)

	require.Len(t, sc.Events, 1)
	assert.Equal(t, f.EventA.ID, sc.Events[0].ID)
	assert.Equal(t, 1, sc.OpenTaskCount)
	require.Len(t, sc.VendorDirectory, 1)
	assert.Equal(t, f.Vendor.ID, sc.VendorDirectory[0].VendorID)
}

func TestBuildVenueEventScope_ForeignEventDenied(t *testing.T) {
	st := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, st)

	id := identity.Identity{ActorID: f.VenueA.ID, Role: identity.RoleVenue}
	_, err := scope.NewBuilder(st).BuildVenueEventScope(context.Background(), id, f.EventB.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))
}

func TestBuildVendorScope_OnlySuppliedEvents(t *testing.T) {
	st := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, st)
	ctx := context.Background()

	// Vendor supplies event A but not event B.
	_, err := st.CreateEventElement(ctx, &entity.EventElement{
		EventID:   f.EventA.ID,
		ElementID: f.VendorElement.ID,
		VendorID:  f.Vendor.ID,
		Name:      f.VendorElement.Name,
		Amount:    f.VendorElement.Price,
	})
	require.NoError(t, err)

	id := identity.Identity{ActorID: f.Vendor.ID, Role: identity.RoleVendor}
	sc, err := scope.NewBuilder(st).BuildVendorScope(ctx, id)
	require.NoError(t, err)

	require.Len(t, sc.Events, 1)
	assert.Equal(t, f.EventA.ID, sc.Events[0].ID)
	require.Len(t, sc.Offerings, 1)
	assert.Equal(t, f.VendorElement.ID, sc.Offerings[0].ID)
}

func TestBuildVendorScope_NoAttachmentsEmpty(t *testing.T) {
	st := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, st)

	id := identity.Identity{ActorID: f.Vendor.ID, Role: identity.RoleVendor}
	sc, err := scope.NewBuilder(st).BuildVendorScope(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, sc.Events)
}
