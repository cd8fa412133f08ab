package dispatch_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventra-io/eventra/internal/apperr"
	"github.com/eventra-io/eventra/internal/dispatch"
	"github.com/eventra-io/eventra/internal/entity"
	"github.com/eventra-io/eventra/internal/identity"
	"github.com/eventra-io/eventra/internal/store"
	"github.com/eventra-io/eventra/internal/testutil"
	"github.com/eventra-io/eventra/internal/tool"
)

func newDispatcher(t *testing.T) (*dispatch.Dispatcher, *store.Store, *testutil.Fixture) {
	t.Helper()
	st := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, st)
	return dispatch.New(st, tool.BuildCatalogs()), st, f
}

func asClient(f *testutil.Fixture) identity.Identity {
	return identity.Identity{ActorID: f.ClientA.ID, Role: identity.RoleClient}
}

func asVenue(f *testutil.Fixture) identity.Identity {
	return identity.Identity{ActorID: f.VenueA.ID, Role: identity.RoleVenue}
}

func TestExecute_UnknownTool(t *testing.T) {
	d, _, f := newDispatcher(t)

	res := d.Execute(context.Background(), identity.RoleClient, "launch_fireworks", nil, asClient(f))
	assert.False(t, res.OK)
	assert.Equal(t, apperr.ToolNotFound, res.ErrorKind)
	assert.Contains(t, res.Message, "launch_fireworks")
}

func TestExecute_UnknownRoleCatalogue(t *testing.T) {
	d, _, f := newDispatcher(t)

	res := d.Execute(context.Background(), identity.Role("admin"), "get_event_details", nil, asClient(f))
	assert.False(t, res.OK)
	assert.Equal(t, apperr.ToolNotFound, res.ErrorKind)
}

func TestExecute_ValidationPrecedesAuthorization(t *testing.T) {
	d, _, f := newDispatcher(t)

	// Arguments are malformed AND the event belongs to another tenant;
	// the shape check must win.
	res := d.Execute(context.Background(), identity.RoleClient, "add_element_to_event",
		map[string]interface{}{"event_id": f.EventB.ID}, asClient(f))
	assert.False(t, res.OK)
	assert.Equal(t, apperr.ValidationError, res.ErrorKind)
	assert.Contains(t, res.Message, "element_id")
}

func TestExecute_ValidationRejectsUnknownField(t *testing.T) {
	d, _, f := newDispatcher(t)

	res := d.Execute(context.Background(), identity.RoleClient, "get_event_details",
		map[string]interface{}{"event_id": f.EventA.ID, "force": true}, asClient(f))
	assert.False(t, res.OK)
	assert.Equal(t, apperr.ValidationError, res.ErrorKind)
}

func TestExecute_AddElement_CapturesPriceAsAmount(t *testing.T) {
	d, _, f := newDispatcher(t)

	res := d.Execute(context.Background(), identity.RoleClient, "add_element_to_event",
		map[string]interface{}{"event_id": f.EventA.ID, "element_id": f.VendorElement.ID}, asClient(f))
	require.True(t, res.OK, res.Message)

	ee, ok := res.Data.(*entity.EventElement)
	require.True(t, ok)
	assert.Equal(t, f.VendorElement.Price, ee.Amount)
	assert.Equal(t, f.Vendor.ID, ee.VendorID)
	assert.Equal(t, entity.EventElementPending, ee.Status)
}

func TestExecute_AddElement_LeadTimeTooSoon(t *testing.T) {
	d, st, f := newDispatcher(t)
	ctx := context.Background()

	soon, err := st.CreateEvent(ctx, &entity.Event{
		ClientID: f.ClientA.ID, VenueID: f.VenueA.ID, Name: "Rush Party",
		Date: time.Now().UTC().AddDate(0, 0, 3),
	})
	require.NoError(t, err)

	// VendorElement needs 7 days of lead time.
	res := d.Execute(ctx, identity.RoleClient, "add_element_to_event",
		map[string]interface{}{"event_id": soon.ID, "element_id": f.VendorElement.ID}, asClient(f))
	assert.False(t, res.OK)
	assert.Equal(t, apperr.PreconditionFailed, res.ErrorKind)
	assert.Contains(t, res.Message, "lead time")
}

func TestExecute_AddElement_Unavailable(t *testing.T) {
	d, st, f := newDispatcher(t)
	ctx := context.Background()

	off := false
	_, err := st.UpdateElementOffering(ctx, f.VendorElement.ID, f.Vendor.ID, store.ElementUpdate{Available: &off})
	require.NoError(t, err)

	res := d.Execute(ctx, identity.RoleClient, "add_element_to_event",
		map[string]interface{}{"event_id": f.EventA.ID, "element_id": f.VendorElement.ID}, asClient(f))
	assert.False(t, res.OK)
	assert.Equal(t, apperr.PreconditionFailed, res.ErrorKind)
}

func TestExecute_AddElement_BlackedOutDate(t *testing.T) {
	d, st, f := newDispatcher(t)
	ctx := context.Background()

	blocked, err := st.CreateElement(ctx, &entity.Element{
		VenueID:       f.VenueA.ID,
		VendorID:      f.Vendor.ID,
		Name:          "Archway installation",
		Category:      "florals",
		Price:         250,
		Available:     true,
		BlackoutDates: []string{f.EventA.Date.UTC().Format("2006-01-02")},
	})
	require.NoError(t, err)

	res := d.Execute(ctx, identity.RoleClient, "add_element_to_event",
		map[string]interface{}{"event_id": f.EventA.ID, "element_id": blocked.ID}, asClient(f))
	assert.False(t, res.OK)
	assert.Equal(t, apperr.PreconditionFailed, res.ErrorKind)
	assert.Contains(t, res.Message, "not available on")
}

func TestExecute_UpdateVendorApproval_ForeignVenueDenied(t *testing.T) {
	d, st, f := newDispatcher(t)
	ctx := context.Background()

	// Venue B names venue A's directory entry.
	id := identity.Identity{ActorID: f.VenueB.ID, Role: identity.RoleVenue}
	res := d.Execute(ctx, identity.RoleVenue, "update_vendor_approval",
		map[string]interface{}{"venue_vendor_id": f.VenueVendor.ID, "approval_status": "rejected"}, id)
	assert.False(t, res.OK)
	assert.Equal(t, apperr.Unauthorized, res.ErrorKind)

	vv, err := st.GetVenueVendor(ctx, f.VenueVendor.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalApproved, vv.ApprovalStatus, "the denied call must not touch the row")
}

func TestExecute_StoreFailureYieldsExecutionError(t *testing.T) {
	st := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, st)
	d := dispatch.New(st, tool.BuildCatalogs(),
		dispatch.WithFailureTracker(dispatch.NewFailureTracker(1, time.Minute)))

	require.NoError(t, st.Close())

	res := d.Execute(context.Background(), identity.RoleClient, "get_event_details",
		map[string]interface{}{"event_id": f.EventA.ID}, asClient(f))
	assert.False(t, res.OK)
	assert.Equal(t, apperr.ExecutionError, res.ErrorKind)
	assert.Contains(t, res.Message, "accessing event")
}

func TestExecute_CrossTenantAndMissingCollapseInPayload(t *testing.T) {
	d, _, f := newDispatcher(t)
	ctx := context.Background()

	foreign := d.Execute(ctx, identity.RoleClient, "get_event_details",
		map[string]interface{}{"event_id": f.EventB.ID}, asClient(f))
	assert.Equal(t, apperr.Unauthorized, foreign.ErrorKind)

	missing := d.Execute(ctx, identity.RoleClient, "get_event_details",
		map[string]interface{}{"event_id": "evt_missing"}, asClient(f))
	assert.Equal(t, apperr.NotFound, missing.ErrorKind)

	// The model-facing payload is identical for both: existence of a
	// foreign entity must not be confirmable.
	fp, err := foreign.ModelPayload()
	require.NoError(t, err)
	mp, err := missing.ModelPayload()
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"couldn't find that"}`, string(fp))
	assert.Equal(t, string(fp), string(mp))
}

func TestExecute_VenueCreateOffering_PendingVendorRejected(t *testing.T) {
	d, st, f := newDispatcher(t)
	ctx := context.Background()

	pending, err := st.CreateVendor(ctx, &entity.Vendor{Name: "Brasshouse Quartet", Category: "music"})
	require.NoError(t, err)
	_, err = st.CreateVenueVendor(ctx, &entity.VenueVendor{
		VenueID: f.VenueA.ID, VendorID: pending.ID, ApprovalStatus: entity.ApprovalPending,
	})
	require.NoError(t, err)

	res := d.Execute(ctx, identity.RoleVenue, "create_offering",
		map[string]interface{}{"name": "String quartet set", "price": 900.0, "vendor_id": pending.ID}, asVenue(f))
	assert.False(t, res.OK)
	assert.Equal(t, apperr.PreconditionFailed, res.ErrorKind)
	assert.Contains(t, res.Message, "not approved")
}

func TestExecute_VendorCreateOffering_UnlistedVenueDenied(t *testing.T) {
	d, _, f := newDispatcher(t)

	// The vendor is approved at venue A but has no directory entry at B.
	id := identity.Identity{ActorID: f.Vendor.ID, Role: identity.RoleVendor}
	res := d.Execute(context.Background(), identity.RoleVendor, "create_offering",
		map[string]interface{}{"venue_id": f.VenueB.ID, "name": "Bouquets", "price": 40.0}, id)
	assert.False(t, res.OK)
	assert.Equal(t, apperr.Unauthorized, res.ErrorKind)
}

func TestExecute_VendorUpdateOffering(t *testing.T) {
	d, _, f := newDispatcher(t)

	id := identity.Identity{ActorID: f.Vendor.ID, Role: identity.RoleVendor}
	res := d.Execute(context.Background(), identity.RoleVendor, "update_offering",
		map[string]interface{}{"element_id": f.VendorElement.ID, "price": 99.5, "available": false}, id)
	require.True(t, res.OK, res.Message)

	el, ok := res.Data.(*entity.Element)
	require.True(t, ok)
	assert.Equal(t, 99.5, el.Price)
	assert.False(t, el.Available)
}

func TestExecute_CompleteTask_AlreadyCompleted(t *testing.T) {
	d, st, f := newDispatcher(t)
	ctx := context.Background()

	task, err := st.CreateTask(ctx, &entity.Task{
		EventID: f.EventA.ID, VenueID: f.VenueA.ID, Title: "Confirm menu", AssigneeRole: "client",
	})
	require.NoError(t, err)

	first := d.Execute(ctx, identity.RoleClient, "complete_task",
		map[string]interface{}{"task_id": task.ID, "response": `{"choice":"salmon"}`}, asClient(f))
	require.True(t, first.OK, first.Message)
	done, ok := first.Data.(*entity.Task)
	require.True(t, ok)
	assert.Equal(t, `{"choice":"salmon"}`, done.Response)

	second := d.Execute(ctx, identity.RoleClient, "complete_task",
		map[string]interface{}{"task_id": task.ID}, asClient(f))
	assert.False(t, second.OK)
	assert.Equal(t, apperr.PreconditionFailed, second.ErrorKind)
}

func TestExecute_ReadToolIsIdempotent(t *testing.T) {
	d, _, f := newDispatcher(t)
	ctx := context.Background()

	args := map[string]interface{}{"event_id": f.EventA.ID}
	first := d.Execute(ctx, identity.RoleClient, "get_event_details", args, asClient(f))
	second := d.Execute(ctx, identity.RoleClient, "get_event_details", args, asClient(f))
	require.True(t, first.OK)
	require.True(t, second.OK)
}

func TestResult_ModelPayloadSuccess(t *testing.T) {
	res := dispatch.Result{OK: true, Data: map[string]string{"status": "confirmed"}}
	payload, err := res.ModelPayload()
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"confirmed"}`, string(payload))
}

func TestResult_ModelPayloadKeepsActionableMessages(t *testing.T) {
	res := dispatch.Result{OK: false, ErrorKind: apperr.PreconditionFailed, Message: "element needs 7 days lead time"}
	payload, err := res.ModelPayload()
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"element needs 7 days lead time"}`, string(payload))
}
