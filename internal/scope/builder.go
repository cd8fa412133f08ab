// Package scope assembles role-scoped snapshots of a tenant's data for
// the assistant. Each builder verifies ownership before any other read,
// issues the remaining independent reads concurrently, and returns a
// plain value stamped with the assembly time. Builders never mutate.
//
// Failure is all-or-nothing: a snapshot is either complete or not
// returned, so the model never reasons over silently-truncated data.
package scope

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"

	"github.com/eventra-io/eventra/internal/apperr"
	"github.com/eventra-io/eventra/internal/entity"
	"github.com/eventra-io/eventra/internal/identity"
	eventraotel "github.com/eventra-io/eventra/internal/otel"
	"github.com/eventra-io/eventra/internal/store"
)

var tracer = eventraotel.Tracer("github.com/eventra-io/eventra/internal/scope")

// Builder aggregates scope snapshots from the entity store.
type Builder struct {
	store *store.Store
}

// NewBuilder creates a Builder over the given store.
func NewBuilder(st *store.Store) *Builder {
	return &Builder{store: st}
}

// BuildClientScope assembles the snapshot for a client identity and one
// of its events. The event read and ownership check are the hard
// prerequisite; every other read fans out concurrently afterwards.
func (b *Builder) BuildClientScope(ctx context.Context, id identity.Identity, eventID string) (*ClientScope, error) {
	ctx, span := tracer.Start(ctx, "scope.build_client",
		trace.WithAttributes(eventraotel.ScopeKind.String("client")))
	defer span.End()

	event, err := b.ownedEventForClient(ctx, id, eventID)
	if err != nil {
		return nil, err
	}

	sc := &ClientScope{Event: event}
	var elements []entity.EventElement

	f := &fanout{}
	f.do(func() (err error) {
		sc.Client, err = b.store.GetClient(ctx, id.ActorID)
		return wrapStoreErr(err, "client")
	})
	f.do(func() (err error) {
		sc.Venue, err = b.store.GetVenue(ctx, event.VenueID)
		return wrapStoreErr(err, "venue")
	})
	f.do(func() (err error) {
		elements, err = b.store.ListEventElements(ctx, eventID)
		return wrapStoreErr(err, "event elements")
	})
	f.do(func() (err error) {
		sc.Tasks, err = b.store.ListTasksByEvent(ctx, eventID)
		return wrapStoreErr(err, "tasks")
	})
	f.do(func() (err error) {
		sc.Guests, err = b.store.ListGuestsByEvent(ctx, eventID)
		return wrapStoreErr(err, "guests")
	})
	f.do(func() (err error) {
		sc.Offerings, err = b.store.ListElementsByVenue(ctx, event.VenueID)
		return wrapStoreErr(err, "offerings")
	})
	f.do(func() (err error) {
		sc.VendorDirectory, err = b.store.ListVendorDirectory(ctx, event.VenueID)
		return wrapStoreErr(err, "vendor directory")
	})
	f.do(func() (err error) {
		sc.Messages, err = b.store.ListMessagesByEvent(ctx, eventID)
		return wrapStoreErr(err, "messages")
	})
	f.do(func() (err error) {
		sc.RecentActions, err = b.store.ListRecentActionsByEvent(ctx, eventID, 0)
		return wrapStoreErr(err, "action history")
	})
	if err := f.wait(); err != nil {
		return nil, err
	}

	sc.EventElements = enrichVendorNames(elements, sc.VendorDirectory, sc.Venue)
	sc.AsOf = time.Now().UTC()
	return sc, nil
}

// BuildVenueTenantScope assembles the tenant-wide snapshot. The tenant
// scope is the actor, so the venue read doubles as the existence check
// and no ownership comparison applies.
func (b *Builder) BuildVenueTenantScope(ctx context.Context, id identity.Identity) (*VenueTenantScope, error) {
	ctx, span := tracer.Start(ctx, "scope.build_venue_tenant",
		trace.WithAttributes(eventraotel.ScopeKind.String("venue_tenant")))
	defer span.End()

	venue, err := b.store.GetVenue(ctx, id.ActorID)
	if err != nil {
		return nil, wrapStoreErr(err, "venue")
	}

	sc := &VenueTenantScope{Venue: venue}

	f := &fanout{}
	f.do(func() (err error) {
		sc.Events, err = b.store.ListEventsByVenue(ctx, venue.ID)
		return wrapStoreErr(err, "events")
	})
	f.do(func() (err error) {
		sc.Tasks, err = b.store.ListTasksByVenue(ctx, venue.ID)
		return wrapStoreErr(err, "tasks")
	})
	f.do(func() (err error) {
		sc.Messages, err = b.store.ListMessagesByParticipant(ctx, venue.ID)
		return wrapStoreErr(err, "messages")
	})
	f.do(func() (err error) {
		sc.VendorDirectory, err = b.store.ListVendorDirectory(ctx, venue.ID)
		return wrapStoreErr(err, "vendor directory")
	})
	f.do(func() (err error) {
		sc.Spaces, err = b.store.ListSpacesByVenue(ctx, venue.ID)
		return wrapStoreErr(err, "spaces")
	})
	f.do(func() (err error) {
		sc.RecentActions, err = b.store.ListRecentActionsByVenue(ctx, venue.ID, 0)
		return wrapStoreErr(err, "action history")
	})
	if err := f.wait(); err != nil {
		return nil, err
	}

	for _, t := range sc.Tasks {
		if t.Status == entity.TaskOpen {
			sc.OpenTaskCount++
		}
	}
	sc.MessageCount = len(sc.Messages)
	sc.AsOf = time.Now().UTC()
	return sc, nil
}

// BuildVenueEventScope assembles a venue operator's single-event
// snapshot, mirroring the client scope's per-event detail plus the
// tenant's catalogue and directory.
func (b *Builder) BuildVenueEventScope(ctx context.Context, id identity.Identity, eventID string) (*VenueEventScope, error) {
	ctx, span := tracer.Start(ctx, "scope.build_venue_event",
		trace.WithAttributes(eventraotel.ScopeKind.String("venue_event")))
	defer span.End()

	event, err := b.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, wrapStoreErr(err, "event")
	}
	if event.VenueID != id.ActorID {
		logUnauthorized(id, "event", eventID)
		return nil, apperr.New(apperr.Unauthorized, "event %s is not hosted by this venue", eventID)
	}

	sc := &VenueEventScope{Event: event}
	var elements []entity.EventElement

	f := &fanout{}
	f.do(func() (err error) {
		sc.Venue, err = b.store.GetVenue(ctx, id.ActorID)
		return wrapStoreErr(err, "venue")
	})
	f.do(func() (err error) {
		sc.Client, err = b.store.GetClient(ctx, event.ClientID)
		return wrapStoreErr(err, "client")
	})
	f.do(func() (err error) {
		elements, err = b.store.ListEventElements(ctx, eventID)
		return wrapStoreErr(err, "event elements")
	})
	f.do(func() (err error) {
		sc.Tasks, err = b.store.ListTasksByEvent(ctx, eventID)
		return wrapStoreErr(err, "tasks")
	})
	f.do(func() (err error) {
		sc.Guests, err = b.store.ListGuestsByEvent(ctx, eventID)
		return wrapStoreErr(err, "guests")
	})
	f.do(func() (err error) {
		sc.Messages, err = b.store.ListMessagesByEvent(ctx, eventID)
		return wrapStoreErr(err, "messages")
	})
	f.do(func() (err error) {
		sc.Offerings, err = b.store.ListElementsByVenue(ctx, id.ActorID)
		return wrapStoreErr(err, "offerings")
	})
	f.do(func() (err error) {
		sc.VendorDirectory, err = b.store.ListVendorDirectory(ctx, id.ActorID)
		return wrapStoreErr(err, "vendor directory")
	})
	f.do(func() (err error) {
		sc.RecentActions, err = b.store.ListRecentActionsByEvent(ctx, eventID, 0)
		return wrapStoreErr(err, "action history")
	})
	if err := f.wait(); err != nil {
		return nil, err
	}

	sc.EventElements = enrichVendorNames(elements, sc.VendorDirectory, sc.Venue)
	sc.AsOf = time.Now().UTC()
	return sc, nil
}

// BuildVendorScope assembles the restricted vendor snapshot: the events
// the vendor supplies are derived from its own offerings' attachments,
// never from another vendor's data.
func (b *Builder) BuildVendorScope(ctx context.Context, id identity.Identity) (*VendorScope, error) {
	ctx, span := tracer.Start(ctx, "scope.build_vendor",
		trace.WithAttributes(eventraotel.ScopeKind.String("vendor")))
	defer span.End()

	vendor, err := b.store.GetVendor(ctx, id.ActorID)
	if err != nil {
		return nil, wrapStoreErr(err, "vendor")
	}

	sc := &VendorScope{Vendor: vendor}

	f := &fanout{}
	f.do(func() (err error) {
		sc.Events, err = b.vendorEvents(ctx, vendor.ID)
		return err
	})
	f.do(func() (err error) {
		sc.Tasks, err = b.store.ListTasksByVendor(ctx, vendor.ID)
		return wrapStoreErr(err, "tasks")
	})
	f.do(func() (err error) {
		sc.Messages, err = b.store.ListMessagesByParticipant(ctx, vendor.ID)
		return wrapStoreErr(err, "messages")
	})
	f.do(func() (err error) {
		sc.Offerings, err = b.store.ListElementsByVendor(ctx, vendor.ID)
		return wrapStoreErr(err, "offerings")
	})
	if err := f.wait(); err != nil {
		return nil, err
	}

	sc.AsOf = time.Now().UTC()
	return sc, nil
}

// ownedEventForClient fetches an event and applies the client ownership
// rule. NotFound and Unauthorized stay distinct: absence is a data
// signal, existence under another owner is a security signal.
func (b *Builder) ownedEventForClient(ctx context.Context, id identity.Identity, eventID string) (*entity.Event, error) {
	event, err := b.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, wrapStoreErr(err, "event")
	}
	if event.ClientID != id.ActorID {
		logUnauthorized(id, "event", eventID)
		return nil, apperr.New(apperr.Unauthorized, "event %s does not belong to this client", eventID)
	}
	return event, nil
}

// vendorEvents returns the distinct events in which the vendor has at
// least one attached offering.
func (b *Builder) vendorEvents(ctx context.Context, vendorID string) ([]entity.Event, error) {
	offerings, err := b.store.ListElementsByVendor(ctx, vendorID)
	if err != nil {
		return nil, wrapStoreErr(err, "offerings")
	}
	seen := map[string]bool{}
	var eventIDs []string
	for _, el := range offerings {
		attachments, err := b.store.ListEventElementsByElement(ctx, el.ID)
		if err != nil {
			return nil, wrapStoreErr(err, "event elements")
		}
		for _, ee := range attachments {
			if !seen[ee.EventID] {
				seen[ee.EventID] = true
				eventIDs = append(eventIDs, ee.EventID)
			}
		}
	}
	events, err := b.store.ListEventsByIDs(ctx, eventIDs)
	return events, wrapStoreErr(err, "events")
}

func enrichVendorNames(elements []entity.EventElement, directory []store.VendorDirectoryEntry, venue *entity.Venue) []EventElementView {
	names := make(map[string]string, len(directory))
	for _, d := range directory {
		names[d.VendorID] = d.VendorName
	}
	out := make([]EventElementView, 0, len(elements))
	for _, el := range elements {
		name := names[el.VendorID]
		if el.VendorID == "" && venue != nil {
			name = venue.Name
		}
		out = append(out, EventElementView{EventElement: el, VendorName: name})
	}
	return out
}

func wrapStoreErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return apperr.Wrap(apperr.NotFound, err, "%s not found", what)
	}
	var tagged *apperr.Error
	if errors.As(err, &tagged) {
		return err
	}
	return apperr.Wrap(apperr.ExecutionError, err, "reading %s", what)
}

func logUnauthorized(id identity.Identity, entityKind, entityID string) {
	log.Warn().
		Str("actor_id", id.ActorID).
		Str("actor_role", string(id.Role)).
		Str("entity", entityKind).
		Str("entity_id", entityID).
		Msg("scope_ownership_denied")
}
