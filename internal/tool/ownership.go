package tool

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/eventra-io/eventra/internal/apperr"
	"github.com/eventra-io/eventra/internal/entity"
	"github.com/eventra-io/eventra/internal/identity"
	"github.com/eventra-io/eventra/internal/store"
)

// Ownership re-checks at execution time. These run on every handler
// even though the scope builder already authorized a snapshot: the
// model may reference ids from stale or adversarially-crafted input,
// not only ids it was shown.

func eventOwnedByClient(ctx context.Context, st *store.Store, id identity.Identity, eventID string) (*entity.Event, error) {
	ev, err := st.GetEvent(ctx, eventID)
	if err != nil {
		return nil, storeErr(err, "event")
	}
	if ev.ClientID != id.ActorID {
		denied(id, "event", eventID)
		return nil, apperr.New(apperr.Unauthorized, "event %s does not belong to this client", eventID)
	}
	return ev, nil
}

func eventOwnedByVenue(ctx context.Context, st *store.Store, id identity.Identity, eventID string) (*entity.Event, error) {
	ev, err := st.GetEvent(ctx, eventID)
	if err != nil {
		return nil, storeErr(err, "event")
	}
	if ev.VenueID != id.ActorID {
		denied(id, "event", eventID)
		return nil, apperr.New(apperr.Unauthorized, "event %s is not hosted by this venue", eventID)
	}
	return ev, nil
}

// eventInvolvesVendor authorizes a vendor against an event: the vendor
// must have at least one of its offerings attached.
func eventInvolvesVendor(ctx context.Context, st *store.Store, id identity.Identity, eventID string) (*entity.Event, error) {
	ev, err := st.GetEvent(ctx, eventID)
	if err != nil {
		return nil, storeErr(err, "event")
	}
	attached, err := st.ListEventElements(ctx, eventID)
	if err != nil {
		return nil, storeErr(err, "event elements")
	}
	for _, ee := range attached {
		if ee.VendorID == id.ActorID {
			return ev, nil
		}
	}
	denied(id, "event", eventID)
	return nil, apperr.New(apperr.Unauthorized, "vendor has no offering on event %s", eventID)
}

// checkElementAttachable enforces the domain preconditions for
// attaching an element to an event. Must pass before the write is
// issued.
func checkElementAttachable(el *entity.Element, ev *entity.Event, now time.Time) error {
	if el.VenueID != ev.VenueID {
		return apperr.New(apperr.Unauthorized, "element %s is not in this venue's catalogue", el.ID)
	}
	if !el.Available {
		return apperr.New(apperr.PreconditionFailed, "element %s is not currently available", el.ID)
	}
	if el.LeadTimeDays > 0 {
		earliest := now.UTC().Truncate(24 * time.Hour).AddDate(0, 0, el.LeadTimeDays)
		if ev.Date.Before(earliest) {
			return apperr.New(apperr.PreconditionFailed,
				"element %s requires %d days lead time; the event date is too soon", el.ID, el.LeadTimeDays)
		}
	}
	day := ev.Date.UTC().Format("2006-01-02")
	for _, blackout := range el.BlackoutDates {
		if blackout == day {
			return apperr.New(apperr.PreconditionFailed, "element %s is not available on %s", el.ID, day)
		}
	}
	return nil
}

// attachElement is the shared body of the client and venue
// add_element_to_event handlers; the caller has already authorized ev.
func attachElement(ctx context.Context, st *store.Store, id identity.Identity, ev *entity.Event, elementID, notes string) (interface{}, error) {
	el, err := st.GetElement(ctx, elementID)
	if err != nil {
		return nil, storeErr(err, "element")
	}
	if err := checkElementAttachable(el, ev, time.Now()); err != nil {
		return nil, err
	}
	created, err := st.CreateEventElement(ctx, &entity.EventElement{
		EventID:   ev.ID,
		ElementID: el.ID,
		VendorID:  el.VendorID,
		Name:      el.Name,
		Amount:    el.Price,
		Notes:     notes,
	})
	if err != nil {
		return nil, storeErr(err, "event element")
	}
	recordAction(ctx, st, id, ev.ID, "element_added", "added "+el.Name+" to the event")
	return created, nil
}

// completeTaskGuarded is the shared completion body; guard performs the
// role-specific guarded write after the open-status precondition.
func completeTaskGuarded(ctx context.Context, st *store.Store, id identity.Identity, task *entity.Task, response string,
	guard func(response string) (*entity.Task, error)) (interface{}, error) {
	if task.Status == entity.TaskCompleted {
		return nil, apperr.New(apperr.PreconditionFailed, "task %s is already completed", task.ID)
	}
	// Lenient decode: a structured response is stored in compact form,
	// anything that fails to parse is stored as the literal string.
	updated, err := guard(normalizeStructured(response))
	if err != nil {
		return nil, storeErr(err, "task")
	}
	recordAction(ctx, st, id, task.EventID, "task_completed", "completed task "+task.Title)
	return updated, nil
}

// recordAction appends history best-effort: a failed history write is
// logged, not surfaced, because the primary mutation already happened.
func recordAction(ctx context.Context, st *store.Store, id identity.Identity, eventID, actionType, description string) {
	if eventID == "" {
		return
	}
	err := st.RecordAction(ctx, &entity.ActionRecord{
		EventID:     eventID,
		ActorID:     id.ActorID,
		ActorRole:   string(id.Role),
		ActionType:  actionType,
		Description: description,
	})
	if err != nil {
		log.Error().Err(err).Str("event_id", eventID).Str("action_type", actionType).Msg("action_history_write_failed")
	}
}

func storeErr(err error, what string) error {
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
	return apperr.Wrap(apperr.ExecutionError, err, "accessing %s", what)
}

func denied(id identity.Identity, entityKind, entityID string) {
	log.Warn().
		Str("actor_id", id.ActorID).
		Str("actor_role", string(id.Role)).
		Str("entity", entityKind).
		Str("entity_id", entityID).
		Msg("tool_ownership_denied")
}
