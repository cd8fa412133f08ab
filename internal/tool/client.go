package tool

import (
	"context"

	"github.com/eventra-io/eventra/internal/apperr"
	"github.com/eventra-io/eventra/internal/entity"
	"github.com/eventra-io/eventra/internal/identity"
	"github.com/eventra-io/eventra/internal/store"
)

// Client catalogue tool names.
const (
	ClientGetEventDetails        = "get_event_details"
	ClientGetElementDetails      = "get_element_details"
	ClientAddElementToEvent      = "add_element_to_event"
	ClientRemoveElementFromEvent = "remove_element_from_event"
	ClientAddGuest               = "add_guest"
	ClientUpdateGuestRSVP        = "update_guest_rsvp"
	ClientCompleteTask           = "complete_task"
	ClientSendMessage            = "send_message"
)

func clientTools() []Definition {
	return []Definition{
		{
			Name:        ClientGetEventDetails,
			Description: "Get the current details of your event, including attached elements.",
			InputSchema: `{
				"type": "object",
				"required": ["event_id"],
				"additionalProperties": false,
				"properties": {
					"event_id": {"type": "string", "minLength": 1}
				}
			}`,
			handler: func(ctx context.Context, st *store.Store, id identity.Identity, args Args) (interface{}, error) {
				ev, err := eventOwnedByClient(ctx, st, id, args.String("event_id"))
				if err != nil {
					return nil, err
				}
				elements, err := st.ListEventElements(ctx, ev.ID)
				if err != nil {
					return nil, storeErr(err, "event elements")
				}
				return map[string]interface{}{"event": ev, "event_elements": elements}, nil
			},
		},
		{
			Name:        ClientGetElementDetails,
			Description: "Get details of one offering from your venue's catalogue: price, lead time, availability.",
			InputSchema: `{
				"type": "object",
				"required": ["element_id"],
				"additionalProperties": false,
				"properties": {
					"element_id": {"type": "string", "minLength": 1}
				}
			}`,
			handler: func(ctx context.Context, st *store.Store, id identity.Identity, args Args) (interface{}, error) {
				client, err := st.GetClient(ctx, id.ActorID)
				if err != nil {
					return nil, storeErr(err, "client")
				}
				el, err := st.GetElement(ctx, args.String("element_id"))
				if err != nil {
					return nil, storeErr(err, "element")
				}
				if el.VenueID != client.VenueID {
					denied(id, "element", el.ID)
					return nil, apperr.New(apperr.Unauthorized, "element %s is not in your venue's catalogue", el.ID)
				}
				return el, nil
			},
		},
		{
			Name:        ClientAddElementToEvent,
			Description: "Add an offering from the venue catalogue to your event. Fails if the element is unavailable, inside its lead time, or blacked out on the event date.",
			InputSchema: `{
				"type": "object",
				"required": ["event_id", "element_id"],
				"additionalProperties": false,
				"properties": {
					"event_id": {"type": "string", "minLength": 1},
					"element_id": {"type": "string", "minLength": 1},
					"notes": {"type": "string"}
				}
			}`,
			handler: func(ctx context.Context, st *store.Store, id identity.Identity, args Args) (interface{}, error) {
				ev, err := eventOwnedByClient(ctx, st, id, args.String("event_id"))
				if err != nil {
					return nil, err
				}
				return attachElement(ctx, st, id, ev, args.String("element_id"), args.String("notes"))
			},
		},
		{
			Name:        ClientRemoveElementFromEvent,
			Description: "Remove a previously added element from your event.",
			InputSchema: `{
				"type": "object",
				"required": ["event_id", "event_element_id"],
				"additionalProperties": false,
				"properties": {
					"event_id": {"type": "string", "minLength": 1},
					"event_element_id": {"type": "string", "minLength": 1}
				}
			}`,
			handler: func(ctx context.Context, st *store.Store, id identity.Identity, args Args) (interface{}, error) {
				ev, err := eventOwnedByClient(ctx, st, id, args.String("event_id"))
				if err != nil {
					return nil, err
				}
				eeID := args.String("event_element_id")
				if err := st.RemoveEventElement(ctx, eeID, ev.ID); err != nil {
					return nil, storeErr(err, "event element")
				}
				recordAction(ctx, st, id, ev.ID, "element_removed", "removed an element from the event")
				return map[string]interface{}{"removed": true, "event_element_id": eeID}, nil
			},
		},
		{
			Name:        ClientAddGuest,
			Description: "Add a guest to your event's guest list.",
			InputSchema: `{
				"type": "object",
				"required": ["event_id", "name"],
				"additionalProperties": false,
				"properties": {
					"event_id": {"type": "string", "minLength": 1},
					"name": {"type": "string", "minLength": 1},
					"email": {"type": "string"},
					"plus_ones": {"type": "integer", "minimum": 0}
				}
			}`,
			handler: func(ctx context.Context, st *store.Store, id identity.Identity, args Args) (interface{}, error) {
				ev, err := eventOwnedByClient(ctx, st, id, args.String("event_id"))
				if err != nil {
					return nil, err
				}
				guest, err := st.CreateGuest(ctx, &entity.Guest{
					EventID:  ev.ID,
					Name:     args.String("name"),
					Email:    args.String("email"),
					PlusOnes: args.Int("plus_ones"),
				})
				if err != nil {
					return nil, storeErr(err, "guest")
				}
				recordAction(ctx, st, id, ev.ID, "guest_added", "added guest "+guest.Name)
				return guest, nil
			},
		},
		{
			Name:        ClientUpdateGuestRSVP,
			Description: "Update a guest's RSVP status.",
			InputSchema: `{
				"type": "object",
				"required": ["guest_id", "rsvp_status"],
				"additionalProperties": false,
				"properties": {
					"guest_id": {"type": "string", "minLength": 1},
					"rsvp_status": {"type": "string", "enum": ["pending", "attending", "declined"]}
				}
			}`,
			handler: func(ctx context.Context, st *store.Store, id identity.Identity, args Args) (interface{}, error) {
				guest, err := st.GetGuest(ctx, args.String("guest_id"))
				if err != nil {
					return nil, storeErr(err, "guest")
				}
				ev, err := eventOwnedByClient(ctx, st, id, guest.EventID)
				if err != nil {
					return nil, err
				}
				updated, err := st.UpdateGuestRSVP(ctx, guest.ID, ev.ID, args.String("rsvp_status"))
				if err != nil {
					return nil, storeErr(err, "guest")
				}
				recordAction(ctx, st, id, ev.ID, "rsvp_updated", guest.Name+" is now "+updated.RSVPStatus)
				return updated, nil
			},
		},
		{
			Name:        ClientCompleteTask,
			Description: "Mark one of your tasks complete, optionally with a response. Structured responses may be passed as a JSON-encoded string.",
			InputSchema: `{
				"type": "object",
				"required": ["task_id"],
				"additionalProperties": false,
				"properties": {
					"task_id": {"type": "string", "minLength": 1},
					"response": {"type": "string"}
				}
			}`,
			handler: func(ctx context.Context, st *store.Store, id identity.Identity, args Args) (interface{}, error) {
				task, err := st.GetTask(ctx, args.String("task_id"))
				if err != nil {
					return nil, storeErr(err, "task")
				}
				ev, err := eventOwnedByClient(ctx, st, id, task.EventID)
				if err != nil {
					return nil, err
				}
				if task.AssigneeRole != string(identity.RoleClient) {
					return nil, apperr.New(apperr.Unauthorized, "task %s is not assigned to the client", task.ID)
				}
				return completeTaskGuarded(ctx, st, id, task, args.String("response"),
					func(response string) (*entity.Task, error) {
						return st.CompleteTaskForEvent(ctx, task.ID, ev.ID, response)
					})
			},
		},
		{
			Name:        ClientSendMessage,
			Description: "Send a message about your event to the venue or to one of its vendors.",
			InputSchema: `{
				"type": "object",
				"required": ["event_id", "recipient_role", "content"],
				"additionalProperties": false,
				"properties": {
					"event_id": {"type": "string", "minLength": 1},
					"recipient_role": {"type": "string", "enum": ["venue", "vendor"]},
					"recipient_id": {"type": "string"},
					"content": {"type": "string", "minLength": 1}
				}
			}`,
			handler: func(ctx context.Context, st *store.Store, id identity.Identity, args Args) (interface{}, error) {
				ev, err := eventOwnedByClient(ctx, st, id, args.String("event_id"))
				if err != nil {
					return nil, err
				}
				recipientRole := args.String("recipient_role")
				recipientID := args.String("recipient_id")
				switch recipientRole {
				case string(identity.RoleVenue):
					recipientID = ev.VenueID
				case string(identity.RoleVendor):
					if recipientID == "" {
						return nil, apperr.New(apperr.ValidationError, "invalid arguments: recipient_id is required when recipient_role is vendor")
					}
					if err := vendorInVenueDirectory(ctx, st, recipientID, ev.VenueID); err != nil {
						denied(id, "vendor", recipientID)
						return nil, err
					}
				}
				msg, err := st.CreateMessage(ctx, &entity.Message{
					EventID:       ev.ID,
					SenderID:      id.ActorID,
					SenderRole:    string(id.Role),
					RecipientID:   recipientID,
					RecipientRole: recipientRole,
					Content:       args.String("content"),
				})
				if err != nil {
					return nil, storeErr(err, "message")
				}
				recordAction(ctx, st, id, ev.ID, "message_sent", "sent a message to the "+recipientRole)
				return msg, nil
			},
		},
	}
}

// vendorInVenueDirectory checks a vendor exists and is listed in the
// venue's directory.
func vendorInVenueDirectory(ctx context.Context, st *store.Store, vendorID, venueID string) error {
	directory, err := st.ListVendorDirectory(ctx, venueID)
	if err != nil {
		return storeErr(err, "vendor directory")
	}
	for _, d := range directory {
		if d.VendorID == vendorID {
			return nil
		}
	}
	return apperr.New(apperr.Unauthorized, "vendor %s is not in the venue's directory", vendorID)
}
