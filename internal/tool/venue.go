package tool

import (
	"context"
	"time"

	"github.com/eventra-io/eventra/internal/apperr"
	"github.com/eventra-io/eventra/internal/entity"
	"github.com/eventra-io/eventra/internal/identity"
	"github.com/eventra-io/eventra/internal/store"
)

// Venue catalogue tool names. Several are shared with the client and
// vendor catalogues; the handlers bound here apply venue ownership.
const (
	VenueGetEventDetails      = "get_event_details"
	VenueUpdateEventStatus    = "update_event_status"
	VenueCreateTask           = "create_task"
	VenueCompleteTask         = "complete_task"
	VenueAddGuest             = "add_guest"
	VenueAddElementToEvent    = "add_element_to_event"
	VenueUpdateVendorApproval = "update_vendor_approval"
	VenueSendMessage          = "send_message"
	VenueCreateOffering       = "create_offering"
)

func venueTools() []Definition {
	return []Definition{
		{
			Name:        VenueGetEventDetails,
			Description: "Get the full details of one of your venue's events, including attached elements.",
			InputSchema: `{
				"type": "object",
				"required": ["event_id"],
				"additionalProperties": false,
				"properties": {
					"event_id": {"type": "string", "minLength": 1}
				}
			}`,
			handler: func(ctx context.Context, st *store.Store, id identity.Identity, args Args) (interface{}, error) {
				ev, err := eventOwnedByVenue(ctx, st, id, args.String("event_id"))
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
			Name:        VenueUpdateEventStatus,
			Description: "Update an event's status (planning, confirmed, completed, cancelled).",
			InputSchema: `{
				"type": "object",
				"required": ["event_id", "status"],
				"additionalProperties": false,
				"properties": {
					"event_id": {"type": "string", "minLength": 1},
					"status": {"type": "string", "enum": ["planning", "confirmed", "completed", "cancelled"]}
				}
			}`,
			handler: func(ctx context.Context, st *store.Store, id identity.Identity, args Args) (interface{}, error) {
				ev, err := eventOwnedByVenue(ctx, st, id, args.String("event_id"))
				if err != nil {
					return nil, err
				}
				updated, err := st.UpdateEventStatus(ctx, ev.ID, id.ActorID, args.String("status"))
				if err != nil {
					return nil, storeErr(err, "event")
				}
				recordAction(ctx, st, id, ev.ID, "status_changed", "event status set to "+updated.Status)
				return updated, nil
			},
		},
		{
			Name:        VenueCreateTask,
			Description: "Create a task on an event for the client, the venue team, or an assigned vendor. A form for the assignee may be passed as a JSON-encoded string in form_schema.",
			InputSchema: `{
				"type": "object",
				"required": ["event_id", "title", "assignee_role"],
				"additionalProperties": false,
				"properties": {
					"event_id": {"type": "string", "minLength": 1},
					"title": {"type": "string", "minLength": 1},
					"description": {"type": "string"},
					"assignee_role": {"type": "string", "enum": ["client", "venue", "vendor"]},
					"vendor_id": {"type": "string"},
					"due_date": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
					"form_schema": {"type": "string"}
				}
			}`,
			handler: func(ctx context.Context, st *store.Store, id identity.Identity, args Args) (interface{}, error) {
				ev, err := eventOwnedByVenue(ctx, st, id, args.String("event_id"))
				if err != nil {
					return nil, err
				}
				assignee := args.String("assignee_role")
				vendorID := args.String("vendor_id")
				if assignee == string(identity.RoleVendor) {
					if vendorID == "" {
						return nil, apperr.New(apperr.ValidationError, "invalid arguments: vendor_id is required when assignee_role is vendor")
					}
					if err := vendorInVenueDirectory(ctx, st, vendorID, id.ActorID); err != nil {
						return nil, err
					}
				} else {
					vendorID = ""
				}
				var due *time.Time
				if d := args.String("due_date"); d != "" {
					parsed, err := time.Parse("2006-01-02", d)
					if err != nil {
						return nil, apperr.New(apperr.ValidationError, "invalid arguments: due_date: must be YYYY-MM-DD")
					}
					due = &parsed
				}
				task, err := st.CreateTask(ctx, &entity.Task{
					EventID:      ev.ID,
					VenueID:      id.ActorID,
					Title:        args.String("title"),
					Description:  args.String("description"),
					AssigneeRole: assignee,
					VendorID:     vendorID,
					DueDate:      due,
					FormSchema:   normalizeStructured(args.String("form_schema")),
				})
				if err != nil {
					return nil, storeErr(err, "task")
				}
				recordAction(ctx, st, id, ev.ID, "task_created", "created task "+task.Title+" for "+assignee)
				return task, nil
			},
		},
		{
			Name:        VenueCompleteTask,
			Description: "Mark one of your venue's tasks complete, optionally with a response.",
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
				if task.VenueID != id.ActorID {
					denied(id, "task", task.ID)
					return nil, apperr.New(apperr.Unauthorized, "task %s does not belong to this venue", task.ID)
				}
				return completeTaskGuarded(ctx, st, id, task, args.String("response"),
					func(response string) (*entity.Task, error) {
						return st.CompleteTaskForVenue(ctx, task.ID, id.ActorID, response)
					})
			},
		},
		{
			Name:        VenueAddGuest,
			Description: "Add a guest to one of your events' guest lists on the client's behalf.",
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
				ev, err := eventOwnedByVenue(ctx, st, id, args.String("event_id"))
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
			Name:        VenueAddElementToEvent,
			Description: "Attach a catalogue offering to one of your events. Subject to the same availability and lead-time rules as client additions.",
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
				ev, err := eventOwnedByVenue(ctx, st, id, args.String("event_id"))
				if err != nil {
					return nil, err
				}
				return attachElement(ctx, st, id, ev, args.String("element_id"), args.String("notes"))
			},
		},
		{
			Name:        VenueUpdateVendorApproval,
			Description: "Approve or reject a vendor on your venue's directory.",
			InputSchema: `{
				"type": "object",
				"required": ["venue_vendor_id", "approval_status"],
				"additionalProperties": false,
				"properties": {
					"venue_vendor_id": {"type": "string", "minLength": 1},
					"approval_status": {"type": "string", "enum": ["pending", "approved", "rejected"]}
				}
			}`,
			handler: func(ctx context.Context, st *store.Store, id identity.Identity, args Args) (interface{}, error) {
				vv, err := st.GetVenueVendor(ctx, args.String("venue_vendor_id"))
				if err != nil {
					return nil, storeErr(err, "vendor directory entry")
				}
				if vv.VenueID != id.ActorID {
					denied(id, "venue_vendor", vv.ID)
					return nil, apperr.New(apperr.Unauthorized, "directory entry %s does not belong to this venue", vv.ID)
				}
				updated, err := st.UpdateVenueVendorApproval(ctx, vv.ID, id.ActorID, args.String("approval_status"))
				if err != nil {
					return nil, storeErr(err, "vendor directory entry")
				}
				return updated, nil
			},
		},
		{
			Name:        VenueSendMessage,
			Description: "Send a message to a client or vendor, optionally in the context of an event.",
			InputSchema: `{
				"type": "object",
				"required": ["recipient_role", "recipient_id", "content"],
				"additionalProperties": false,
				"properties": {
					"recipient_role": {"type": "string", "enum": ["client", "vendor"]},
					"recipient_id": {"type": "string", "minLength": 1},
					"content": {"type": "string", "minLength": 1},
					"event_id": {"type": "string"}
				}
			}`,
			handler: func(ctx context.Context, st *store.Store, id identity.Identity, args Args) (interface{}, error) {
				eventID := args.String("event_id")
				if eventID != "" {
					if _, err := eventOwnedByVenue(ctx, st, id, eventID); err != nil {
						return nil, err
					}
				}
				recipientRole := args.String("recipient_role")
				recipientID := args.String("recipient_id")
				switch recipientRole {
				case string(identity.RoleClient):
					client, err := st.GetClient(ctx, recipientID)
					if err != nil {
						return nil, storeErr(err, "client")
					}
					if client.VenueID != id.ActorID {
						denied(id, "client", recipientID)
						return nil, apperr.New(apperr.Unauthorized, "client %s does not belong to this venue", recipientID)
					}
				case string(identity.RoleVendor):
					if err := vendorInVenueDirectory(ctx, st, recipientID, id.ActorID); err != nil {
						return nil, err
					}
				}
				msg, err := st.CreateMessage(ctx, &entity.Message{
					EventID:       eventID,
					SenderID:      id.ActorID,
					SenderRole:    string(id.Role),
					RecipientID:   recipientID,
					RecipientRole: recipientRole,
					Content:       args.String("content"),
				})
				if err != nil {
					return nil, storeErr(err, "message")
				}
				recordAction(ctx, st, id, eventID, "message_sent", "sent a message to the "+recipientRole)
				return msg, nil
			},
		},
		{
			Name:        VenueCreateOffering,
			Description: "Add an offering to your venue's catalogue, in-house or on behalf of an approved vendor.",
			InputSchema: `{
				"type": "object",
				"required": ["name", "price"],
				"additionalProperties": false,
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"price": {"type": "number", "minimum": 0},
					"description": {"type": "string"},
					"category": {"type": "string"},
					"lead_time_days": {"type": "integer", "minimum": 0},
					"vendor_id": {"type": "string"}
				}
			}`,
			handler: func(ctx context.Context, st *store.Store, id identity.Identity, args Args) (interface{}, error) {
				vendorID := args.String("vendor_id")
				if vendorID != "" {
					if err := approvedVendorInDirectory(ctx, st, vendorID, id.ActorID); err != nil {
						return nil, err
					}
				}
				el, err := st.CreateElement(ctx, &entity.Element{
					VenueID:      id.ActorID,
					VendorID:     vendorID,
					Name:         args.String("name"),
					Description:  args.String("description"),
					Category:     args.String("category"),
					Price:        args.Float("price"),
					LeadTimeDays: args.Int("lead_time_days"),
					Available:    true,
				})
				if err != nil {
					return nil, storeErr(err, "element")
				}
				return el, nil
			},
		},
	}
}

// approvedVendorInDirectory requires the vendor to be listed and
// approved on the venue's directory.
func approvedVendorInDirectory(ctx context.Context, st *store.Store, vendorID, venueID string) error {
	directory, err := st.ListVendorDirectory(ctx, venueID)
	if err != nil {
		return storeErr(err, "vendor directory")
	}
	for _, d := range directory {
		if d.VendorID == vendorID {
			if d.ApprovalStatus != entity.ApprovalApproved {
				return apperr.New(apperr.PreconditionFailed, "vendor %s is not approved for this venue", vendorID)
			}
			return nil
		}
	}
	return apperr.New(apperr.Unauthorized, "vendor %s is not in the venue's directory", vendorID)
}
