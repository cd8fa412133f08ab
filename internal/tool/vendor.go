package tool

import (
	"context"

	"github.com/eventra-io/eventra/internal/apperr"
	"github.com/eventra-io/eventra/internal/entity"
	"github.com/eventra-io/eventra/internal/identity"
	"github.com/eventra-io/eventra/internal/store"
)

// Vendor catalogue tool names.
const (
	VendorGetEventDetails = "get_event_details"
	VendorCompleteTask    = "complete_task"
	VendorUpdateOffering  = "update_offering"
	VendorCreateOffering  = "create_offering"
	VendorSendMessage     = "send_message"
)

func vendorTools() []Definition {
	return []Definition{
		{
			Name:        VendorGetEventDetails,
			Description: "Get details of an event you are supplying, limited to your own attached offerings.",
			InputSchema: `{
				"type": "object",
				"required": ["event_id"],
				"additionalProperties": false,
				"properties": {
					"event_id": {"type": "string", "minLength": 1}
				}
			}`,
			handler: func(ctx context.Context, st *store.Store, id identity.Identity, args Args) (interface{}, error) {
				ev, err := eventInvolvesVendor(ctx, st, id, args.String("event_id"))
				if err != nil {
					return nil, err
				}
				attached, err := st.ListEventElements(ctx, ev.ID)
				if err != nil {
					return nil, storeErr(err, "event elements")
				}
				// Only the vendor's own attachments are visible.
				var own []entity.EventElement
				for _, ee := range attached {
					if ee.VendorID == id.ActorID {
						own = append(own, ee)
					}
				}
				return map[string]interface{}{"event": ev, "event_elements": own}, nil
			},
		},
		{
			Name:        VendorCompleteTask,
			Description: "Mark a task assigned to you complete, optionally with a response. Structured responses may be passed as a JSON-encoded string.",
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
				if task.AssigneeRole != string(identity.RoleVendor) || task.VendorID != id.ActorID {
					denied(id, "task", task.ID)
					return nil, apperr.New(apperr.Unauthorized, "task %s is not assigned to this vendor", task.ID)
				}
				return completeTaskGuarded(ctx, st, id, task, args.String("response"),
					func(response string) (*entity.Task, error) {
						return st.CompleteTaskForVendor(ctx, task.ID, id.ActorID, response)
					})
			},
		},
		{
			Name:        VendorUpdateOffering,
			Description: "Update one of your offerings: price, description, or availability.",
			InputSchema: `{
				"type": "object",
				"required": ["element_id"],
				"additionalProperties": false,
				"properties": {
					"element_id": {"type": "string", "minLength": 1},
					"price": {"type": "number", "minimum": 0},
					"description": {"type": "string"},
					"available": {"type": "boolean"}
				}
			}`,
			handler: func(ctx context.Context, st *store.Store, id identity.Identity, args Args) (interface{}, error) {
				el, err := st.GetElement(ctx, args.String("element_id"))
				if err != nil {
					return nil, storeErr(err, "element")
				}
				if el.VendorID != id.ActorID {
					denied(id, "element", el.ID)
					return nil, apperr.New(apperr.Unauthorized, "element %s does not belong to this vendor", el.ID)
				}
				var upd store.ElementUpdate
				if args.Has("price") {
					p := args.Float("price")
					upd.Price = &p
				}
				if args.Has("description") {
					d := args.String("description")
					upd.Description = &d
				}
				if args.Has("available") {
					a := args.Bool("available")
					upd.Available = &a
				}
				updated, err := st.UpdateElementOffering(ctx, el.ID, id.ActorID, upd)
				if err != nil {
					return nil, storeErr(err, "element")
				}
				return updated, nil
			},
		},
		{
			Name:        VendorCreateOffering,
			Description: "Add a new offering to a venue's catalogue. Requires approved status on that venue's vendor directory.",
			InputSchema: `{
				"type": "object",
				"required": ["venue_id", "name", "price"],
				"additionalProperties": false,
				"properties": {
					"venue_id": {"type": "string", "minLength": 1},
					"name": {"type": "string", "minLength": 1},
					"price": {"type": "number", "minimum": 0},
					"description": {"type": "string"},
					"category": {"type": "string"},
					"lead_time_days": {"type": "integer", "minimum": 0}
				}
			}`,
			handler: func(ctx context.Context, st *store.Store, id identity.Identity, args Args) (interface{}, error) {
				venueID := args.String("venue_id")
				if err := approvedVendorInDirectory(ctx, st, id.ActorID, venueID); err != nil {
					return nil, err
				}
				el, err := st.CreateElement(ctx, &entity.Element{
					VenueID:      venueID,
					VendorID:     id.ActorID,
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
		{
			Name:        VendorSendMessage,
			Description: "Send a message to the venue of an event you are supplying.",
			InputSchema: `{
				"type": "object",
				"required": ["event_id", "content"],
				"additionalProperties": false,
				"properties": {
					"event_id": {"type": "string", "minLength": 1},
					"content": {"type": "string", "minLength": 1}
				}
			}`,
			handler: func(ctx context.Context, st *store.Store, id identity.Identity, args Args) (interface{}, error) {
				ev, err := eventInvolvesVendor(ctx, st, id, args.String("event_id"))
				if err != nil {
					return nil, err
				}
				msg, err := st.CreateMessage(ctx, &entity.Message{
					EventID:       ev.ID,
					SenderID:      id.ActorID,
					SenderRole:    string(id.Role),
					RecipientID:   ev.VenueID,
					RecipientRole: string(identity.RoleVenue),
					Content:       args.String("content"),
				})
				if err != nil {
					return nil, storeErr(err, "message")
				}
				recordAction(ctx, st, id, ev.ID, "message_sent", "vendor sent a message to the venue")
				return msg, nil
			},
		},
	}
}
