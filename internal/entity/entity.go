// Package entity defines the domain row types the engine operates over.
// These are plain values: the store reads and writes them, the scope
// builders aggregate them, and tool handlers return them inside result
// envelopes. No behavior lives here.
package entity

import "time"

// Client is an end customer of a venue.
type Client struct {
	ID        string     `json:"client_id"`
	VenueID   string     `json:"venue_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"-"`
}

// Venue is a tenant: the owner of events, spaces, offerings, and the
// vendor directory.
type Venue struct {
	ID          string     `json:"venue_id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Address     string     `json:"address,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	DeletedAt   *time.Time `json:"-"`
}

// Vendor is an external supplier offering elements through one or more
// venues.
type Vendor struct {
	ID        string     `json:"vendor_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Category  string     `json:"category,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"-"`
}

// Vendor approval statuses on a venue's directory entry.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// VenueVendor is a venue's directory entry for a vendor, carrying the
// venue-local approval status.
type VenueVendor struct {
	ID             string     `json:"venue_vendor_id"`
	VenueID        string     `json:"venue_id"`
	VendorID       string     `json:"vendor_id"`
	ApprovalStatus string     `json:"approval_status"`
	CreatedAt      time.Time  `json:"created_at"`
	DeletedAt      *time.Time `json:"-"`
}

// Space is a bookable room or area within a venue.
type Space struct {
	ID        string     `json:"space_id"`
	VenueID   string     `json:"venue_id"`
	Name      string     `json:"name"`
	Capacity  int        `json:"capacity"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"-"`
}

// Event statuses.
const (
	EventStatusPlanning  = "planning"
	EventStatusConfirmed = "confirmed"
	EventStatusCompleted = "completed"
	EventStatusCancelled = "cancelled"
)

// Event is a planned occasion owned by a client and hosted by a venue.
type Event struct {
	ID         string     `json:"event_id"`
	ClientID   string     `json:"client_id"`
	VenueID    string     `json:"venue_id"`
	SpaceID    string     `json:"space_id,omitempty"`
	Name       string     `json:"name"`
	Type       string     `json:"type,omitempty"`
	Date       time.Time  `json:"date"`
	GuestCount int        `json:"guest_count"`
	Budget     float64    `json:"budget,omitempty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"-"`
}

// Element is a catalogue offering: a service or item a venue (or one of
// its vendors) can attach to an event. VendorID is empty for in-house
// offerings.
type Element struct {
	ID            string     `json:"element_id"`
	VenueID       string     `json:"venue_id"`
	VendorID      string     `json:"vendor_id,omitempty"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Category      string     `json:"category,omitempty"`
	Price         float64    `json:"price"`
	LeadTimeDays  int        `json:"lead_time_days"`
	Available     bool       `json:"available"`
	BlackoutDates []string   `json:"blackout_dates,omitempty"` // YYYY-MM-DD
	CreatedAt     time.Time  `json:"created_at"`
	DeletedAt     *time.Time `json:"-"`
}

// Event-element statuses.
const (
	EventElementPending   = "pending"
	EventElementConfirmed = "confirmed"
	EventElementCancelled = "cancelled"
)

// EventElement is an element attached to an event, with the price
// captured at attach time.
type EventElement struct {
	ID        string     `json:"event_element_id"`
	EventID   string     `json:"event_id"`
	ElementID string     `json:"element_id"`
	VendorID  string     `json:"vendor_id,omitempty"`
	Name      string     `json:"name"`
	Amount    float64    `json:"amount"`
	Status    string     `json:"status"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"-"`
}

// RSVP statuses.
const (
	RSVPPending   = "pending"
	RSVPAttending = "attending"
	RSVPDeclined  = "declined"
)

// Guest is an invitee on an event's guest list.
type Guest struct {
	ID         string     `json:"guest_id"`
	EventID    string     `json:"event_id"`
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	RSVPStatus string     `json:"rsvp_status"`
	PlusOnes   int        `json:"plus_ones"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"-"`
}

// Task statuses.
const (
	TaskOpen      = "open"
	TaskCompleted = "completed"
)

// Task is a to-do attached to an event, assigned to one of the three
// roles. FormSchema and Response carry string-encoded structured data
// when present (see tool.DecodeStructured).
type Task struct {
	ID           string     `json:"task_id"`
	EventID      string     `json:"event_id"`
	VenueID      string     `json:"venue_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	AssigneeRole string     `json:"assignee_role"`
	VendorID     string     `json:"vendor_id,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Status       string     `json:"status"`
	FormSchema   string     `json:"form_schema,omitempty"`
	Response     string     `json:"response,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"-"`
}

// Message is one entry in an event's (or tenant's) message thread.
type Message struct {
	ID            string     `json:"message_id"`
	EventID       string     `json:"event_id,omitempty"`
	SenderID      string     `json:"sender_id"`
	SenderRole    string     `json:"sender_role"`
	RecipientID   string     `json:"recipient_id"`
	RecipientRole string     `json:"recipient_role"`
	Content       string     `json:"content"`
	CreatedAt     time.Time  `json:"created_at"`
	DeletedAt     *time.Time `json:"-"`
}

// ActionRecord is one line of the per-event action history the model
// reads for situational awareness. Mutating tool handlers append these.
type ActionRecord struct {
	ID          string    `json:"action_id"`
	EventID     string    `json:"event_id"`
	ActorID     string    `json:"actor_id"`
	ActorRole   string    `json:"actor_role"`
	ActionType  string    `json:"action_type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
