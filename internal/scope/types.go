package scope

import (
	"time"

	"github.com/eventra-io/eventra/internal/entity"
	"github.com/eventra-io/eventra/internal/store"
)

// EventElementView is an attached element enriched with the providing
// vendor's display name (the venue's own name for in-house offerings).
type EventElementView struct {
	entity.EventElement
	VendorName string `json:"vendor_name"`
}

// ClientScope is the snapshot a client's assistant reasons over: the
// client's one event plus everything the client may see around it.
type ClientScope struct {
	Client          *entity.Client               `json:"client"`
	Event           *entity.Event                `json:"event"`
	Venue           *entity.Venue                `json:"venue"`
	EventElements   []EventElementView           `json:"event_elements"`
	Tasks           []entity.Task                `json:"tasks"`
	Guests          []entity.Guest               `json:"guests"`
	Offerings       []entity.Element             `json:"offerings"`
	VendorDirectory []store.VendorDirectoryEntry `json:"vendor_directory"`
	Messages        []entity.Message             `json:"messages"`
	RecentActions   []entity.ActionRecord        `json:"recent_actions"`
	AsOf            time.Time                    `json:"as_of"`
}

// VenueTenantScope is the tenant-wide snapshot for a venue operator:
// aggregates across every event, deliberately without per-event detail
// (that lives in VenueEventScope; the two must not be conflated in one
// brief).
type VenueTenantScope struct {
	Venue           *entity.Venue                `json:"venue"`
	Events          []entity.Event               `json:"events"`
	Tasks           []entity.Task                `json:"tasks"`
	OpenTaskCount   int                          `json:"open_task_count"`
	Messages        []entity.Message             `json:"messages"`
	MessageCount    int                          `json:"message_count"`
	VendorDirectory []store.VendorDirectoryEntry `json:"vendor_directory"`
	Spaces          []entity.Space               `json:"spaces"`
	RecentActions   []entity.ActionRecord        `json:"recent_actions"`
	AsOf            time.Time                    `json:"as_of"`
}

// VenueEventScope is a venue operator's single-event snapshot: the
// event in full detail plus the tenant's catalogue and vendor directory
// for reference.
type VenueEventScope struct {
	Venue           *entity.Venue                `json:"venue"`
	Event           *entity.Event                `json:"event"`
	Client          *entity.Client               `json:"client"`
	EventElements   []EventElementView           `json:"event_elements"`
	Tasks           []entity.Task                `json:"tasks"`
	Guests          []entity.Guest               `json:"guests"`
	Messages        []entity.Message             `json:"messages"`
	Offerings       []entity.Element             `json:"offerings"`
	VendorDirectory []store.VendorDirectoryEntry `json:"vendor_directory"`
	RecentActions   []entity.ActionRecord        `json:"recent_actions"`
	AsOf            time.Time                    `json:"as_of"`
}

// VendorScope is the restricted snapshot for a vendor: only events the
// vendor supplies, only its own tasks, messages, and offerings. No
// cross-vendor visibility.
type VendorScope struct {
	Vendor    *entity.Vendor   `json:"vendor"`
	Events    []entity.Event   `json:"events"`
	Tasks     []entity.Task    `json:"tasks"`
	Messages  []entity.Message `json:"messages"`
	Offerings []entity.Element `json:"offerings"`
	AsOf      time.Time        `json:"as_of"`
}
