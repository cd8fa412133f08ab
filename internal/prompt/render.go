// Package prompt renders a scope snapshot into the textual brief the
// model consumes. It only reads the snapshot; authorization happened in
// the builder, and nothing is filtered or added here.
package prompt

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/eventra-io/eventra/internal/entity"
	"github.com/eventra-io/eventra/internal/scope"
	"github.com/eventra-io/eventra/internal/store"
)

var (
	//go:embed templates/client.txt
	clientHeader string

	//go:embed templates/venue_tenant.txt
	venueTenantHeader string

	//go:embed templates/venue_event.txt
	venueEventHeader string

	//go:embed templates/vendor.txt
	vendorHeader string
)

// RenderClient renders a client's single-event brief.
func RenderClient(sc *scope.ClientScope) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(clientHeader))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "## Event\n%s (%s) on %s at %s — status %s, %d guests expected\n",
		sc.Event.Name, sc.Event.ID, day(sc.Event.Date), sc.Venue.Name, sc.Event.Status, sc.Event.GuestCount)
	fmt.Fprintf(&b, "Client: %s (%s)\n\n", sc.Client.Name, sc.Client.ID)

	writeEventElements(&b, sc.EventElements)
	writeTasks(&b, sc.Tasks)
	writeGuests(&b, sc.Guests)
	writeOfferings(&b, sc.Offerings)
	writeDirectory(&b, sc.VendorDirectory)
	writeMessages(&b, sc.Messages)
	writeActions(&b, sc.RecentActions)

	fmt.Fprintf(&b, "Snapshot taken %s\n", sc.AsOf.Format(time.RFC3339))
	return b.String()
}

// RenderVenueTenant renders the tenant-wide brief for a venue operator.
func RenderVenueTenant(sc *scope.VenueTenantScope) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(venueTenantHeader))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "## Venue\n%s (%s)\n\n", sc.Venue.Name, sc.Venue.ID)

	b.WriteString("## Events\n")
	if len(sc.Events) == 0 {
		b.WriteString("(none)\n")
	}
	for _, ev := range sc.Events {
		fmt.Fprintf(&b, "- %s (%s) on %s — %s\n", ev.Name, ev.ID, day(ev.Date), ev.Status)
	}
	fmt.Fprintf(&b, "\n%d open tasks, %d messages on file\n\n", sc.OpenTaskCount, sc.MessageCount)

	writeDirectory(&b, sc.VendorDirectory)

	b.WriteString("## Spaces\n")
	for _, sp := range sc.Spaces {
		fmt.Fprintf(&b, "- %s (capacity %d)\n", sp.Name, sp.Capacity)
	}
	b.WriteString("\n")
	writeActions(&b, sc.RecentActions)

	fmt.Fprintf(&b, "Snapshot taken %s\n", sc.AsOf.Format(time.RFC3339))
	return b.String()
}

// RenderVenueEvent renders a venue operator's single-event brief.
func RenderVenueEvent(sc *scope.VenueEventScope) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(venueEventHeader))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "## Event\n%s (%s) on %s — status %s, %d guests expected\n",
		sc.Event.Name, sc.Event.ID, day(sc.Event.Date), sc.Event.Status, sc.Event.GuestCount)
	fmt.Fprintf(&b, "Client: %s (%s)\n\n", sc.Client.Name, sc.Client.ID)

	writeEventElements(&b, sc.EventElements)
	writeTasks(&b, sc.Tasks)
	writeGuests(&b, sc.Guests)
	writeMessages(&b, sc.Messages)
	writeOfferings(&b, sc.Offerings)
	writeDirectory(&b, sc.VendorDirectory)
	writeActions(&b, sc.RecentActions)

	fmt.Fprintf(&b, "Snapshot taken %s\n", sc.AsOf.Format(time.RFC3339))
	return b.String()
}

// RenderVendor renders a vendor's restricted brief.
func RenderVendor(sc *scope.VendorScope) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(vendorHeader))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "## Vendor\n%s (%s)\n\n", sc.Vendor.Name, sc.Vendor.ID)

	b.WriteString("## Events you supply\n")
	if len(sc.Events) == 0 {
		b.WriteString("(none)\n")
	}
	for _, ev := range sc.Events {
		fmt.Fprintf(&b, "- %s (%s) on %s — %s\n", ev.Name, ev.ID, day(ev.Date), ev.Status)
	}
	b.WriteString("\n")

	writeTasks(&b, sc.Tasks)
	writeOfferings(&b, sc.Offerings)
	writeMessages(&b, sc.Messages)

	fmt.Fprintf(&b, "Snapshot taken %s\n", sc.AsOf.Format(time.RFC3339))
	return b.String()
}

func writeEventElements(b *strings.Builder, elements []scope.EventElementView) {
	b.WriteString("## Attached elements\n")
	if len(elements) == 0 {
		b.WriteString("(none yet)\n")
	}
	for _, el := range elements {
		provider := el.VendorName
		if provider == "" {
			provider = "in-house"
		}
		fmt.Fprintf(b, "- %s (%s) from %s — $%.2f, %s\n", el.Name, el.ID, provider, el.Amount, el.Status)
	}
	b.WriteString("\n")
}

func writeTasks(b *strings.Builder, tasks []entity.Task) {
	b.WriteString("## Tasks\n")
	if len(tasks) == 0 {
		b.WriteString("(none)\n")
	}
	for _, t := range tasks {
		line := fmt.Sprintf("- [%s] %s (%s) for %s", t.Status, t.Title, t.ID, t.AssigneeRole)
		if t.DueDate != nil {
			line += " due " + day(*t.DueDate)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
}

func writeGuests(b *strings.Builder, guests []entity.Guest) {
	b.WriteString("## Guests\n")
	if len(guests) == 0 {
		b.WriteString("(none)\n")
	}
	for _, g := range guests {
		fmt.Fprintf(b, "- %s (%s) — %s, +%d\n", g.Name, g.ID, g.RSVPStatus, g.PlusOnes)
	}
	b.WriteString("\n")
}

func writeOfferings(b *strings.Builder, offerings []entity.Element) {
	b.WriteString("## Offering catalogue\n")
	if len(offerings) == 0 {
		b.WriteString("(empty)\n")
	}
	for _, el := range offerings {
		availability := "available"
		if !el.Available {
			availability = "unavailable"
		}
		fmt.Fprintf(b, "- %s (%s) — $%.2f, %d days lead time, %s\n",
			el.Name, el.ID, el.Price, el.LeadTimeDays, availability)
	}
	b.WriteString("\n")
}

func writeDirectory(b *strings.Builder, directory []store.VendorDirectoryEntry) {
	b.WriteString("## Vendor directory\n")
	if len(directory) == 0 {
		b.WriteString("(empty)\n")
	}
	for _, d := range directory {
		fmt.Fprintf(b, "- %s (%s) — %s, %d offerings\n", d.VendorName, d.ID, d.ApprovalStatus, d.OfferingCount)
	}
	b.WriteString("\n")
}

func writeMessages(b *strings.Builder, messages []entity.Message) {
	b.WriteString("## Messages\n")
	if len(messages) == 0 {
		b.WriteString("(none)\n")
	}
	for _, m := range messages {
		fmt.Fprintf(b, "- %s %s -> %s: %s\n", m.CreatedAt.Format("2006-01-02 15:04"), m.SenderRole, m.RecipientRole, m.Content)
	}
	b.WriteString("\n")
}

func writeActions(b *strings.Builder, actions []entity.ActionRecord) {
	b.WriteString("## Recent activity\n")
	if len(actions) == 0 {
		b.WriteString("(none)\n")
	}
	for _, a := range actions {
		fmt.Fprintf(b, "- %s %s: %s\n", a.CreatedAt.Format("2006-01-02 15:04"), a.ActorRole, a.Description)
	}
	b.WriteString("\n")
}

func day(t time.Time) string {
	return t.Format("2006-01-02")
}
