package store

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eventra-io/eventra/internal/entity"
)

// SeedFile is the YAML shape consumed by `eventra seed`. Records are
// inserted top-down; later sections reference earlier ones by the
// aliases given in the file, which are rewritten to generated ids.
type SeedFile struct {
	Venues []struct {
		Alias   string `yaml:"alias"`
		Name    string `yaml:"name"`
		Email   string `yaml:"email"`
		Address string `yaml:"address"`
	} `yaml:"venues"`
	Clients []struct {
		Alias string `yaml:"alias"`
		Venue string `yaml:"venue"`
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
	} `yaml:"clients"`
	Vendors []struct {
		Alias    string `yaml:"alias"`
		Name     string `yaml:"name"`
		Email    string `yaml:"email"`
		Category string `yaml:"category"`
		Venues   []struct {
			Venue    string `yaml:"venue"`
			Approval string `yaml:"approval"`
		} `yaml:"venues"`
	} `yaml:"vendors"`
	Spaces []struct {
		Venue    string `yaml:"venue"`
		Name     string `yaml:"name"`
		Capacity int    `yaml:"capacity"`
	} `yaml:"spaces"`
	Elements []struct {
		Alias         string   `yaml:"alias"`
		Venue         string   `yaml:"venue"`
		Vendor        string   `yaml:"vendor"`
		Name          string   `yaml:"name"`
		Category      string   `yaml:"category"`
		Price         float64  `yaml:"price"`
		LeadTimeDays  int      `yaml:"lead_time_days"`
		Available     *bool    `yaml:"available"`
		BlackoutDates []string `yaml:"blackout_dates"`
	} `yaml:"elements"`
	Events []struct {
		Alias      string `yaml:"alias"`
		Venue      string `yaml:"venue"`
		Client     string `yaml:"client"`
		Name       string `yaml:"name"`
		Type       string `yaml:"type"`
		Date       string `yaml:"date"` // YYYY-MM-DD
		GuestCount int    `yaml:"guest_count"`
	} `yaml:"events"`
}

// SeedResult reports what a seed run inserted, keyed by alias.
type SeedResult struct {
	Venues   map[string]string
	Clients  map[string]string
	Vendors  map[string]string
	Elements map[string]string
	Events   map[string]string
}

// SeedFromFile loads a YAML fixture file into the store. Intended for
// demos and local development, not production data import.
func (s *Store) SeedFromFile(ctx context.Context, path string) (*SeedResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f SeedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	return s.Seed(ctx, &f)
}

// Seed inserts the fixture records, resolving aliases between sections.
func (s *Store) Seed(ctx context.Context, f *SeedFile) (*SeedResult, error) {
	res := &SeedResult{
		Venues:   map[string]string{},
		Clients:  map[string]string{},
		Vendors:  map[string]string{},
		Elements: map[string]string{},
		Events:   map[string]string{},
	}

	for _, v := range f.Venues {
		created, err := s.CreateVenue(ctx, &entity.Venue{Name: v.Name, Email: v.Email, Address: v.Address})
		if err != nil {
			return nil, err
		}
		res.Venues[v.Alias] = created.ID
	}

	for _, c := range f.Clients {
		venueID, ok := res.Venues[c.Venue]
		if !ok {
			return nil, fmt.Errorf("client %q references unknown venue alias %q", c.Alias, c.Venue)
		}
		created, err := s.CreateClient(ctx, &entity.Client{VenueID: venueID, Name: c.Name, Email: c.Email})
		if err != nil {
			return nil, err
		}
		res.Clients[c.Alias] = created.ID
	}

	for _, v := range f.Vendors {
		created, err := s.CreateVendor(ctx, &entity.Vendor{Name: v.Name, Email: v.Email, Category: v.Category})
		if err != nil {
			return nil, err
		}
		res.Vendors[v.Alias] = created.ID
		for _, link := range v.Venues {
			venueID, ok := res.Venues[link.Venue]
			if !ok {
				return nil, fmt.Errorf("vendor %q references unknown venue alias %q", v.Alias, link.Venue)
			}
			if _, err := s.CreateVenueVendor(ctx, &entity.VenueVendor{
				VenueID:        venueID,
				VendorID:       created.ID,
				ApprovalStatus: link.Approval,
			}); err != nil {
				return nil, err
			}
		}
	}

	for _, sp := range f.Spaces {
		venueID, ok := res.Venues[sp.Venue]
		if !ok {
			return nil, fmt.Errorf("space %q references unknown venue alias %q", sp.Name, sp.Venue)
		}
		if _, err := s.CreateSpace(ctx, &entity.Space{VenueID: venueID, Name: sp.Name, Capacity: sp.Capacity}); err != nil {
			return nil, err
		}
	}

	for _, el := range f.Elements {
		venueID, ok := res.Venues[el.Venue]
		if !ok {
			return nil, fmt.Errorf("element %q references unknown venue alias %q", el.Alias, el.Venue)
		}
		vendorID := ""
		if el.Vendor != "" {
			vendorID, ok = res.Vendors[el.Vendor]
			if !ok {
				return nil, fmt.Errorf("element %q references unknown vendor alias %q", el.Alias, el.Vendor)
			}
		}
		available := true
		if el.Available != nil {
			available = *el.Available
		}
		created, err := s.CreateElement(ctx, &entity.Element{
			VenueID:       venueID,
			VendorID:      vendorID,
			Name:          el.Name,
			Category:      el.Category,
			Price:         el.Price,
			LeadTimeDays:  el.LeadTimeDays,
			Available:     available,
			BlackoutDates: el.BlackoutDates,
		})
		if err != nil {
			return nil, err
		}
		res.Elements[el.Alias] = created.ID
	}

	for _, ev := range f.Events {
		venueID, ok := res.Venues[ev.Venue]
		if !ok {
			return nil, fmt.Errorf("event %q references unknown venue alias %q", ev.Alias, ev.Venue)
		}
		clientID, ok := res.Clients[ev.Client]
		if !ok {
			return nil, fmt.Errorf("event %q references unknown client alias %q", ev.Alias, ev.Client)
		}
		date, err := time.Parse("2006-01-02", ev.Date)
		if err != nil {
			return nil, fmt.Errorf("event %q has invalid date %q: %w", ev.Alias, ev.Date, err)
		}
		created, err := s.CreateEvent(ctx, &entity.Event{
			ClientID:   clientID,
			VenueID:    venueID,
			Name:       ev.Name,
			Type:       ev.Type,
			Date:       date,
			GuestCount: ev.GuestCount,
		})
		if err != nil {
			return nil, err
		}
		res.Events[ev.Alias] = created.ID
	}

	return res, nil
}
