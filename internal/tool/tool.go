// Package tool declares the per-role catalogues of named operations the
// dispatcher can execute. A Definition pairs a name and model-facing
// description with a JSON Schema used purely for argument validation;
// the schema is compiled once at startup and the catalogues are
// immutable afterwards, safe for unsynchronized concurrent reads.
//
// Handlers are resolved by (role, name), never by name alone: the same
// name may exist in several role catalogues bound to role-specific
// ownership checks.
package tool

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/eventra-io/eventra/internal/apperr"
	"github.com/eventra-io/eventra/internal/identity"
	"github.com/eventra-io/eventra/internal/store"
)

// Args is a tool call's argument object after schema validation. JSON
// numbers arrive as float64 per encoding/json.
type Args map[string]interface{}

// String returns the string argument for key, or "" when absent.
func (a Args) String(key string) string {
	v, _ := a[key].(string)
	return v
}

// Float returns the numeric argument for key, or 0 when absent.
func (a Args) Float(key string) float64 {
	v, _ := a[key].(float64)
	return v
}

// Int returns the numeric argument for key truncated to int.
func (a Args) Int(key string) int {
	return int(a.Float(key))
}

// Bool returns the boolean argument for key, or false when absent.
func (a Args) Bool(key string) bool {
	v, _ := a[key].(bool)
	return v
}

// Has reports whether the argument was supplied at all.
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// Handler executes one tool call after validation. It re-checks
// ownership for every entity named in args and returns a kind-tagged
// error on any failure path.
type Handler func(ctx context.Context, st *store.Store, id identity.Identity, args Args) (interface{}, error)

// Definition declares one tool: its name, the description shown to the
// model, and the JSON Schema its arguments are validated against.
type Definition struct {
	Name        string
	Description string
	InputSchema string

	handler  Handler
	compiled *gojsonschema.Schema
}

// Catalog is one role's fixed tool set.
type Catalog struct {
	role  identity.Role
	tools map[string]*Definition
}

// newCatalog compiles every definition's schema and indexes by name.
// Duplicate names and uncompilable schemas are programming errors and
// panic at startup.
func newCatalog(role identity.Role, defs []Definition) *Catalog {
	c := &Catalog{role: role, tools: make(map[string]*Definition, len(defs))}
	for i := range defs {
		d := defs[i]
		if _, dup := c.tools[d.Name]; dup {
			panic(fmt.Sprintf("tool %q declared twice in %s catalogue", d.Name, role))
		}
		compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(d.InputSchema))
		if err != nil {
			panic(fmt.Sprintf("tool %q has invalid input schema: %v", d.Name, err))
		}
		d.compiled = compiled
		c.tools[d.Name] = &d
	}
	return c
}

// Role returns the role this catalogue belongs to.
func (c *Catalog) Role() identity.Role { return c.role }

// Resolve returns the definition for name, or ok=false when the role's
// catalogue has no such tool.
func (c *Catalog) Resolve(name string) (*Definition, bool) {
	d, ok := c.tools[name]
	return d, ok
}

// List returns the catalogue's definitions sorted by name.
func (c *Catalog) List() []Definition {
	out := make([]Definition, 0, len(c.tools))
	for _, d := range c.tools {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Validate checks raw arguments against the tool's schema. The returned
// error is a ValidationError naming the offending field(s); the handler
// is never entered when validation fails.
func (d *Definition) Validate(raw map[string]interface{}) error {
	if raw == nil {
		raw = map[string]interface{}{}
	}
	result, err := d.compiled.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return apperr.Wrap(apperr.ValidationError, err, "arguments are not a valid object")
	}
	if result.Valid() {
		return nil
	}
	var problems []string
	for _, e := range result.Errors() {
		field := e.Field()
		if field == "(root)" {
			if p, ok := e.Details()["property"].(string); ok {
				field = p
			}
		}
		problems = append(problems, fmt.Sprintf("%s: %s", field, e.Description()))
	}
	return apperr.New(apperr.ValidationError, "invalid arguments: %s", strings.Join(problems, "; "))
}

// Execute runs the handler. Callers validate first.
func (d *Definition) Execute(ctx context.Context, st *store.Store, id identity.Identity, args Args) (interface{}, error) {
	return d.handler(ctx, st, id, args)
}

// Catalogs holds the process-wide role catalogues.
type Catalogs map[identity.Role]*Catalog

// BuildCatalogs constructs the fixed catalogues for all three roles.
func BuildCatalogs() Catalogs {
	return Catalogs{
		identity.RoleClient: newCatalog(identity.RoleClient, clientTools()),
		identity.RoleVenue:  newCatalog(identity.RoleVenue, venueTools()),
		identity.RoleVendor: newCatalog(identity.RoleVendor, vendorTools()),
	}
}
