// Package identity provides the acting-identity value threaded through
// every scope build and tool dispatch, plus request-scoped context
// helpers set by HTTP middleware.
package identity

import (
	"context"
	"fmt"
)

// Role determines which tool catalogue and ownership rules apply.
type Role string

const (
	RoleClient Role = "client"
	RoleVenue  Role = "venue"
	RoleVendor Role = "vendor"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleVenue, RoleVendor:
		return true
	}
	return false
}

// ParseRole converts a wire string to a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Identity is the acting identity for one request. Never persisted by
// this subsystem; supplied by the caller per request.
type Identity struct {
	ActorID string
	Role    Role
}

func (id Identity) String() string {
	return string(id.Role) + ":" + id.ActorID
}

type contextKey struct{}

var identityKey = &contextKey{}

// Set stores the acting identity in the context.
func Set(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// From returns the acting identity from context. ok is false when no
// middleware set one.
func From(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
