package auth

import (
	"context"
	"strings"
)

// Capability is a bit set of privileges held by an actor. It is resolved
// once per request from the token's roles.
type Capability uint8

const (
	CapCustomer Capability = 1 << iota
	CapStore
	CapAdmin
)

var roleCapabilities = map[string]Capability{
	"CUSTOMER": CapCustomer,
	"USER":     CapCustomer,
	"STORE":    CapStore,
	"ADMIN":    CapAdmin,
}

// CapabilitiesFromRoles folds role names into a capability set. Role names
// are matched case-insensitively and an optional ROLE_ prefix is accepted.
// Unknown roles grant nothing.
func CapabilitiesFromRoles(roles []string) Capability {
	var caps Capability
	for _, role := range roles {
		name := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(role)), "ROLE_")
		caps |= roleCapabilities[name]
	}
	return caps
}

func (c Capability) Has(other Capability) bool {
	return other != 0 && c&other == other
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uint
	Email  string
	Caps   Capability
}

func ActorFromClaims(c *Claims) Actor {
	return Actor{
		UserID: c.UserID,
		Email:  c.Email,
		Caps:   CapabilitiesFromRoles(c.Roles),
	}
}

func (a Actor) Authenticated() bool {
	return a.UserID != 0
}

func (a Actor) IsAdmin() bool {
	return a.Authenticated() && a.Caps.Has(CapAdmin)
}

// CanManageStore reports whether the actor is the store account that owns
// the store with the given owner id.
func (a Actor) CanManageStore(ownerID uint) bool {
	return a.Authenticated() && a.Caps.Has(CapStore) && a.UserID == ownerID
}

type ctxKey string

const actorKey ctxKey = "actor"

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// ActorFrom returns the actor resolved by the auth middleware. The zero
// Actor is returned for anonymous requests.
func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey).(Actor)
	return a, ok && a.Authenticated()
}
