// Package client tracks the conductor's view of connected client
// processes: liveness (last keepalive) and the registrations each one
// owns, so timer maintenance can find and release everything belonging to
// a client that has gone silent (spec.md §4.5). Grounded on the teacher's
// sim/portowner.go, which keeps an owner's ports in a slice alongside the
// owner itself rather than scattering ownership across the ports.
package client

import (
	"github.com/marksb/aeron/internal/idgen"
	"github.com/marksb/aeron/internal/registry"
)

// Kind distinguishes the two registration families a client owns, since
// §4.5 requires releasing publications before subscriptions on timeout.
type Kind int

const (
	// KindPublication marks a registration id as a publication (shared,
	// exclusive, or IPC).
	KindPublication Kind = iota
	// KindSubscription marks a registration id as a subscription.
	KindSubscription
)

// Owned is one registration a client holds, recorded only by kind and id;
// the registries themselves (publication.Table, subscription.Table) stay
// the source of truth for the entity's state.
type Owned struct {
	Kind           Kind
	RegistrationID int64
}

// Client is the conductor's bookkeeping record for one connected client
// process.
type Client struct {
	ID            int64
	LastKeepalive int64 // nanoseconds, per clock.Clock

	// SessionToken is an opaque, non-sequential id minted once per client
	// process, distinct from the small wire ID a client picks for itself:
	// it's what the admin surface and diagnostic trace correlate a client
	// by without leaking the ordering/volume a sequential id would.
	SessionToken string

	owned []Owned
}

// Table is the registry of connected clients, keyed by client id.
type Table struct {
	reg *registry.Table[int64, Client]
}

// New creates an empty client Table.
func New() *Table {
	return &Table{reg: registry.New[int64, Client]()}
}

// Touch records a keepalive for clientID at nowNanos, creating the client
// record if this is its first command.
func (t *Table) Touch(clientID, nowNanos int64) *Client {
	if c := t.reg.Get(clientID); c != nil {
		c.LastKeepalive = nowNanos
		return c
	}

	c := &Client{ID: clientID, LastKeepalive: nowNanos, SessionToken: idgen.NewOpaque().Generate()}
	t.reg.Add(clientID, c)

	return c
}

// Get returns the client record for clientID, or nil if unknown.
func (t *Table) Get(clientID int64) *Client {
	return t.reg.Get(clientID)
}

// Own records that clientID now owns the given registration. The client
// record must already exist (via Touch) before Own is called.
func (t *Table) Own(clientID int64, kind Kind, registrationID int64) {
	c := t.reg.Get(clientID)
	if c == nil {
		return
	}

	c.owned = append(c.owned, Owned{Kind: kind, RegistrationID: registrationID})
}

// Disown removes a single owned registration from clientID's record, e.g.
// after an explicit remove-publication/remove-subscription command
// succeeds. It is a no-op if the client or registration is unknown.
func (t *Table) Disown(clientID int64, kind Kind, registrationID int64) {
	c := t.reg.Get(clientID)
	if c == nil {
		return
	}

	for i, o := range c.owned {
		if o.Kind == kind && o.RegistrationID == registrationID {
			c.owned = append(c.owned[:i], c.owned[i+1:]...)
			return
		}
	}
}

// Owned returns a snapshot of clientID's owned registrations, publications
// first, per the release ordering §4.5 requires. Returns nil for an
// unknown client.
func (t *Table) Owned(clientID int64) []Owned {
	c := t.reg.Get(clientID)
	if c == nil {
		return nil
	}

	out := make([]Owned, 0, len(c.owned))
	for _, o := range c.owned {
		if o.Kind == KindPublication {
			out = append(out, o)
		}
	}
	for _, o := range c.owned {
		if o.Kind == KindSubscription {
			out = append(out, o)
		}
	}

	return out
}

// Remove deletes clientID's record entirely, once all of its owned
// registrations have been released.
func (t *Table) Remove(clientID int64) bool {
	return t.reg.Remove(clientID)
}

// Len returns the number of tracked clients.
func (t *Table) Len() int {
	return t.reg.Len()
}

// Each calls fn once per tracked client, for diagnostic snapshots.
func (t *Table) Each(fn func(*Client)) {
	t.reg.Each(fn)
}
