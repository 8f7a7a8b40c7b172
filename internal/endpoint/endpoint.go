// Package endpoint manages channel endpoints: the shared send- and
// receive-side resources a UDP/IPC destination maps to. Endpoints are
// lazily created on first use and reference-counted across every
// publication or subscription that shares them, closing exactly once when
// the last reference drops. Grounded on the teacher's sim/portowner.go
// (named-resource registry with panic-on-duplicate create) and
// sim/directconnection.go (a single shared resource multiple ports plug
// into and unplug from).
package endpoint

import (
	"sync"

	"github.com/marksb/aeron/internal/channel"
	"github.com/marksb/aeron/internal/idgen"
	"github.com/marksb/aeron/internal/registry"
)

// Direction distinguishes send-side from receive-side endpoints, since a
// single (media, address) pair gets independent registries for each per
// spec.md §4.4 (publications hold send endpoints, subscriptions hold
// receive endpoints).
type Direction int

const (
	// Send is the publication side of a channel endpoint.
	Send Direction = iota
	// Receive is the subscription side of a channel endpoint.
	Receive
)

// Endpoint is one shared send or receive resource, ref-counted across
// every registration that points at it.
type Endpoint struct {
	Key       string
	Direction Direction
	Descr     *channel.Descriptor

	// InstanceID is a globally-unique id minted fresh every time this
	// address is (re)acquired after a prior close, so log lines and
	// traces can distinguish two lifetimes of "the same" endpoint key
	// without the small, reused Key string colliding across them.
	InstanceID string

	mu       sync.Mutex
	refs     int
	closed   bool
	closedFn func(*Endpoint)
}

// Acquire increments the reference count. It is safe to call after the
// endpoint was looked up from a Table, before the caller has committed to
// using it.
func (e *Endpoint) Acquire() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.refs++
}

// Release decrements the reference count, closing the endpoint exactly
// once when it reaches zero. It reports whether this call closed the
// endpoint.
func (e *Endpoint) Release() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.refs--
	if e.refs > 0 || e.closed {
		return false
	}

	e.closed = true
	if e.closedFn != nil {
		e.closedFn(e)
	}

	return true
}

// RefCount returns the current reference count, for diagnostics and tests.
func (e *Endpoint) RefCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.refs
}

// Table is the registry of live endpoints for one Direction, keyed by the
// channel descriptor's canonical send/receive key.
type Table struct {
	dir      Direction
	reg      *registry.Table[string, Endpoint]
	onClosed func(*Endpoint)
}

// New creates an empty endpoint Table for the given direction. onClosed,
// if non-nil, is invoked after an endpoint's last reference is released
// and it has been removed from the table; the conductor uses this to tell
// the sender/receiver agent to tear down the corresponding socket.
func New(dir Direction, onClosed func(*Endpoint)) *Table {
	return &Table{dir: dir, reg: registry.New[string, Endpoint](), onClosed: onClosed}
}

func (t *Table) key(d *channel.Descriptor) string {
	if t.dir == Send {
		return d.SendKey()
	}
	return d.ReceiveKey()
}

// Acquire returns the endpoint for d, creating it (with a single initial
// reference) if this is the first registration to need it. Every caller,
// including the one that triggered creation, must pair this with a
// Release.
func (t *Table) Acquire(d *channel.Descriptor) *Endpoint {
	key := t.key(d)

	if e := t.reg.Get(key); e != nil {
		e.Acquire()
		return e
	}

	e := &Endpoint{
		Key:        key,
		Direction:  t.dir,
		Descr:      d,
		InstanceID: idgen.NewOpaque().Generate(),
		refs:       1,
		closedFn: func(closed *Endpoint) {
			t.reg.Remove(closed.Key)
			if t.onClosed != nil {
				t.onClosed(closed)
			}
		},
	}
	t.reg.Add(key, e)

	return e
}

// Lookup returns the live endpoint for d without affecting its reference
// count, or nil if none exists.
func (t *Table) Lookup(d *channel.Descriptor) *Endpoint {
	return t.reg.Get(t.key(d))
}

// LookupByKey returns the live endpoint for a previously-computed
// send/receive key, without affecting its reference count. Subscriptions
// and publications store only the key string (not the descriptor) once
// created, so teardown paths look the endpoint back up this way.
func (t *Table) LookupByKey(key string) *Endpoint {
	return t.reg.Get(key)
}

// Len returns the number of live endpoints.
func (t *Table) Len() int {
	return t.reg.Len()
}

// Each calls fn for every live endpoint, for diagnostic snapshots.
func (t *Table) Each(fn func(*Endpoint)) {
	t.reg.Each(fn)
}
