// Package publication implements the network and IPC publication state
// machines of spec.md §4.2: ACTIVE, DRAINING, LINGER, CLOSING, reference
// counted across every add-publication that shares a key, with the
// tie-break and drain rules §8/§9 settle. Grounded on the teacher's
// sim/port.go lifecycle bookkeeping and sim/buffer.go's "never block,
// report capacity instead" posture, adapted from per-message ticks to the
// timer-driven transitions a live conductor needs.
package publication

import (
	"github.com/marksb/aeron/internal/channel"
	"github.com/marksb/aeron/internal/registry"
)

// State is a publication's lifecycle stage.
type State int

const (
	// Active accepts new references and serves data.
	Active State = iota
	// Draining waits for the producer and consumer positions to meet
	// before lingering; only entered by a publication that has ever had a
	// connected receiver.
	Draining
	// Linger retains resources so late consumers can finish reading.
	Linger
	// Closing has notified the sender and awaits its acknowledgment.
	Closing
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Active:
		return "ACTIVE"
	case Draining:
		return "DRAINING"
	case Linger:
		return "LINGER"
	case Closing:
		return "CLOSING"
	default:
		return "UNKNOWN"
	}
}

// Kind distinguishes network publications (backed by a UDP send endpoint)
// from IPC publications (shared-memory only, no endpoint).
type Kind int

const (
	// Network publications are keyed by (send endpoint, stream, session).
	Network Kind = iota
	// IPC publications are keyed by stream id (shared) or registration id
	// (exclusive).
	IPC
)

// Publication is one producer-side stream handle, per spec.md §3.
type Publication struct {
	RegistrationID int64
	Kind           Kind
	Exclusive      bool

	Descr     *channel.Descriptor
	StreamID  int32
	SessionID int32

	MTU        int
	TermLength int
	InitTermID int32

	// LogHandle is the opaque handle the external raw-log factory
	// returned; the conductor never interprets its contents.
	LogHandle any

	ProducerPosition int64
	ConsumerPosition int64

	RefCount int

	// HadReceiver records whether a connected receiver was ever observed,
	// per the drain-before-linger resolution: an unconnected publication
	// lingers immediately on RemovePublication rather than draining.
	HadReceiver bool

	// Spies is the set of registration ids of spy subscriptions attached
	// to this publication, so each can be sent ON_UNAVAILABLE_IMAGE when
	// the publication leaves ACTIVE.
	Spies []int64

	LastKeepalive int64

	State State

	// drainEnteredAt / lingerEnteredAt record the wall-clock nanosecond at
	// which each state was entered, so timer maintenance can evaluate
	// elapsed durations without recomputing them from history.
	drainEnteredAt  int64
	lingerEnteredAt int64
}

// Key identifies a publication's registry slot. Network, non-exclusive
// publications are keyed by (send endpoint, stream, session) so the "at
// most one per key while live" invariant (spec.md §8 invariant 1) is
// enforced by the registry itself; shared IPC publications use the same
// shape with the send endpoint "ipc" and session 0, and exclusive
// publications are keyed by registration id, since they never share.
type Key struct {
	SendEndpointKey string
	StreamID        int32
	SessionID       int32
	RegistrationID  int64
	Shared          bool
}

// SharedKey builds the Key a non-exclusive publication is looked up and
// inserted under (for IPC, with sendEndpointKey "ipc" and session 0).
func SharedKey(sendEndpointKey string, streamID, sessionID int32) Key {
	return Key{SendEndpointKey: sendEndpointKey, StreamID: streamID, SessionID: sessionID, Shared: true}
}

// ExclusiveKey builds the Key an exclusive publication (network or IPC) is
// inserted under; it never collides with another publication's key.
func ExclusiveKey(registrationID int64) Key {
	return Key{RegistrationID: registrationID, Shared: false}
}

// Table is the registry of live publications, keyed by Key. A publication
// that has left ACTIVE is moved out of the key index into a retiring list:
// per spec.md §4.2's tie-break rule, a fresh add-publication sharing a
// retiring publication's key creates an unrelated new publication rather
// than merging with it, so the key must become available for reuse the
// moment the old publication stops being shareable.
type Table struct {
	reg      *registry.Table[Key, Publication]
	retiring []*Publication
}

// New creates an empty publication Table.
func New() *Table {
	return &Table{reg: registry.New[Key, Publication]()}
}

// FindShared returns the live shared publication for key, or nil.
func (t *Table) FindShared(key Key) *Publication {
	return t.reg.Get(key)
}

// Add inserts p under key. It reports false if the key is already taken,
// which should never happen for a caller that checked FindShared/ByReg
// first per the command handler's dispatch in spec.md §4.1.
func (t *Table) Add(key Key, p *Publication) bool {
	return t.reg.Add(key, p)
}

// ByRegistration scans for the publication with the given registration id,
// for every kind of publication, keyed or retiring.
func (t *Table) ByRegistration(id int64) *Publication {
	var found *Publication
	t.reg.Each(func(p *Publication) {
		if found == nil && p.RegistrationID == id {
			found = p
		}
	})
	if found != nil {
		return found
	}
	for _, p := range t.retiring {
		if p.RegistrationID == id {
			return p
		}
	}
	return nil
}

// Remove deletes the publication under key. It does not touch the
// retiring list; use RemoveRetiring for a publication already detached.
func (t *Table) Remove(key Key) bool {
	return t.reg.Remove(key)
}

// Retire detaches the publication under key from the reusable index and
// moves it to the retiring list, freeing the key for a new add-publication
// to claim. It is a no-op (returns nil) if key is absent.
func (t *Table) Retire(key Key) *Publication {
	p := t.reg.Get(key)
	if p == nil {
		return nil
	}

	t.reg.Remove(key)
	t.retiring = append(t.retiring, p)

	return p
}

// RemoveRetiring deletes p from the retiring list once the sender has
// acknowledged its teardown, per spec.md §4.2's "CLOSING -> sender ack ->
// (deleted)" transition.
func (t *Table) RemoveRetiring(p *Publication) bool {
	for i, r := range t.retiring {
		if r == p {
			t.retiring = append(t.retiring[:i], t.retiring[i+1:]...)
			return true
		}
	}
	return false
}

// Each iterates every live publication, active-indexed or retiring, for
// timer maintenance.
func (t *Table) Each(fn func(*Publication)) {
	t.reg.Each(fn)
	for _, p := range t.retiring {
		fn(p)
	}
}

// Len returns the number of live publications, active-indexed plus
// retiring.
func (t *Table) Len() int {
	return t.reg.Len() + len(t.retiring)
}

// FindNetworkBySessionEndpoint scans for the network publication matching
// (endpointKey, streamID, sessionID), the identity a sender's inbound
// "publication connected" notification carries. Registration-id lookups
// don't apply here since the notification comes from the wire, which only
// knows the (endpoint, stream, session) triple, not a registration id.
func (t *Table) FindNetworkBySessionEndpoint(endpointKey string, streamID, sessionID int32) *Publication {
	var found *Publication
	t.reg.Each(func(p *Publication) {
		if found == nil && p.Kind == Network && p.Descr != nil &&
			p.Descr.SendKey() == endpointKey && p.StreamID == streamID && p.SessionID == sessionID {
			found = p
		}
	})
	return found
}

// AddRef increments the publication's reference count, e.g. when a second
// add-publication reuses a shared ACTIVE publication.
func (p *Publication) AddRef() {
	p.RefCount++
}

// RemoveRef decrements the reference count and applies the
// ACTIVE-to-DRAINING-or-LINGER transition when it reaches zero, per
// spec.md §4.2 and the drain-before-linger resolution. It reports the new
// RefCount.
func (p *Publication) RemoveRef(nowNanos int64) int {
	p.RefCount--
	if p.RefCount > 0 {
		return p.RefCount
	}

	if p.State != Active {
		return p.RefCount
	}

	if p.Kind == IPC && len(p.Spies) == 0 {
		p.enterLinger(nowNanos)
		return p.RefCount
	}

	if p.HadReceiver {
		p.State = Draining
		p.drainEnteredAt = nowNanos
		return p.RefCount
	}

	p.enterLinger(nowNanos)
	return p.RefCount
}

func (p *Publication) enterLinger(nowNanos int64) {
	p.State = Linger
	p.lingerEnteredAt = nowNanos
}

// Drained reports whether the producer and consumer positions have met,
// the condition DRAINING waits for before lingering.
func (p *Publication) Drained() bool {
	return p.ProducerPosition == p.ConsumerPosition
}

// NextDeadline returns the nanosecond clock reading at which this
// publication's current state next needs re-evaluating by Tick, and
// whether one applies. ACTIVE and CLOSING have no pending deadline.
func (p *Publication) NextDeadline(connectionTimeoutNanos, lingerNanos int64) (int64, bool) {
	switch p.State {
	case Draining:
		return p.drainEnteredAt + connectionTimeoutNanos, true
	case Linger:
		return p.lingerEnteredAt + lingerNanos, true
	default:
		return 0, false
	}
}

// Tick evaluates this publication's timer-driven transitions for the
// current nanosecond clock reading, per spec.md §4.2's diagram:
// DRAINING advances to LINGER once drained or once
// connectionTimeoutNanos has elapsed with no receiver; LINGER advances to
// CLOSING once lingerNanos has elapsed. It reports true if the
// publication just entered CLOSING, so the caller can notify the sender
// exactly once.
func (p *Publication) Tick(nowNanos, connectionTimeoutNanos, lingerNanos int64) bool {
	switch p.State {
	case Draining:
		if p.Drained() {
			p.enterLinger(nowNanos)
		} else if nowNanos-p.drainEnteredAt > connectionTimeoutNanos {
			p.enterLinger(nowNanos)
		}
		return false
	case Linger:
		if nowNanos-p.lingerEnteredAt > lingerNanos {
			p.State = Closing
			return true
		}
		return false
	default:
		return false
	}
}
