// Package subscription tracks subscriber bookkeeping per spec.md §3: one
// record per add-subscription, keyed by registration id, plus the
// (endpoint, stream) reliability-conflict check spec.md §4.1/§8 requires.
// Grounded on the teacher's sim/portowner.go map-of-named-resources shape,
// layered with a secondary index for the conflict check the way
// sim/simulation.go keeps compNameIndex alongside components.
package subscription

import "github.com/marksb/aeron/internal/registry"

// Subscription is one consumer-side registration, per spec.md §3.
type Subscription struct {
	RegistrationID int64
	ClientID       int64

	ChannelURI string
	StreamID   int32
	Reliable   bool
	Spy        bool

	// EndpointKey is the receive channel endpoint's canonical key; empty
	// for a spy subscription, which has no receive endpoint.
	EndpointKey string

	// PositionID is this subscription's counter id, assigned once at
	// add time and reported to the client as the sole entry of
	// ON_AVAILABLE_IMAGE's subscriber-position-ids[] for every image
	// this subscription sees. Counter-storage mechanics beyond the id
	// itself are out of scope (spec.md §1).
	PositionID int32

	LastKeepalive int64
}

// endpointStream is the secondary index key the reliability-conflict
// check groups subscriptions by.
type endpointStream struct {
	EndpointKey string
	StreamID    int32
}

// Table is the registry of live subscriptions.
type Table struct {
	reg  *registry.Table[int64, Subscription]
	byES map[endpointStream][]int64
}

// New creates an empty subscription Table.
func New() *Table {
	return &Table{reg: registry.New[int64, Subscription](), byES: make(map[endpointStream][]int64)}
}

func key(s *Subscription) endpointStream {
	return endpointStream{EndpointKey: s.EndpointKey, StreamID: s.StreamID}
}

// ReliabilityConflict reports whether adding a subscription with the
// given (endpointKey, streamID, reliable) would conflict with an existing
// subscription sharing the same (endpoint, stream) but a different
// reliable value, per spec.md invariant 2. Spy subscriptions never
// participate (per the §8/§9 open-question resolution): callers must not
// call this for a spy candidate.
func (t *Table) ReliabilityConflict(endpointKey string, streamID int32, reliable bool) bool {
	for _, id := range t.byES[endpointStream{EndpointKey: endpointKey, StreamID: streamID}] {
		if existing := t.reg.Get(id); existing != nil && existing.Reliable != reliable {
			return true
		}
	}
	return false
}

// Add inserts s. It assumes the caller already checked ReliabilityConflict
// for a non-spy subscription.
func (t *Table) Add(s *Subscription) bool {
	if !t.reg.Add(s.RegistrationID, s) {
		return false
	}
	if !s.Spy {
		k := key(s)
		t.byES[k] = append(t.byES[k], s.RegistrationID)
	}
	return true
}

// Get returns the subscription for registrationID, or nil.
func (t *Table) Get(registrationID int64) *Subscription {
	return t.reg.Get(registrationID)
}

// Remove deletes registrationID, returning it so the caller can react to
// endpoint/stream refcounts dropping to zero.
func (t *Table) Remove(registrationID int64) *Subscription {
	s := t.reg.Get(registrationID)
	if s == nil {
		return nil
	}

	t.reg.Remove(registrationID)

	if !s.Spy {
		k := key(s)
		ids := t.byES[k]
		for i, id := range ids {
			if id == registrationID {
				t.byES[k] = append(ids[:i], ids[i+1:]...)
				break
			}
		}
		if len(t.byES[k]) == 0 {
			delete(t.byES, k)
		}
	}

	return s
}

// CountForEndpointStream returns how many live, non-spy subscriptions
// share (endpointKey, streamID), used to decide whether to unregister
// with the receiver and whether the endpoint itself should close.
func (t *Table) CountForEndpointStream(endpointKey string, streamID int32) int {
	return len(t.byES[endpointStream{EndpointKey: endpointKey, StreamID: streamID}])
}

// CountForEndpoint returns how many live, non-spy subscriptions reference
// endpointKey across any stream, used to decide whether the endpoint's
// stream count has reached zero.
func (t *Table) CountForEndpoint(endpointKey string) int {
	n := 0
	t.reg.Each(func(s *Subscription) {
		if !s.Spy && s.EndpointKey == endpointKey {
			n++
		}
	})
	return n
}

// Each iterates every live subscription, for timer maintenance.
func (t *Table) Each(fn func(*Subscription)) {
	t.reg.Each(fn)
}

// Len returns the number of live subscriptions.
func (t *Table) Len() int {
	return t.reg.Len()
}
