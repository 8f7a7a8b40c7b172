// Package image implements the publication image state machine of
// spec.md §4.3: INIT, ACTIVE, INACTIVE, LINGER, CLOSING, with the
// available/unavailable-image notification bookkeeping the invariants in
// spec.md §8 require (every ON_AVAILABLE_IMAGE eventually followed by
// exactly one ON_UNAVAILABLE_IMAGE). Grounded on the teacher's
// sim/port.go lifecycle shape, generalized from a single busy/idle flag to
// a full multi-state timeline.
package image

import "github.com/marksb/aeron/internal/registry"

// State is a publication image's lifecycle stage.
type State int

const (
	// Init has been created by the receiver but has not yet received its
	// first status message.
	Init State = iota
	// Active is receiving status messages and has notified its
	// subscribers of availability.
	Active
	// Inactive has gone quiet; notified subscribers of unavailability.
	Inactive
	// Linger retains the image so late readers can finish.
	Linger
	// Closing is final: the conductor removes the image and releases its
	// log as soon as Tick reports entering it.
	Closing
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Init:
		return "INIT"
	case Active:
		return "ACTIVE"
	case Inactive:
		return "INACTIVE"
	case Linger:
		return "LINGER"
	case Closing:
		return "CLOSING"
	default:
		return "UNKNOWN"
	}
}

// Key identifies an image's registry slot: (receive endpoint, session,
// stream), per spec.md §3.
type Key struct {
	ReceiveEndpointKey string
	SessionID          int32
	StreamID           int32
}

// Image is one observed remote publication, per spec.md §3.
type Image struct {
	CorrelationID int64
	Key           Key

	InitTermID  int32
	ActiveTermID int32
	TermOffset  int64

	LogHandle any

	SourceIdentity string

	State State

	// NotifiedSubscribers holds the registration ids of every
	// subscription that has received this image's ON_AVAILABLE_IMAGE, so
	// the INACTIVE transition can emit ON_UNAVAILABLE_IMAGE to exactly
	// that set and invariant 4 holds.
	NotifiedSubscribers []int64

	LastStatusMessageAt int64
	inactiveEnteredAt   int64
	lingerEnteredAt     int64
}

// Table is the registry of live images, keyed by Key.
type Table struct {
	reg *registry.Table[Key, Image]
}

// New creates an empty image Table.
func New() *Table {
	return &Table{reg: registry.New[Key, Image]()}
}

// Add inserts img under its own Key.
func (t *Table) Add(img *Image) bool {
	return t.reg.Add(img.Key, img)
}

// Get returns the image for key, or nil.
func (t *Table) Get(key Key) *Image {
	return t.reg.Get(key)
}

// Remove deletes the image under key.
func (t *Table) Remove(key Key) bool {
	return t.reg.Remove(key)
}

// Each iterates every live image, for timer maintenance.
func (t *Table) Each(fn func(*Image)) {
	t.reg.Each(fn)
}

// Len returns the number of live images.
func (t *Table) Len() int {
	return t.reg.Len()
}

// Activate transitions INIT to ACTIVE on the first status message,
// recording every currently-interested subscriber so callers can emit
// ON_AVAILABLE_IMAGE to each, per spec.md §4.3.
func (img *Image) Activate(nowNanos int64, subscribers []int64) {
	if img.State != Init {
		return
	}

	img.State = Active
	img.LastStatusMessageAt = nowNanos
	img.NotifiedSubscribers = append([]int64(nil), subscribers...)
}

// NotifySubscriber records that registrationID has now received
// ON_AVAILABLE_IMAGE for this image, e.g. a subscription added after the
// image was already ACTIVE. It is a no-op if the image is not ACTIVE or
// the subscriber is already recorded.
func (img *Image) NotifySubscriber(registrationID int64) bool {
	if img.State != Active {
		return false
	}

	for _, id := range img.NotifiedSubscribers {
		if id == registrationID {
			return false
		}
	}

	img.NotifiedSubscribers = append(img.NotifiedSubscribers, registrationID)
	return true
}

// Forget removes registrationID from the notified-subscribers set, e.g.
// when its subscription is removed before the image itself goes inactive.
// Without this, a later GoInactive would still emit ON_UNAVAILABLE_IMAGE
// to the now-gone subscription.
func (img *Image) Forget(registrationID int64) {
	for i, id := range img.NotifiedSubscribers {
		if id == registrationID {
			img.NotifiedSubscribers = append(img.NotifiedSubscribers[:i], img.NotifiedSubscribers[i+1:]...)
			return
		}
	}
}

// GoInactive transitions ACTIVE to INACTIVE, returning the set of
// subscriber registration ids that must now receive
// ON_UNAVAILABLE_IMAGE.
func (img *Image) GoInactive(nowNanos int64) []int64 {
	if img.State != Active {
		return nil
	}

	img.State = Inactive
	img.inactiveEnteredAt = nowNanos

	return img.NotifiedSubscribers
}

// NextDeadline returns the nanosecond clock reading at which this image's
// current state next needs re-evaluating by Tick, and whether one applies.
// INIT, ACTIVE, and CLOSING have no pending deadline.
func (img *Image) NextDeadline(livenessTimeoutNanos int64) (int64, bool) {
	switch img.State {
	case Inactive:
		return img.inactiveEnteredAt + livenessTimeoutNanos, true
	case Linger:
		return img.lingerEnteredAt + livenessTimeoutNanos, true
	default:
		return 0, false
	}
}

// Tick evaluates this image's timer-driven transitions: INACTIVE advances
// to LINGER, and LINGER advances to CLOSING, both after
// livenessTimeoutNanos has elapsed in the current state, per spec.md
// §4.3. It reports true if the image just entered CLOSING.
func (img *Image) Tick(nowNanos, livenessTimeoutNanos int64) bool {
	switch img.State {
	case Inactive:
		if nowNanos-img.inactiveEnteredAt > livenessTimeoutNanos {
			img.State = Linger
			img.lingerEnteredAt = nowNanos
		}
		return false
	case Linger:
		if nowNanos-img.lingerEnteredAt > livenessTimeoutNanos {
			img.State = Closing
			return true
		}
		return false
	default:
		return false
	}
}
