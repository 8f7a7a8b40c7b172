// Package registry implements the entity tables the conductor owns:
// publications, subscriptions, images, clients, and channel endpoints are
// all "keyed by natural identity, enforce uniqueness, support lookup and
// stable iteration" — exactly the shape spec.md §9 asks for ("prefer flat
// arrays indexed by slot with secondary hash maps from key→slot; iteration
// for maintenance is then cache-friendly and stable"), grounded on the
// teacher's sim/simulation.go component/port index pair.
package registry

import "sort"

// Table is a generic flat-slice-plus-secondary-map registry. Slots are
// never compacted mid-iteration: Remove marks the slot dead and frees its
// key at once, Add always appends a new slot, and dead slots stay in place
// until Compact drops them, so live iteration (timer maintenance) never
// observes a half-removed entry.
type Table[K comparable, V any] struct {
	index map[K]int
	slots []*V
	live  []bool
}

// New creates an empty Table.
func New[K comparable, V any]() *Table[K, V] {
	return &Table[K, V]{index: make(map[K]int)}
}

// Add inserts v under key. It reports false if the key already exists.
func (t *Table[K, V]) Add(key K, v *V) bool {
	if _, exists := t.index[key]; exists {
		return false
	}

	t.slots = append(t.slots, v)
	t.live = append(t.live, true)
	t.index[key] = len(t.slots) - 1

	return true
}

// Get returns the value for key, or nil if absent.
func (t *Table[K, V]) Get(key K) *V {
	slot, ok := t.index[key]
	if !ok || !t.live[slot] {
		return nil
	}

	return t.slots[slot]
}

// Contains reports whether key is present.
func (t *Table[K, V]) Contains(key K) bool {
	return t.Get(key) != nil
}

// Remove deletes key. It reports false if the key was absent.
func (t *Table[K, V]) Remove(key K) bool {
	slot, ok := t.index[key]
	if !ok || !t.live[slot] {
		return false
	}

	t.live[slot] = false
	delete(t.index, key)

	return true
}

// Len returns the number of live entries.
func (t *Table[K, V]) Len() int {
	n := 0
	for _, alive := range t.live {
		if alive {
			n++
		}
	}

	return n
}

// Each calls fn for every live entry, in insertion order. fn may call
// Remove on the current or a different key; it must not call Add.
func (t *Table[K, V]) Each(fn func(v *V)) {
	for i, alive := range t.live {
		if alive {
			fn(t.slots[i])
		}
	}
}

// Values returns a snapshot slice of every live value, in insertion order.
func (t *Table[K, V]) Values() []*V {
	out := make([]*V, 0, len(t.slots))
	for i, alive := range t.live {
		if alive {
			out = append(out, t.slots[i])
		}
	}

	return out
}

// Keys returns a snapshot of live keys in Go's unspecified map-iteration
// order; a caller that needs deterministic ordering should sort the result
// with SortedKeys.
func (t *Table[K, V]) Keys() []K {
	keys := make([]K, 0, len(t.index))
	for k := range t.index {
		keys = append(keys, k)
	}

	return keys
}

// Compact drops dead slots, rebuilding the index. Call this periodically
// (e.g. from timer maintenance) so long-running registries with heavy
// churn don't grow unbounded; it is never required for correctness.
func (t *Table[K, V]) Compact(keyOf func(v *V) K) {
	newSlots := make([]*V, 0, len(t.slots))
	newLive := make([]bool, 0, len(t.slots))
	newIndex := make(map[K]int, len(t.index))

	for i, alive := range t.live {
		if !alive {
			continue
		}

		v := t.slots[i]
		newIndex[keyOf(v)] = len(newSlots)
		newSlots = append(newSlots, v)
		newLive = append(newLive, true)
	}

	t.slots, t.live, t.index = newSlots, newLive, newIndex
}

// SortedKeys is a small helper for tests/diagnostics that want
// deterministic key ordering; the caller supplies the ordering as less, and
// it is kept separate from Keys to avoid forcing an ordering constraint on K.
func SortedKeys[K comparable](keys []K, less func(a, b K) bool) []K {
	out := append([]K(nil), keys...)
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })

	return out
}
