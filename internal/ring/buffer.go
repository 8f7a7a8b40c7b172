// Package ring provides the bounded FIFO buffers used as mailboxes
// throughout the conductor: the client command ring, the one-producer/
// one-consumer internal command queues to and from the sender/receiver, and
// the client broadcast buffer.
package ring

import (
	"sync"

	"github.com/marksb/aeron/internal/hook"
)

// PosPush marks when an element is pushed into the buffer.
var PosPush = &hook.Pos{Name: "Buffer Push"}

// PosPop marks when an element is popped from the buffer.
var PosPop = &hook.Pos{Name: "Buffer Pop"}

// Buffer is a bounded, thread-safe FIFO queue. Multiple producers may push
// concurrently; at most one consumer is expected to pop, matching the
// conductor's single-consumer command rings.
type Buffer[T any] struct {
	hook.Base

	mu       sync.Mutex
	name     string
	capacity int
	elems    []T
}

// New creates a Buffer with the given name (used only for diagnostics) and
// capacity.
func New[T any](name string, capacity int) *Buffer[T] {
	if capacity <= 0 {
		panic("ring: capacity must be positive")
	}

	return &Buffer[T]{name: name, capacity: capacity}
}

// Name returns the buffer's diagnostic name.
func (b *Buffer[T]) Name() string {
	return b.name
}

// CanPush reports whether the buffer has room for one more element.
func (b *Buffer[T]) CanPush() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.elems) < b.capacity
}

// Push appends an element. It reports false, without mutating the buffer,
// if the buffer is full — callers must check this since a full mailbox is
// an expected, recoverable condition (never a panic) on the hot path.
func (b *Buffer[T]) Push(e T) bool {
	b.mu.Lock()
	if len(b.elems) >= b.capacity {
		b.mu.Unlock()
		return false
	}

	b.elems = append(b.elems, e)
	n := len(b.elems)
	b.mu.Unlock()

	if b.NumHooks() > 0 {
		b.Invoke(hook.Ctx{Domain: b, Pos: PosPush, Item: e, Detail: n})
	}

	return true
}

// Pop removes and returns the oldest element. ok is false if the buffer was
// empty.
func (b *Buffer[T]) Pop() (e T, ok bool) {
	b.mu.Lock()
	if len(b.elems) == 0 {
		b.mu.Unlock()
		return e, false
	}

	e = b.elems[0]
	b.elems = b.elems[1:]
	b.mu.Unlock()

	if b.NumHooks() > 0 {
		b.Invoke(hook.Ctx{Domain: b, Pos: PosPop, Item: e})
	}

	return e, true
}

// Peek returns the oldest element without removing it.
func (b *Buffer[T]) Peek() (e T, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.elems) == 0 {
		return e, false
	}

	return b.elems[0], true
}

// Capacity returns the maximum number of elements the buffer can hold.
func (b *Buffer[T]) Capacity() int {
	return b.capacity
}

// Size returns the number of elements currently buffered.
func (b *Buffer[T]) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.elems)
}

// DrainUpTo pops up to max elements and calls fn with each, stopping early
// if the buffer empties. It is the primitive the conductor uses to drain
// the client command ring with a bounded amount of work per tick.
func (b *Buffer[T]) DrainUpTo(max int, fn func(T)) int {
	n := 0
	for n < max {
		e, ok := b.Pop()
		if !ok {
			break
		}

		fn(e)
		n++
	}

	return n
}
