// Package hook provides a small observer mechanism. ring.Buffer is its only
// Hookable: it invokes its hooks on every Push and Pop, so an observer can
// watch mailbox traffic without the buffer depending on it.
package hook

import "sync"

// Pos identifies a point in the conductor's lifecycle where a hook can
// attach.
type Pos struct {
	Name string
}

// Ctx carries the context of a single hook invocation.
type Ctx struct {
	Domain Hookable
	Pos    *Pos
	Item   interface{}
	Detail interface{}
}

// Hook is invoked at a Pos with the context of that invocation.
type Hook interface {
	Func(ctx Ctx)
}

// Hookable is anything that accepts Hooks.
type Hookable interface {
	AcceptHook(h Hook)
}

// Base provides a default implementation of Hookable.
type Base struct {
	mu    sync.Mutex
	hooks []Hook
}

// AcceptHook registers a hook.
func (b *Base) AcceptHook(h Hook) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hooks = append(b.hooks, h)
}

// NumHooks returns how many hooks are registered.
func (b *Base) NumHooks() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.hooks)
}

// Invoke triggers every registered hook with the given context.
func (b *Base) Invoke(ctx Ctx) {
	b.mu.Lock()
	hooks := b.hooks
	b.mu.Unlock()

	for _, h := range hooks {
		h.Func(ctx)
	}
}

// Func adapts a plain function into a Hook.
type Func func(ctx Ctx)

// Func implements Hook.
func (f Func) Func(ctx Ctx) { f(ctx) }
