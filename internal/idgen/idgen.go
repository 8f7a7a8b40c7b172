// Package idgen generates the identifiers the conductor hands out:
// sequential registration/correlation ids, and opaque client session
// tokens.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// Generator produces identifiers.
type Generator interface {
	Generate() string
}

// Sequential produces small, monotonically increasing decimal ids. Used for
// correlation and registration ids so logs and traces stay diff-friendly
// and tests stay deterministic.
type Sequential struct {
	next uint64
}

// NewSequential creates a Sequential generator starting just above 0.
func NewSequential() *Sequential {
	return &Sequential{}
}

// Generate returns the next id as a base-10 string.
func (g *Sequential) Generate() string {
	return strconv.FormatUint(atomic.AddUint64(&g.next, 1), 10)
}

// NextInt64 returns the next id as an int64, for callers that need a
// registration id as a number rather than a string.
func (g *Sequential) NextInt64() int64 {
	return int64(atomic.AddUint64(&g.next, 1))
}

// NextInt32 returns the next id as an int32, for callers that need a
// small counter value such as a subscriber position id.
func (g *Sequential) NextInt32() int32 {
	return int32(atomic.AddUint64(&g.next, 1))
}

// Opaque produces globally-unique, non-sequential ids (client session
// tokens, endpoint instance ids) where a small decimal counter would leak
// ordering/volume information.
type Opaque struct{}

// NewOpaque creates an Opaque generator.
func NewOpaque() Opaque { return Opaque{} }

// Generate returns a new xid-based id.
func (Opaque) Generate() string {
	return xid.New().String()
}
