// Package clock injects time into the conductor so that timer maintenance,
// linger/liveness timeouts, and keepalive tracking can be driven
// deterministically in tests instead of through the wall clock.
package clock

import "time"

// Clock reports the current monotonic time in nanoseconds. It is the sole
// source of "now" for every conductor component; nothing below the
// conductor calls time.Now() directly.
type Clock interface {
	NowNanos() int64
}

// Real is a Clock backed by the operating system's monotonic clock.
type Real struct {
	start time.Time
}

// NewReal creates a Clock backed by time.Now/time.Since, anchored at
// construction time so NowNanos never overflows across long-running
// processes.
func NewReal() *Real {
	return &Real{start: time.Now()}
}

// NowNanos returns nanoseconds elapsed since the clock was constructed.
func (r *Real) NowNanos() int64 {
	return int64(time.Since(r.start))
}

// Manual is a Clock a test can advance explicitly.
type Manual struct {
	now int64
}

// NewManual creates a Manual clock starting at the given time.
func NewManual(startNanos int64) *Manual {
	return &Manual{now: startNanos}
}

// NowNanos returns the manually-set current time.
func (m *Manual) NowNanos() int64 {
	return m.now
}

// Advance moves the manual clock forward by the given duration.
func (m *Manual) Advance(d time.Duration) {
	m.now += int64(d)
}

// Set moves the manual clock to an absolute nanosecond time.
func (m *Manual) Set(nowNanos int64) {
	m.now = nowNanos
}
