// Package idle implements the bounded spin/yield/park backoff strategy
// spec.md §5 names for the outer loop driving the conductor's do_work
// tick: "spins, yields, then parks with an increasing bound (MAX_SPINS,
// MAX_YIELDS, MIN_PARK, MAX_PARK)". Grounded on the teacher's
// sim.TickingComponent (sim/ticker.go): a component driven by repeated
// non-blocking calls rather than an event loop that blocks waiting for
// work, with the Ticker interface's Tick() bool reporting whether a call
// made progress. Here the outer Runner plays the role of the teacher's
// Engine.Run, and Strategy plays the role the teacher leaves to its event
// queue's natural blocking (there is none here, since spec.md §5 forbids
// blocking within a tick and requires this explicit backoff instead).
package idle

import (
	"runtime"
	"time"
)

const (
	stateSpinning = iota
	stateYielding
	stateParking
)

// Strategy tracks the current backoff state across successive idle calls.
// It is not safe for concurrent use; the outer Runner owns it.
type Strategy struct {
	maxSpins  int64
	maxYields int64
	minPark   time.Duration
	maxPark   time.Duration

	state   int
	spins   int64
	yields  int64
	parkFor time.Duration
}

// New builds a Strategy from the bounds spec.md §5 names. maxSpins or
// maxYields of zero limits that stage to the single call that leaves it.
func New(maxSpins, maxYields int64, minPark, maxPark time.Duration) *Strategy {
	return &Strategy{
		maxSpins:  maxSpins,
		maxYields: maxYields,
		minPark:   minPark,
		maxPark:   maxPark,
		parkFor:   minPark,
	}
}

// Idle advances the backoff state by one step and applies it: a spin does
// nothing but consume the call, a yield cooperatively hands off the
// goroutine's turn, and a park sleeps for an increasing duration capped at
// maxPark. Call Reset whenever a tick makes progress.
func (s *Strategy) Idle() {
	switch s.state {
	case stateSpinning:
		s.spins++
		if s.spins > s.maxSpins {
			s.state = stateYielding
			s.yields = 0
		}
	case stateYielding:
		s.yields++
		runtime.Gosched()
		if s.yields > s.maxYields {
			s.state = stateParking
			s.parkFor = s.minPark
		}
	default:
		time.Sleep(s.parkFor)
		s.parkFor *= 2
		if s.parkFor > s.maxPark {
			s.parkFor = s.maxPark
		}
	}
}

// Reset returns the strategy to its spinning state, for the next time a
// tick goes idle after having made progress.
func (s *Strategy) Reset() {
	s.state = stateSpinning
	s.spins = 0
	s.yields = 0
	s.parkFor = s.minPark
}
