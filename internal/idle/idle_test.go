package idle

import (
	"testing"
	"time"
)

func TestIdleStaysSpinningUnderMaxSpins(t *testing.T) {
	s := New(3, 3, time.Microsecond, time.Millisecond)
	for i := 0; i < 3; i++ {
		s.Idle()
		if s.state != stateSpinning {
			t.Fatalf("iteration %d: state = %d, want spinning", i, s.state)
		}
	}
}

func TestIdleMovesToYieldingPastMaxSpins(t *testing.T) {
	s := New(2, 5, time.Microsecond, time.Millisecond)
	for i := 0; i < 3; i++ {
		s.Idle()
	}
	if s.state != stateYielding {
		t.Fatalf("state = %d, want yielding", s.state)
	}
}

func TestIdleMovesToParkingPastMaxYields(t *testing.T) {
	s := New(0, 2, time.Microsecond, time.Millisecond)
	for i := 0; i < 4; i++ {
		s.Idle()
	}
	if s.state != stateParking {
		t.Fatalf("state = %d, want parking", s.state)
	}
}

func TestIdleParkDurationDoublesAndCapsAtMaxPark(t *testing.T) {
	s := New(0, 0, time.Millisecond, 4*time.Millisecond)
	s.Idle() // spinning -> yielding
	s.Idle() // yielding -> parking, parkFor set to minPark, no sleep yet
	if s.state != stateParking || s.parkFor != time.Millisecond {
		t.Fatalf("state = %d, parkFor = %v, want parking at 1ms", s.state, s.parkFor)
	}
	s.Idle() // sleeps 1ms, doubles to 2ms
	if s.parkFor != 2*time.Millisecond {
		t.Fatalf("parkFor = %v, want 2ms", s.parkFor)
	}
	s.Idle() // sleeps 2ms, doubles to 4ms
	if s.parkFor != 4*time.Millisecond {
		t.Fatalf("parkFor = %v, want 4ms", s.parkFor)
	}
	s.Idle() // sleeps 4ms, would double to 8ms but caps at 4ms
	if s.parkFor != 4*time.Millisecond {
		t.Fatalf("parkFor = %v, want capped at 4ms", s.parkFor)
	}
}

func TestResetReturnsToSpinning(t *testing.T) {
	s := New(0, 0, time.Microsecond, time.Millisecond)
	s.Idle()
	s.Idle()
	if s.state != stateParking {
		t.Fatalf("state = %d, want parking before reset", s.state)
	}
	s.Reset()
	if s.state != stateSpinning || s.spins != 0 || s.parkFor != s.minPark {
		t.Fatalf("reset left state = %d, spins = %d, parkFor = %v", s.state, s.spins, s.parkFor)
	}
}
