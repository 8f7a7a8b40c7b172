package idle

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingTicker struct {
	calls   atomic.Int64
	workFor int64
}

func (t *countingTicker) DoWork() bool {
	n := t.calls.Add(1)
	return n <= t.workFor
}

func TestRunnerStopsOnContextCancel(t *testing.T) {
	ticker := &countingTicker{workFor: 1 << 30}
	r := NewRunner(ticker, New(100, 100, time.Microsecond, time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	r.Run(ctx)

	if ticker.calls.Load() == 0 {
		t.Fatal("expected at least one DoWork call before cancellation")
	}
}

func TestRunnerBacksOffOnceWorkStops(t *testing.T) {
	ticker := &countingTicker{workFor: 3}
	strategy := New(1, 1, time.Microsecond, time.Millisecond)
	r := NewRunner(ticker, strategy)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Millisecond)
	defer cancel()

	r.Run(ctx)

	if ticker.calls.Load() < 3 {
		t.Fatalf("calls = %d, want at least 3", ticker.calls.Load())
	}
}
