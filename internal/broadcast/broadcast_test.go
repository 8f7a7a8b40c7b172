package broadcast

import (
	"testing"

	"github.com/marksb/aeron/internal/proto"
)

func TestEmitSucceedsUnderCapacity(t *testing.T) {
	e := New(2)

	if !e.Emit(proto.OperationSuccess(1, 1)) {
		t.Fatal("expected emit under capacity to succeed")
	}
	if e.Dropped() != 0 {
		t.Fatalf("dropped = %d, want 0", e.Dropped())
	}
}

func TestEmitDropsOnFullBuffer(t *testing.T) {
	e := New(1)

	e.Emit(proto.OperationSuccess(1, 1))
	if e.Emit(proto.OperationSuccess(1, 2)) {
		t.Fatal("expected second emit into a full buffer to fail")
	}
	if e.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", e.Dropped())
	}
}

func TestDrainPreservesOrder(t *testing.T) {
	e := New(4)
	e.Emit(proto.OperationSuccess(1, 1))
	e.Emit(proto.OperationSuccess(1, 2))
	e.Emit(proto.OperationSuccess(1, 3))

	var got []int64
	e.Drain(10, func(ev proto.Event) { got = append(got, ev.CorrelationID) })

	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("got %v", got)
	}
}
