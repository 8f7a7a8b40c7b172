package timer

import "testing"

func TestPopReadyReturnsNearestDeadlineFirst(t *testing.T) {
	w := New[string]()
	w.Schedule(300, "c")
	w.Schedule(100, "a")
	w.Schedule(200, "b")

	ready := w.PopReady(250)
	if len(ready) != 2 || ready[0] != "a" || ready[1] != "b" {
		t.Fatalf("got %v", ready)
	}
	if w.Len() != 1 {
		t.Fatalf("len = %d, want 1", w.Len())
	}
}

func TestNextDeadlineOnEmptyWheel(t *testing.T) {
	w := New[int]()
	if _, ok := w.NextDeadline(); ok {
		t.Fatal("expected no deadline on empty wheel")
	}
}

func TestNextDeadlineTracksEarliest(t *testing.T) {
	w := New[int]()
	w.Schedule(500, 1)
	w.Schedule(100, 2)

	d, ok := w.NextDeadline()
	if !ok || d != 100 {
		t.Fatalf("deadline = %d, ok = %v", d, ok)
	}
}
