package endpoint

import (
	"testing"

	"github.com/marksb/aeron/internal/channel"
)

func mustParse(t *testing.T, uri string) *channel.Descriptor {
	d, err := channel.Parse(uri)
	if err != nil {
		t.Fatalf("parse %q: %v", uri, err)
	}
	return d
}

func TestAcquireSharesSameEndpoint(t *testing.T) {
	var closed *Endpoint
	tbl := New(Send, func(e *Endpoint) { closed = e })

	d := mustParse(t, "aeron:udp?endpoint=localhost:4000")
	e1 := tbl.Acquire(d)
	e2 := tbl.Acquire(d)

	if e1 != e2 {
		t.Fatal("expected the same endpoint for the same descriptor")
	}
	if e1.RefCount() != 2 {
		t.Fatalf("refcount = %d, want 2", e1.RefCount())
	}

	e1.Release()
	if closed != nil {
		t.Fatal("expected endpoint to stay open with one ref remaining")
	}

	e2.Release()
	if closed != e1 {
		t.Fatal("expected onClosed to fire after last release")
	}
	if tbl.Len() != 0 {
		t.Fatalf("len = %d, want 0 after close", tbl.Len())
	}
}

func TestAcquireStampsAFreshInstanceIDPerLifetime(t *testing.T) {
	tbl := New(Send, nil)
	d := mustParse(t, "aeron:udp?endpoint=localhost:4100")

	e1 := tbl.Acquire(d)
	if e1.InstanceID == "" {
		t.Fatal("expected a non-empty instance id")
	}

	e1.Release()

	e2 := tbl.Acquire(d)
	if e2.InstanceID == e1.InstanceID {
		t.Fatal("expected a fresh instance id after the endpoint closed and reopened")
	}
}

func TestReleaseIsIdempotentPastZero(t *testing.T) {
	calls := 0
	tbl := New(Receive, func(*Endpoint) { calls++ })

	d := mustParse(t, "aeron:udp?endpoint=localhost:5000")
	e := tbl.Acquire(d)

	if !e.Release() {
		t.Fatal("expected first release past zero to close")
	}
	if e.Release() {
		t.Fatal("expected second release to be a no-op")
	}
	if calls != 1 {
		t.Fatalf("onClosed called %d times, want 1", calls)
	}
}

func TestSendAndReceiveTablesAreIndependent(t *testing.T) {
	sendTbl := New(Send, nil)
	recvTbl := New(Receive, nil)

	d := mustParse(t, "aeron:udp?endpoint=localhost:6000")
	sendTbl.Acquire(d)

	if recvTbl.Lookup(d) != nil {
		t.Fatal("expected receive table to be unaffected by send acquire")
	}
}
