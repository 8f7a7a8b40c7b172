package publication

import (
	"testing"

	"github.com/marksb/aeron/internal/channel"
)

func TestRemoveRefWithReceiverEntersDraining(t *testing.T) {
	p := &Publication{Kind: Network, RefCount: 1, State: Active, HadReceiver: true}
	p.RemoveRef(1000)

	if p.State != Draining {
		t.Fatalf("state = %v, want DRAINING", p.State)
	}
}

func TestRemoveRefWithoutReceiverLingersImmediately(t *testing.T) {
	p := &Publication{Kind: Network, RefCount: 1, State: Active, HadReceiver: false}
	p.RemoveRef(1000)

	if p.State != Linger {
		t.Fatalf("state = %v, want LINGER", p.State)
	}
}

func TestRemoveRefIPCNoSpiesLingersImmediately(t *testing.T) {
	p := &Publication{Kind: IPC, RefCount: 1, State: Active}
	p.RemoveRef(1000)

	if p.State != Linger {
		t.Fatalf("state = %v, want LINGER", p.State)
	}
}

func TestRemoveRefKeepsRefcountPositive(t *testing.T) {
	p := &Publication{Kind: Network, RefCount: 2, State: Active, HadReceiver: true}
	n := p.RemoveRef(1000)

	if n != 1 || p.State != Active {
		t.Fatalf("refcount = %d, state = %v", n, p.State)
	}
}

func TestTickDrainingAdvancesOnDrained(t *testing.T) {
	p := &Publication{
		State: Draining, HadReceiver: true,
		ProducerPosition: 100, ConsumerPosition: 100,
	}

	closing := p.Tick(0, 1000, 1000)
	if closing {
		t.Fatal("did not expect CLOSING from DRAINING->LINGER")
	}
	if p.State != Linger {
		t.Fatalf("state = %v, want LINGER", p.State)
	}
}

func TestTickDrainingAdvancesOnConnectionTimeout(t *testing.T) {
	p := &Publication{
		State: Draining, HadReceiver: true,
		ProducerPosition: 100, ConsumerPosition: 0,
		drainEnteredAt: 0,
	}

	p.Tick(500, 1000, 1000) // not yet elapsed
	if p.State != Draining {
		t.Fatalf("state = %v, want still DRAINING", p.State)
	}

	p.Tick(2000, 1000, 1000) // elapsed
	if p.State != Linger {
		t.Fatalf("state = %v, want LINGER after timeout", p.State)
	}
}

func TestTickLingerAdvancesToClosing(t *testing.T) {
	p := &Publication{State: Linger, lingerEnteredAt: 0}

	if p.Tick(500, 1000, 1000) {
		t.Fatal("did not expect CLOSING before linger elapsed")
	}
	if !p.Tick(2000, 1000, 1000) {
		t.Fatal("expected CLOSING after linger elapsed")
	}
	if p.State != Closing {
		t.Fatalf("state = %v, want CLOSING", p.State)
	}
}

func TestNextDeadlineTracksCurrentState(t *testing.T) {
	p := &Publication{State: Active}
	if _, ok := p.NextDeadline(1000, 2000); ok {
		t.Fatal("expected no deadline while ACTIVE")
	}

	p = &Publication{State: Draining, drainEnteredAt: 500}
	deadline, ok := p.NextDeadline(1000, 2000)
	if !ok || deadline != 1500 {
		t.Fatalf("deadline = %d, %v; want 1500, true", deadline, ok)
	}

	p = &Publication{State: Linger, lingerEnteredAt: 500}
	deadline, ok = p.NextDeadline(1000, 2000)
	if !ok || deadline != 2500 {
		t.Fatalf("deadline = %d, %v; want 2500, true", deadline, ok)
	}
}

func TestSharedKeyAndExclusiveKeyDontCollide(t *testing.T) {
	tbl := New()
	sk := SharedKey("send:localhost:4000", 10, 5)
	ek := ExclusiveKey(99)

	tbl.Add(sk, &Publication{RegistrationID: 1, StreamID: 10, SessionID: 5})
	tbl.Add(ek, &Publication{RegistrationID: 99, StreamID: 10, SessionID: 5})

	if tbl.Len() != 2 {
		t.Fatalf("len = %d, want 2", tbl.Len())
	}
}

func TestFindNetworkBySessionEndpointMatchesOnTriple(t *testing.T) {
	d, err := channel.Parse("aeron:udp?endpoint=localhost:4000")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	tbl := New()
	p := &Publication{RegistrationID: 1, Kind: Network, Descr: d, StreamID: 10, SessionID: 5}
	tbl.Add(SharedKey(d.SendKey(), 10, 5), p)

	found := tbl.FindNetworkBySessionEndpoint(d.SendKey(), 10, 5)
	if found != p {
		t.Fatalf("found = %v, want %v", found, p)
	}

	if tbl.FindNetworkBySessionEndpoint(d.SendKey(), 10, 6) != nil {
		t.Fatal("expected no match on a different session id")
	}
}
