package subscription

import "testing"

func TestReliabilityConflictDetected(t *testing.T) {
	tbl := New()
	tbl.Add(&Subscription{RegistrationID: 1, EndpointKey: "recv:localhost:4000", StreamID: 10, Reliable: true})

	if !tbl.ReliabilityConflict("recv:localhost:4000", 10, false) {
		t.Fatal("expected conflict with a mismatched reliable flag")
	}
	if tbl.ReliabilityConflict("recv:localhost:4000", 10, true) {
		t.Fatal("did not expect conflict with a matching reliable flag")
	}
}

func TestSpySubscriptionsExcludedFromIndex(t *testing.T) {
	tbl := New()
	tbl.Add(&Subscription{RegistrationID: 1, Spy: true, StreamID: 10, Reliable: true})

	if tbl.CountForEndpointStream("", 10) != 0 {
		t.Fatal("expected spy subscription to be excluded from the endpoint-stream index")
	}
}

func TestRemoveDropsFromIndexAndCleansEmptyBucket(t *testing.T) {
	tbl := New()
	tbl.Add(&Subscription{RegistrationID: 1, EndpointKey: "recv:localhost:4000", StreamID: 10, Reliable: true})

	if tbl.CountForEndpointStream("recv:localhost:4000", 10) != 1 {
		t.Fatal("expected one subscription indexed")
	}

	tbl.Remove(1)

	if tbl.CountForEndpointStream("recv:localhost:4000", 10) != 0 {
		t.Fatal("expected index bucket emptied after remove")
	}
	if tbl.Get(1) != nil {
		t.Fatal("expected subscription gone after remove")
	}
}

func TestCountForEndpointAcrossStreams(t *testing.T) {
	tbl := New()
	tbl.Add(&Subscription{RegistrationID: 1, EndpointKey: "recv:localhost:4000", StreamID: 10, Reliable: true})
	tbl.Add(&Subscription{RegistrationID: 2, EndpointKey: "recv:localhost:4000", StreamID: 11, Reliable: true})

	if tbl.CountForEndpoint("recv:localhost:4000") != 2 {
		t.Fatalf("got %d, want 2", tbl.CountForEndpoint("recv:localhost:4000"))
	}
}
