package client

import "testing"

func TestTouchCreatesAndUpdates(t *testing.T) {
	tbl := New()

	tbl.Touch(1, 100)
	if tbl.Get(1).LastKeepalive != 100 {
		t.Fatal("expected first touch to record keepalive")
	}

	tbl.Touch(1, 200)
	if tbl.Get(1).LastKeepalive != 200 {
		t.Fatal("expected second touch to update keepalive")
	}
	if tbl.Len() != 1 {
		t.Fatalf("len = %d, want 1", tbl.Len())
	}
}

func TestTouchAssignsAStableSessionToken(t *testing.T) {
	tbl := New()

	tbl.Touch(1, 100)
	token := tbl.Get(1).SessionToken
	if token == "" {
		t.Fatal("expected a non-empty session token on first touch")
	}

	tbl.Touch(1, 200)
	if tbl.Get(1).SessionToken != token {
		t.Fatal("expected session token to survive later touches")
	}
}

func TestOwnedOrdersPublicationsBeforeSubscriptions(t *testing.T) {
	tbl := New()
	tbl.Touch(1, 0)
	tbl.Own(1, KindSubscription, 10)
	tbl.Own(1, KindPublication, 20)
	tbl.Own(1, KindSubscription, 11)
	tbl.Own(1, KindPublication, 21)

	owned := tbl.Owned(1)
	if len(owned) != 4 {
		t.Fatalf("got %d owned", len(owned))
	}
	if owned[0].Kind != KindPublication || owned[1].Kind != KindPublication {
		t.Fatalf("expected publications first, got %+v", owned)
	}
	if owned[2].Kind != KindSubscription || owned[3].Kind != KindSubscription {
		t.Fatalf("expected subscriptions last, got %+v", owned)
	}
}

func TestDisownRemovesSingleEntry(t *testing.T) {
	tbl := New()
	tbl.Touch(1, 0)
	tbl.Own(1, KindPublication, 20)
	tbl.Own(1, KindPublication, 21)

	tbl.Disown(1, KindPublication, 20)

	owned := tbl.Owned(1)
	if len(owned) != 1 || owned[0].RegistrationID != 21 {
		t.Fatalf("got %+v", owned)
	}
}
