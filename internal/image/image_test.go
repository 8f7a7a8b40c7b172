package image

import "testing"

func TestActivateNotifiesInitialSubscribers(t *testing.T) {
	img := &Image{State: Init}
	img.Activate(100, []int64{1, 2})

	if img.State != Active {
		t.Fatalf("state = %v, want ACTIVE", img.State)
	}
	if len(img.NotifiedSubscribers) != 2 {
		t.Fatalf("notified = %v", img.NotifiedSubscribers)
	}
}

func TestNotifySubscriberAddsLateArrival(t *testing.T) {
	img := &Image{State: Active}
	img.NotifySubscriber(1)
	added := img.NotifySubscriber(1)

	if added {
		t.Fatal("expected duplicate notify to report false")
	}
	if len(img.NotifiedSubscribers) != 1 {
		t.Fatalf("notified = %v", img.NotifiedSubscribers)
	}
}

func TestGoInactiveReturnsNotifiedSet(t *testing.T) {
	img := &Image{State: Active, NotifiedSubscribers: []int64{1, 2, 3}}
	gone := img.GoInactive(500)

	if img.State != Inactive {
		t.Fatalf("state = %v, want INACTIVE", img.State)
	}
	if len(gone) != 3 {
		t.Fatalf("gone = %v", gone)
	}
}

func TestForgetRemovesOnlyTheGivenSubscriber(t *testing.T) {
	img := &Image{State: Active, NotifiedSubscribers: []int64{1, 2, 3}}
	img.Forget(2)

	if len(img.NotifiedSubscribers) != 2 {
		t.Fatalf("notified = %v, want len 2", img.NotifiedSubscribers)
	}
	for _, id := range img.NotifiedSubscribers {
		if id == 2 {
			t.Fatal("expected 2 to be forgotten")
		}
	}

	gone := img.GoInactive(500)
	for _, id := range gone {
		if id == 2 {
			t.Fatal("forgotten subscriber should not receive ON_UNAVAILABLE_IMAGE")
		}
	}
}

func TestForgetUnknownSubscriberIsNoop(t *testing.T) {
	img := &Image{State: Active, NotifiedSubscribers: []int64{1, 2}}
	img.Forget(99)

	if len(img.NotifiedSubscribers) != 2 {
		t.Fatalf("notified = %v, want unchanged", img.NotifiedSubscribers)
	}
}

func TestNextDeadlineTracksCurrentState(t *testing.T) {
	img := &Image{State: Active}
	if _, ok := img.NextDeadline(1000); ok {
		t.Fatal("expected no deadline while ACTIVE")
	}

	img = &Image{State: Inactive, inactiveEnteredAt: 100}
	deadline, ok := img.NextDeadline(1000)
	if !ok || deadline != 1100 {
		t.Fatalf("deadline = %d, %v; want 1100, true", deadline, ok)
	}

	img = &Image{State: Linger, lingerEnteredAt: 100}
	deadline, ok = img.NextDeadline(1000)
	if !ok || deadline != 1100 {
		t.Fatalf("deadline = %d, %v; want 1100, true", deadline, ok)
	}
}

func TestTickInactiveToLingerToClosing(t *testing.T) {
	img := &Image{State: Inactive, inactiveEnteredAt: 0}

	img.Tick(50, 100)
	if img.State != Inactive {
		t.Fatalf("state = %v, want still INACTIVE", img.State)
	}

	img.Tick(200, 100)
	if img.State != Linger {
		t.Fatalf("state = %v, want LINGER", img.State)
	}

	img.Tick(250, 100)
	if img.State != Linger {
		t.Fatalf("state = %v, want still LINGER", img.State)
	}

	if !img.Tick(400, 100) {
		t.Fatal("expected CLOSING transition to report true")
	}
	if img.State != Closing {
		t.Fatalf("state = %v, want CLOSING", img.State)
	}
}
