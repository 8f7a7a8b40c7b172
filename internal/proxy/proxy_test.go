package proxy

import (
	"testing"

	"github.com/marksb/aeron/internal/ring"
)

func TestMailboxSenderSetsKind(t *testing.T) {
	buf := ring.New[SenderCommand]("sender", 4)
	sp := NewMailboxSender(buf)

	if !sp.NewNetworkPublication(SenderCommand{RegistrationID: 1}) {
		t.Fatal("expected push to succeed")
	}

	got, ok := buf.Pop()
	if !ok {
		t.Fatal("expected a queued command")
	}
	if got.Kind != NewNetworkPublication || got.RegistrationID != 1 {
		t.Fatalf("got %+v", got)
	}
}

func TestMailboxSenderFullMailboxReportsFalse(t *testing.T) {
	buf := ring.New[SenderCommand]("sender", 1)
	sp := NewMailboxSender(buf)

	sp.NewNetworkPublication(SenderCommand{})
	if sp.NewNetworkPublication(SenderCommand{}) {
		t.Fatal("expected second push into a full mailbox to fail")
	}
}

func TestInboxPostAndDrain(t *testing.T) {
	buf := ring.New[InboundCommand]("inbox", 8)
	inbox := NewInbox(buf)

	inbox.Post(InboundCommand{Kind: ImageCreated, RegistrationID: 1})
	inbox.Post(InboundCommand{Kind: StatusMessageReceived, RegistrationID: 1})
	inbox.Post(InboundCommand{Kind: ImageCreated, RegistrationID: 2})

	var seen []int64
	n := inbox.Drain(2, func(cmd InboundCommand) { seen = append(seen, cmd.RegistrationID) })

	if n != 2 || len(seen) != 2 || seen[0] != 1 || seen[1] != 1 {
		t.Fatalf("n=%d seen=%v", n, seen)
	}
}
