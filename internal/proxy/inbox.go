package proxy

import "github.com/marksb/aeron/internal/ring"

// InboundKind identifies what a data-plane agent is telling the conductor
// on its internal command queue, per spec.md §2/§5: "internal commands
// from sender/receiver arrive on a one-producer / one-consumer array
// queue per direction; the conductor polls it."
type InboundKind int

const (
	// ImageCreated is the receiver announcing a new publication image,
	// the trigger for the conductor's INIT state creation in spec.md
	// §4.3.
	ImageCreated InboundKind = iota
	// StatusMessageReceived is the receiver announcing it sent a status
	// message for an image, the trigger for INIT->ACTIVE.
	StatusMessageReceived
	// ImageInactive is the receiver reporting it stopped hearing from a
	// publication.
	ImageInactive
	// EndpointClosed is either agent acknowledging a CloseSendEndpoint or
	// CloseReceiveEndpoint command completed.
	EndpointClosed
	// PublicationRemoved is the sender acknowledging a
	// RemoveNetworkPublication command completed (CLOSING's "sender ack"
	// transition in spec.md §4.2).
	PublicationRemoved
	// PublicationConnected is the sender reporting that a status message
	// from a remote receiver was matched to one of its publications for
	// the first time, identified by (endpoint, stream, session). This is
	// what drives Publication.HadReceiver, the drain-before-linger gate
	// in spec.md §4.2's ACTIVE->DRAINING transition.
	PublicationConnected
)

// InboundCommand is one message a data-plane agent posts to the
// conductor.
type InboundCommand struct {
	Kind InboundKind

	EndpointKey string
	StreamID    int32
	SessionID   int32

	RegistrationID int64
	CorrelationID  int64

	InitTermID int32
	TermOffset int64

	SourceIdentity string
	LogHandle      any
}

// Inbox is the conductor-side consumer half of a one-producer/
// one-consumer queue from a single data-plane agent.
type Inbox struct {
	mailbox *ring.Buffer[InboundCommand]
}

// NewInbox wraps mailbox as an Inbox.
func NewInbox(mailbox *ring.Buffer[InboundCommand]) *Inbox {
	return &Inbox{mailbox: mailbox}
}

// Post is called by the data-plane agent side to enqueue a command for
// the conductor to poll. It reports false if the queue is full.
func (b *Inbox) Post(cmd InboundCommand) bool {
	return b.mailbox.Push(cmd)
}

// Drain calls fn for up to max pending commands, in arrival order,
// bounding the work a single conductor tick spends on internal commands
// per spec.md §2's do_work step 2.
func (b *Inbox) Drain(max int, fn func(InboundCommand)) int {
	return b.mailbox.DrainUpTo(max, fn)
}

// Name returns the underlying mailbox's diagnostic name.
func (b *Inbox) Name() string { return b.mailbox.Name() }

// Size returns the number of commands currently queued.
func (b *Inbox) Size() int { return b.mailbox.Size() }

// Capacity returns the mailbox's maximum queue depth.
func (b *Inbox) Capacity() int { return b.mailbox.Capacity() }
