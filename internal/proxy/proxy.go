// Package proxy defines the conductor's narrow, capability-style views of
// the sender and receiver data-plane agents (spec.md §9: "model as ...
// narrow trait-like capability sets per collaborator; each exposes only
// the handful of operations the conductor calls"), backed by one-way
// mailboxes rather than direct calls, per spec.md §5's one-producer /
// one-consumer queue requirement. Grounded on the teacher's
// sim/connection.go Connection interface, narrowed from its generic
// PlugIn/Unplug/NotifyAvailable/NotifySend shape to the conductor's actual
// vocabulary, and sim/buffer.go for the underlying mailbox.
package proxy

import "github.com/marksb/aeron/internal/ring"

// SenderCommand is one instruction the conductor sends to the sender
// agent.
type SenderCommand struct {
	Kind SenderCommandKind

	RegistrationID int64
	StreamID       int32
	SessionID      int32
	EndpointKey    string
	LogHandle      any

	DestinationURI string
}

// SenderCommandKind identifies a SenderCommand's purpose.
type SenderCommandKind int

const (
	// NewNetworkPublication tells the sender to start transmitting a
	// newly-created network publication's log buffer.
	NewNetworkPublication SenderCommandKind = iota
	// RemoveNetworkPublication tells the sender a publication entered
	// CLOSING and should stop transmitting and acknowledge.
	RemoveNetworkPublication
	// AddDestination adds a manual MDC destination to an existing
	// publication.
	AddDestination
	// RemoveDestination removes a manual MDC destination.
	RemoveDestination
	// CloseSendEndpoint instructs the sender to close a send endpoint's
	// socket; issued at most once per endpoint instance (spec.md §4.4).
	CloseSendEndpoint
)

// ReceiverCommand is one instruction the conductor sends to the receiver
// agent.
type ReceiverCommand struct {
	Kind ReceiverCommandKind

	RegistrationID int64
	StreamID       int32
	EndpointKey    string
	Reliable       bool

	DestinationURI string
}

// ReceiverCommandKind identifies a ReceiverCommand's purpose.
type ReceiverCommandKind int

const (
	// RegisterSubscription tells the receiver a subscription now expects
	// images for (endpoint, stream); the receiver opens the socket on the
	// first registration for an endpoint.
	RegisterSubscription ReceiverCommandKind = iota
	// UnregisterSubscription tells the receiver a subscription no longer
	// expects images.
	UnregisterSubscription
	// AddMDCDestination adds a manual MDC destination to a subscription.
	AddMDCDestination
	// RemoveMDCDestination removes a manual MDC destination.
	RemoveMDCDestination
	// CloseReceiveEndpoint instructs the receiver to close a receive
	// endpoint's socket; issued at most once per endpoint instance.
	CloseReceiveEndpoint
)

// SenderProxy is the conductor's capability set for instructing the
// sender agent. Every method is fire-and-forget: the mailbox either
// accepts the command or the caller is told it didn't, per spec.md §5's
// "no conductor operation blocks."
type SenderProxy interface {
	NewNetworkPublication(cmd SenderCommand) bool
	RemoveNetworkPublication(cmd SenderCommand) bool
	AddDestination(cmd SenderCommand) bool
	RemoveDestination(cmd SenderCommand) bool
	CloseSendEndpoint(cmd SenderCommand) bool
}

// ReceiverProxy is the conductor's capability set for instructing the
// receiver agent.
type ReceiverProxy interface {
	RegisterSubscription(cmd ReceiverCommand) bool
	UnregisterSubscription(cmd ReceiverCommand) bool
	AddMDCDestination(cmd ReceiverCommand) bool
	RemoveMDCDestination(cmd ReceiverCommand) bool
	CloseReceiveEndpoint(cmd ReceiverCommand) bool
}

// MailboxSender is a SenderProxy backed by a bounded ring.Buffer the
// sender agent drains on its own schedule.
type MailboxSender struct {
	mailbox *ring.Buffer[SenderCommand]
}

// NewMailboxSender wraps mailbox as a SenderProxy.
func NewMailboxSender(mailbox *ring.Buffer[SenderCommand]) *MailboxSender {
	return &MailboxSender{mailbox: mailbox}
}

func (m *MailboxSender) send(kind SenderCommandKind, cmd SenderCommand) bool {
	cmd.Kind = kind
	return m.mailbox.Push(cmd)
}

// NewNetworkPublication implements SenderProxy.
func (m *MailboxSender) NewNetworkPublication(cmd SenderCommand) bool {
	return m.send(NewNetworkPublication, cmd)
}

// RemoveNetworkPublication implements SenderProxy.
func (m *MailboxSender) RemoveNetworkPublication(cmd SenderCommand) bool {
	return m.send(RemoveNetworkPublication, cmd)
}

// AddDestination implements SenderProxy.
func (m *MailboxSender) AddDestination(cmd SenderCommand) bool {
	return m.send(AddDestination, cmd)
}

// RemoveDestination implements SenderProxy.
func (m *MailboxSender) RemoveDestination(cmd SenderCommand) bool {
	return m.send(RemoveDestination, cmd)
}

// CloseSendEndpoint implements SenderProxy.
func (m *MailboxSender) CloseSendEndpoint(cmd SenderCommand) bool {
	return m.send(CloseSendEndpoint, cmd)
}

// MailboxReceiver is a ReceiverProxy backed by a bounded ring.Buffer the
// receiver agent drains on its own schedule.
type MailboxReceiver struct {
	mailbox *ring.Buffer[ReceiverCommand]
}

// NewMailboxReceiver wraps mailbox as a ReceiverProxy.
func NewMailboxReceiver(mailbox *ring.Buffer[ReceiverCommand]) *MailboxReceiver {
	return &MailboxReceiver{mailbox: mailbox}
}

func (m *MailboxReceiver) send(kind ReceiverCommandKind, cmd ReceiverCommand) bool {
	cmd.Kind = kind
	return m.mailbox.Push(cmd)
}

// RegisterSubscription implements ReceiverProxy.
func (m *MailboxReceiver) RegisterSubscription(cmd ReceiverCommand) bool {
	return m.send(RegisterSubscription, cmd)
}

// UnregisterSubscription implements ReceiverProxy.
func (m *MailboxReceiver) UnregisterSubscription(cmd ReceiverCommand) bool {
	return m.send(UnregisterSubscription, cmd)
}

// AddMDCDestination implements ReceiverProxy.
func (m *MailboxReceiver) AddMDCDestination(cmd ReceiverCommand) bool {
	return m.send(AddMDCDestination, cmd)
}

// RemoveMDCDestination implements ReceiverProxy.
func (m *MailboxReceiver) RemoveMDCDestination(cmd ReceiverCommand) bool {
	return m.send(RemoveMDCDestination, cmd)
}

// CloseReceiveEndpoint implements ReceiverProxy.
func (m *MailboxReceiver) CloseReceiveEndpoint(cmd ReceiverCommand) bool {
	return m.send(CloseReceiveEndpoint, cmd)
}
