package conductor

import (
	"github.com/marksb/aeron/internal/client"
	"github.com/marksb/aeron/internal/endpoint"
	"github.com/marksb/aeron/internal/image"
	"github.com/marksb/aeron/internal/publication"
	"github.com/marksb/aeron/internal/subscription"
)

// BufferStat is the diagnostic shape every mailbox/buffer in the conductor
// exposes, matching the teacher's sim.Buffer (Name/Size/Capacity) so the
// admin surface's buffer-occupancy endpoint can treat them uniformly.
type BufferStat interface {
	Name() string
	Size() int
	Capacity() int
}

// Buffers returns the occupancy of every buffer the conductor itself owns
// (the client command ring and the two inter-agent inboxes, plus the
// broadcast buffer). The sender/receiver-bound mailboxes live outside the
// conductor, behind the narrow SenderProxy/ReceiverProxy it was given, so
// the process wiring them up reports those separately.
func (c *Conductor) Buffers() []BufferStat {
	stats := make([]BufferStat, 0, 4)
	if c.clientRing != nil {
		stats = append(stats, c.clientRing)
	}
	if c.fromSender != nil {
		stats = append(stats, c.fromSender)
	}
	if c.fromReceiver != nil {
		stats = append(stats, c.fromReceiver)
	}
	stats = append(stats, c.emitter)
	return stats
}

// PublicationSnapshot is a read-only view of one registered publication.
type PublicationSnapshot struct {
	RegistrationID int64
	Kind           string
	Exclusive      bool
	StreamID       int32
	SessionID      int32
	RefCount       int
	State          string
	ChannelURI     string
}

// Publications returns a snapshot of every live publication.
func (c *Conductor) Publications() []PublicationSnapshot {
	var out []PublicationSnapshot
	c.pubs.Each(func(p *publication.Publication) {
		kind := "NETWORK"
		if p.Kind == publication.IPC {
			kind = "IPC"
		}

		channelURI := ""
		if p.Descr != nil {
			channelURI = p.Descr.Raw()
		}

		out = append(out, PublicationSnapshot{
			RegistrationID: p.RegistrationID,
			Kind:           kind,
			Exclusive:      p.Exclusive,
			StreamID:       p.StreamID,
			SessionID:      p.SessionID,
			RefCount:       p.RefCount,
			State:          p.State.String(),
			ChannelURI:     channelURI,
		})
	})
	return out
}

// SubscriptionSnapshot is a read-only view of one registered subscription.
type SubscriptionSnapshot struct {
	RegistrationID int64
	ClientID       int64
	StreamID       int32
	Reliable       bool
	Spy            bool
	ChannelURI     string
}

// Subscriptions returns a snapshot of every live subscription.
func (c *Conductor) Subscriptions() []SubscriptionSnapshot {
	var out []SubscriptionSnapshot
	c.subs.Each(func(s *subscription.Subscription) {
		out = append(out, SubscriptionSnapshot{
			RegistrationID: s.RegistrationID,
			ClientID:       s.ClientID,
			StreamID:       s.StreamID,
			Reliable:       s.Reliable,
			Spy:            s.Spy,
			ChannelURI:     s.ChannelURI,
		})
	})
	return out
}

// ImageSnapshot is a read-only view of one observed publication image.
type ImageSnapshot struct {
	CorrelationID  int64
	StreamID       int32
	SessionID      int32
	State          string
	SourceIdentity string
}

// Images returns a snapshot of every tracked image.
func (c *Conductor) Images() []ImageSnapshot {
	var out []ImageSnapshot
	c.images.Each(func(img *image.Image) {
		out = append(out, ImageSnapshot{
			CorrelationID:  img.CorrelationID,
			StreamID:       img.Key.StreamID,
			SessionID:      img.Key.SessionID,
			State:          img.State.String(),
			SourceIdentity: img.SourceIdentity,
		})
	})
	return out
}

// ClientSnapshot is a read-only view of one connected client.
type ClientSnapshot struct {
	ID                 int64
	SessionToken       string
	LastKeepaliveNanos int64
	OwnedPublications  int
	OwnedSubscriptions int
}

// Clients returns a snapshot of every tracked client.
func (c *Conductor) Clients() []ClientSnapshot {
	var out []ClientSnapshot
	c.clients.Each(func(cl *client.Client) {
		var pubs, subs int
		for _, o := range c.clients.Owned(cl.ID) {
			if o.Kind == client.KindPublication {
				pubs++
			} else {
				subs++
			}
		}

		out = append(out, ClientSnapshot{
			ID:                 cl.ID,
			SessionToken:       cl.SessionToken,
			LastKeepaliveNanos: cl.LastKeepalive,
			OwnedPublications:  pubs,
			OwnedSubscriptions: subs,
		})
	})
	return out
}

// EndpointSnapshot is a read-only view of one live channel endpoint.
type EndpointSnapshot struct {
	Key        string
	InstanceID string
	Direction  string
	RefCount   int
}

// Endpoints returns a snapshot of every live send and receive endpoint.
func (c *Conductor) Endpoints() []EndpointSnapshot {
	var out []EndpointSnapshot
	collect := func(dir string) func(*endpoint.Endpoint) {
		return func(e *endpoint.Endpoint) {
			out = append(out, EndpointSnapshot{
				Key:        e.Key,
				InstanceID: e.InstanceID,
				Direction:  dir,
				RefCount:   e.RefCount(),
			})
		}
	}
	c.sendEndpoints.Each(collect("SEND"))
	c.recvEndpoints.Each(collect("RECEIVE"))
	return out
}
