package conductor

import (
	"github.com/marksb/aeron/internal/image"
	"github.com/marksb/aeron/internal/proto"
	"github.com/marksb/aeron/internal/proxy"
	"github.com/marksb/aeron/internal/publication"
	"github.com/marksb/aeron/internal/subscription"
)

// handleReceiverInbound services one internal command the receiver agent
// posted, per spec.md §2's do_work step 2 ("image creation callbacks from
// the receiver").
func (c *Conductor) handleReceiverInbound(cmd proxy.InboundCommand) {
	switch cmd.Kind {
	case proxy.ImageCreated:
		c.onImageCreated(cmd)
	case proxy.StatusMessageReceived:
		c.onStatusMessage(cmd)
	case proxy.ImageInactive:
		c.onImageInactive(cmd)
	}
}

// handleSenderInbound services one internal command the sender agent
// posted.
func (c *Conductor) handleSenderInbound(cmd proxy.InboundCommand) {
	switch cmd.Kind {
	case proxy.PublicationRemoved:
		c.onPublicationRemoved(cmd)
	case proxy.PublicationConnected:
		c.onPublicationConnected(cmd)
	case proxy.EndpointClosed:
		// The endpoint's own ref-count bookkeeping already drove the
		// close command; no further conductor state to update on ack.
	}
}

func (c *Conductor) onImageCreated(cmd proxy.InboundCommand) {
	key := image.Key{ReceiveEndpointKey: cmd.EndpointKey, SessionID: cmd.SessionID, StreamID: cmd.StreamID}
	if c.images.Get(key) != nil {
		return
	}

	img := &image.Image{
		CorrelationID:  c.regIDs.NextInt64(),
		Key:            key,
		InitTermID:     cmd.InitTermID,
		ActiveTermID:   cmd.InitTermID,
		TermOffset:     cmd.TermOffset,
		LogHandle:      cmd.LogHandle,
		SourceIdentity: cmd.SourceIdentity,
		State:          image.Init,
	}
	c.images.Add(img)
}

func (c *Conductor) onStatusMessage(cmd proxy.InboundCommand) {
	key := image.Key{ReceiveEndpointKey: cmd.EndpointKey, SessionID: cmd.SessionID, StreamID: cmd.StreamID}
	img := c.images.Get(key)
	if img == nil {
		return
	}

	if img.State != image.Init {
		return
	}

	subscribers := c.subscribersFor(cmd.EndpointKey, cmd.StreamID)
	img.Activate(c.clock.NowNanos(), subscribers)

	for _, subRegID := range subscribers {
		var positions []int32
		if sub := c.subs.Get(subRegID); sub != nil {
			positions = []int32{sub.PositionID}
		}
		c.emit(proto.AvailableImage(
			c.clientIDFor(subRegID), img.CorrelationID, cmd.StreamID, cmd.SessionID,
			positions, logFileName(img.LogHandle), img.SourceIdentity,
		))
	}
}

func (c *Conductor) onImageInactive(cmd proxy.InboundCommand) {
	key := image.Key{ReceiveEndpointKey: cmd.EndpointKey, SessionID: cmd.SessionID, StreamID: cmd.StreamID}
	img := c.images.Get(key)
	if img == nil {
		return
	}

	now := c.clock.NowNanos()
	notified := img.GoInactive(now)
	c.rescheduleImage(img, now)
	for _, subRegID := range notified {
		c.emit(proto.UnavailableImage(c.clientIDFor(subRegID), img.CorrelationID, cmd.StreamID, ""))
	}
}

func (c *Conductor) onPublicationRemoved(cmd proxy.InboundCommand) {
	p := c.pubs.ByRegistration(cmd.RegistrationID)
	if p == nil || p.State != publication.Closing {
		return
	}
	c.finalizeClosedPublication(p)
}

// onPublicationConnected marks a network publication as having had a
// connected receiver, per spec.md §4.2's Draining state doc: "only
// entered by a publication that has ever had a connected receiver." Idle
// past this point (no matching publication, or one already torn down) is
// expected: the sender's view of live publications lags the conductor's.
func (c *Conductor) onPublicationConnected(cmd proxy.InboundCommand) {
	p := c.pubs.FindNetworkBySessionEndpoint(cmd.EndpointKey, cmd.StreamID, cmd.SessionID)
	if p == nil {
		return
	}
	p.HadReceiver = true
}

// subscribersFor returns the registration ids of every live, non-spy
// subscription on (endpointKey, streamID).
func (c *Conductor) subscribersFor(endpointKey string, streamID int32) []int64 {
	var ids []int64
	c.subs.Each(func(s *subscription.Subscription) {
		if !s.Spy && s.EndpointKey == endpointKey && s.StreamID == streamID {
			ids = append(ids, s.RegistrationID)
		}
	})
	return ids
}

// clientIDFor maps a subscription registration id back to its owning
// client id, for events addressed to a specific client.
func (c *Conductor) clientIDFor(subRegID int64) int64 {
	if sub := c.subs.Get(subRegID); sub != nil {
		return sub.ClientID
	}
	return 0
}
