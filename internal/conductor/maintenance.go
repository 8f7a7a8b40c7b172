package conductor

import (
	"github.com/marksb/aeron/internal/client"
	"github.com/marksb/aeron/internal/image"
	"github.com/marksb/aeron/internal/proxy"
	"github.com/marksb/aeron/internal/publication"
)

// maintKind distinguishes the three timeout families a maintToken can name.
type maintKind int

const (
	clientTimeout maintKind = iota
	publicationTimeout
	imageTimeout
)

// maintToken is what the timer wheel schedules: a family plus the id that
// identifies the entity within it (client id, publication registration id,
// or image correlation id). The wheel doesn't interpret it; runMaintenance
// does, re-checking the entity's live state before acting since a token
// popped off the wheel may be stale (superseded by a later Touch, or the
// entity may since have been removed entirely).
type maintToken struct {
	kind maintKind
	id   int64
}

// runMaintenance applies the timer-driven transitions of spec.md §4.5:
// client liveness, publication draining/lingering/closing, and image
// inactivity/lingering/closing. Rather than sweeping every live entity
// every tick, it drains only the deadlines the wheel reports as due,
// per spec.md §9's "a single priority queue keyed on next-deadline per
// entity is sufficient at this scale." It is idempotent within a tick:
// a token for an entity that already moved on (or vanished) is a no-op.
func (c *Conductor) runMaintenance(now int64) {
	for _, tok := range c.wheel.PopReady(now) {
		switch tok.kind {
		case clientTimeout:
			c.checkClientLiveness(tok.id, now)
		case publicationTimeout:
			c.checkPublicationTimeout(tok.id, now)
		case imageTimeout:
			c.checkImageTimeout(tok.id, now)
		}
	}
}

// scheduleClientCheck arms (or re-arms) clientID's liveness deadline. It is
// called on every command a client sends, so a live client always has a
// later entry on the wheel; an earlier entry still fires, and
// checkClientLiveness ignores it while the client's last keepalive is
// within the timeout. Only a client that stops sending commands is removed.
func (c *Conductor) scheduleClientCheck(clientID, now int64) {
	c.wheel.Schedule(now+int64(c.cfg.ClientLivenessTimeout)+1, maintToken{clientTimeout, clientID})
}

func (c *Conductor) checkClientLiveness(clientID, now int64) {
	cl := c.clients.Get(clientID)
	if cl == nil {
		return
	}
	if now-cl.LastKeepalive <= int64(c.cfg.ClientLivenessTimeout) {
		// A later command re-armed a fresher deadline already on the wheel.
		return
	}

	for _, o := range c.clients.Owned(clientID) {
		switch o.Kind {
		case client.KindPublication:
			c.releasePublicationForTimeout(clientID, o.RegistrationID, now)
		case client.KindSubscription:
			c.releaseSubscriptionForTimeout(clientID, o.RegistrationID)
		}
	}
	c.clients.Remove(clientID)
}

// reschedulePublication arms p's next deadline on the wheel, if its current
// state has one, so a subsequent runMaintenance can re-evaluate it via Tick
// without any other publication being swept in the meantime.
func (c *Conductor) reschedulePublication(p *publication.Publication, now int64) {
	deadline, ok := p.NextDeadline(int64(c.cfg.PublicationConnectionTimeout), int64(c.cfg.PublicationLinger))
	if !ok {
		return
	}
	c.wheel.Schedule(deadline+1, maintToken{publicationTimeout, p.RegistrationID})
}

func (c *Conductor) checkPublicationTimeout(registrationID, now int64) {
	p := c.pubs.ByRegistration(registrationID)
	if p == nil {
		return
	}

	connTimeout := int64(c.cfg.PublicationConnectionTimeout)
	linger := int64(c.cfg.PublicationLinger)

	if p.Tick(now, connTimeout, linger) {
		if p.Kind == publication.Network {
			c.sender.RemoveNetworkPublication(proxy.SenderCommand{
				RegistrationID: p.RegistrationID,
				EndpointKey:    p.Descr.SendKey(),
			})
		} else {
			c.finalizeClosedPublication(p)
		}
		return
	}

	c.reschedulePublication(p, now)
}

// rescheduleImage arms img's next deadline on the wheel, mirroring
// reschedulePublication.
func (c *Conductor) rescheduleImage(img *image.Image, now int64) {
	deadline, ok := img.NextDeadline(int64(c.cfg.ImageLivenessTimeout))
	if !ok {
		return
	}
	c.wheel.Schedule(deadline+1, maintToken{imageTimeout, img.CorrelationID})
}

func (c *Conductor) checkImageTimeout(correlationID, now int64) {
	var img *image.Image
	c.images.Each(func(candidate *image.Image) {
		if img == nil && candidate.CorrelationID == correlationID {
			img = candidate
		}
	})
	if img == nil {
		return
	}

	liveness := int64(c.cfg.ImageLivenessTimeout)
	if img.Tick(now, liveness) {
		c.images.Remove(img.Key)
		c.rawLog.Release(img.LogHandle)
		return
	}

	c.rescheduleImage(img, now)
}

func (c *Conductor) releasePublicationForTimeout(clientID, registrationID, now int64) {
	p := c.pubs.ByRegistration(registrationID)
	if p == nil {
		return
	}

	prevState := p.State
	p.RemoveRef(now)

	if prevState == publication.Active && p.State != publication.Active {
		c.retirePublication(p)
		c.reschedulePublication(p, now)
	}
}

func (c *Conductor) releaseSubscriptionForTimeout(clientID, registrationID int64) {
	sub := c.subs.Remove(registrationID)
	if sub == nil {
		return
	}

	if !sub.Spy {
		c.forgetSubscriberFromImages(sub.RegistrationID)

		if c.subs.CountForEndpointStream(sub.EndpointKey, sub.StreamID) == 0 {
			c.receiver.UnregisterSubscription(proxy.ReceiverCommand{
				StreamID:    sub.StreamID,
				EndpointKey: sub.EndpointKey,
			})
		}
		if c.subs.CountForEndpoint(sub.EndpointKey) == 0 {
			if ep := c.recvEndpoints.LookupByKey(sub.EndpointKey); ep != nil {
				ep.Release()
			}
		}
	}
}

// finalizeClosedPublication releases a CLOSING publication's resources
// and deletes it, per spec.md §4.2's "CLOSING -> sender ack ->
// (deleted)" transition. For network publications this runs from
// handleSenderInbound once the sender acknowledges; for IPC publications,
// with no sender involved, checkPublicationTimeout calls it directly.
func (c *Conductor) finalizeClosedPublication(p *publication.Publication) {
	c.pubs.RemoveRetiring(p)
	if p.Kind == publication.Network && p.Descr != nil {
		if ep := c.sendEndpoints.LookupByKey(p.Descr.SendKey()); ep != nil {
			ep.Release()
		}
	}
	c.rawLog.Release(p.LogHandle)
}
