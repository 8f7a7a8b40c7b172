package conductor

import (
	"github.com/marksb/aeron/internal/channel"
	"github.com/marksb/aeron/internal/client"
	"github.com/marksb/aeron/internal/image"
	"github.com/marksb/aeron/internal/proto"
	"github.com/marksb/aeron/internal/proxy"
	"github.com/marksb/aeron/internal/publication"
	"github.com/marksb/aeron/internal/subscription"
)

// handleCommand dispatches a single decoded client command, per spec.md
// §4.1's table. Validation failures never mutate registries (spec.md §7).
func (c *Conductor) handleCommand(cmd proto.Command) {
	if verr := cmd.Validate(); verr != nil {
		c.emitError(cmd.ClientID, cmd.CorrelationID, verr.Code, verr.Message)
		return
	}

	now := c.clock.NowNanos()
	c.clients.Touch(cmd.ClientID, now)
	c.scheduleClientCheck(cmd.ClientID, now)

	switch cmd.ID {
	case proto.AddPublication:
		c.handleAddPublication(cmd, cmd.Exclusive)
	case proto.AddExclusivePublication:
		c.handleAddPublication(cmd, true)
	case proto.RemovePublication:
		c.handleRemovePublication(cmd)
	case proto.AddSubscription:
		c.handleAddSubscription(cmd)
	case proto.RemoveSubscription:
		c.handleRemoveSubscription(cmd)
	case proto.ClientKeepalive:
		// Touch above already recorded the keepalive; no reply per
		// spec.md §4.1.
	case proto.AddDestination:
		c.handleDestination(cmd, true)
	case proto.RemoveDestination:
		c.handleDestination(cmd, false)
	}
}

func (c *Conductor) handleAddPublication(cmd proto.Command, exclusive bool) {
	d, ok := c.parseChannel(cmd.ClientID, cmd.CorrelationID, cmd.ChannelURI)
	if !ok {
		return
	}

	if d.HasReplayParams() && !exclusive {
		c.emitError(cmd.ClientID, cmd.CorrelationID, proto.InvalidChannel,
			"replay params are only valid on exclusive publications")
		return
	}

	if d.Media == channel.MediaIPC {
		c.addIPCPublication(cmd, d, exclusive)
		return
	}

	c.addNetworkPublication(cmd, d, exclusive)
}

func (c *Conductor) addNetworkPublication(cmd proto.Command, d *channel.Descriptor, exclusive bool) {
	sendEP := c.sendEndpoints.Acquire(d)
	endpointKey := sendEP.Key

	if !exclusive {
		if existing := c.findActiveSharedNetwork(endpointKey, cmd.StreamID); existing != nil {
			if d.HasSess && d.SessionID != existing.SessionID {
				sendEP.Release()
				c.emitError(cmd.ClientID, cmd.CorrelationID, proto.GenericError,
					"session-id collides with an existing publication on a different session")
				return
			}

			existing.AddRef()
			c.clients.Own(cmd.ClientID, client.KindPublication, existing.RegistrationID)
			sendEP.Release()
			c.emitPublicationReady(cmd, existing)
			return
		}
	}

	sessionID := d.SessionID
	if !d.HasSess {
		sessionID = c.assignSessionID(endpointKey, cmd.StreamID)
	}

	termLength := d.TermLength
	if !d.HasTerm {
		termLength = c.cfg.DefaultTermLength
	}
	mtu := d.MTU
	if !d.HasMTU {
		mtu = c.cfg.DefaultMTU
	}

	initTermID := d.InitTermID
	if !d.HasInit {
		initTermID = 0
	}

	handle, err := c.rawLog.Allocate(cmd.StreamID, termLength, initTermID)
	if err != nil {
		sendEP.Release()
		c.emitError(cmd.ClientID, cmd.CorrelationID, proto.ResourceExhausted, err.Error())
		return
	}

	regID := c.regIDs.NextInt64()

	pos := int64(0)
	if d.HasReplayParams() {
		pos = d.InitialPosition()
	}

	p := &publication.Publication{
		RegistrationID:   regID,
		Kind:             publication.Network,
		Exclusive:        exclusive,
		Descr:            d,
		StreamID:         cmd.StreamID,
		SessionID:        sessionID,
		MTU:              mtu,
		TermLength:       termLength,
		InitTermID:       initTermID,
		LogHandle:        handle,
		ProducerPosition: pos,
		ConsumerPosition: pos,
		RefCount:         1,
		LastKeepalive:    c.clock.NowNanos(),
		State:            publication.Active,
	}

	var key publication.Key
	if exclusive {
		key = publication.ExclusiveKey(regID)
	} else {
		key = publication.SharedKey(endpointKey, cmd.StreamID, sessionID)
	}
	c.pubs.Add(key, p)

	c.clients.Own(cmd.ClientID, client.KindPublication, regID)

	c.sender.NewNetworkPublication(proxy.SenderCommand{
		RegistrationID: regID,
		StreamID:       cmd.StreamID,
		SessionID:      sessionID,
		EndpointKey:    endpointKey,
		LogHandle:      handle,
	})

	c.emitPublicationReady(cmd, p)
}

func (c *Conductor) addIPCPublication(cmd proto.Command, d *channel.Descriptor, exclusive bool) {
	if !exclusive {
		if existing := c.findActiveSharedIPC(cmd.StreamID); existing != nil {
			existing.AddRef()
			c.clients.Own(cmd.ClientID, client.KindPublication, existing.RegistrationID)
			c.emitPublicationReady(cmd, existing)
			return
		}
	}

	termLength := d.TermLength
	if !d.HasTerm {
		termLength = c.cfg.DefaultTermLength
	}

	handle, err := c.rawLog.Allocate(cmd.StreamID, termLength, 0)
	if err != nil {
		c.emitError(cmd.ClientID, cmd.CorrelationID, proto.ResourceExhausted, err.Error())
		return
	}

	regID := c.regIDs.NextInt64()

	p := &publication.Publication{
		RegistrationID: regID,
		Kind:           publication.IPC,
		Exclusive:      exclusive,
		Descr:          d,
		StreamID:       cmd.StreamID,
		TermLength:     termLength,
		LogHandle:      handle,
		RefCount:       1,
		LastKeepalive:  c.clock.NowNanos(),
		State:          publication.Active,
	}

	var key publication.Key
	if exclusive {
		key = publication.ExclusiveKey(regID)
	} else {
		key = publication.SharedKey("ipc", cmd.StreamID, 0)
	}
	c.pubs.Add(key, p)
	c.clients.Own(cmd.ClientID, client.KindPublication, regID)

	c.emitPublicationReady(cmd, p)
}

func (c *Conductor) findActiveSharedNetwork(endpointKey string, streamID int32) *publication.Publication {
	var found *publication.Publication
	c.pubs.Each(func(p *publication.Publication) {
		if found != nil || p.Exclusive || p.Kind != publication.Network || p.State != publication.Active {
			return
		}
		if p.Descr.SendKey() == endpointKey && p.StreamID == streamID {
			found = p
		}
	})
	return found
}

func (c *Conductor) findActiveSharedIPC(streamID int32) *publication.Publication {
	var found *publication.Publication
	c.pubs.Each(func(p *publication.Publication) {
		if found != nil || p.Exclusive || p.Kind != publication.IPC || p.State != publication.Active {
			return
		}
		if p.StreamID == streamID {
			found = p
		}
	})
	return found
}

// assignSessionID picks a random 31-bit session id that doesn't collide
// with any live publication on (endpointKey, streamID), per spec.md §4.1.
func (c *Conductor) assignSessionID(endpointKey string, streamID int32) int32 {
	for {
		candidate := int32(c.rng.Int31())
		collides := false
		c.pubs.Each(func(p *publication.Publication) {
			if collides || p.Kind != publication.Network {
				return
			}
			if p.Descr.SendKey() == endpointKey && p.StreamID == streamID && p.SessionID == candidate {
				collides = true
			}
		})
		if !collides {
			return candidate
		}
	}
}

func (c *Conductor) emitPublicationReady(cmd proto.Command, p *publication.Publication) {
	c.emit(proto.PublicationReady(
		cmd.ClientID, cmd.CorrelationID, p.RegistrationID,
		p.StreamID, p.SessionID, 0, logFileName(p.LogHandle), p.Exclusive,
	))
}

// logFileName renders a raw-log handle as the file name string events
// carry. The handle is opaque per spec.md §1/§3 ("the conductor never
// interprets its contents"); a string-typed handle is rendered verbatim,
// FileRawLogFactory's LogHandle renders as its Path, and anything else
// (e.g. NullRawLogFactory's integer tokens) renders empty.
func logFileName(handle any) string {
	switch h := handle.(type) {
	case string:
		return h
	case LogHandle:
		return h.Path
	}
	return ""
}

func (c *Conductor) handleRemovePublication(cmd proto.Command) {
	p := c.pubs.ByRegistration(cmd.RegistrationID)
	if p == nil {
		c.emitError(cmd.ClientID, cmd.CorrelationID, proto.UnknownPublication, "unknown publication registration id")
		return
	}

	now := c.clock.NowNanos()
	prevState := p.State
	p.RemoveRef(now)
	c.clients.Disown(cmd.ClientID, client.KindPublication, p.RegistrationID)

	if prevState == publication.Active && p.State != publication.Active {
		c.retirePublication(p)
		c.reschedulePublication(p, now)
	}

	c.emit(proto.OperationSuccess(cmd.ClientID, cmd.CorrelationID))
}

func (c *Conductor) retirePublication(p *publication.Publication) {
	var key publication.Key
	if p.Exclusive {
		key = publication.ExclusiveKey(p.RegistrationID)
	} else if p.Kind == publication.Network {
		key = publication.SharedKey(p.Descr.SendKey(), p.StreamID, p.SessionID)
	} else {
		key = publication.SharedKey("ipc", p.StreamID, 0)
	}
	c.pubs.Retire(key)

	c.notifySpiesUnavailable(p)
}

// notifySpiesUnavailable emits ON_UNAVAILABLE_IMAGE to every spy
// subscription addSpySubscription previously notified of this
// publication's availability, per spec.md §8 invariant 4 ("every
// ON_AVAILABLE_IMAGE ... eventually followed by exactly one
// ON_UNAVAILABLE_IMAGE with the same correlation id"). The spy's image is
// the publication itself, so this fires the moment the publication
// leaves ACTIVE, mirroring how addSpySubscription only ever notified
// availability for an ACTIVE publication.
func (c *Conductor) notifySpiesUnavailable(p *publication.Publication) {
	channelURI := ""
	if p.Descr != nil {
		channelURI = p.Descr.Raw()
	}

	for _, regID := range p.Spies {
		c.emit(proto.UnavailableImage(c.clientIDFor(regID), p.RegistrationID, p.StreamID, channelURI))
	}
	p.Spies = nil
}

func (c *Conductor) handleAddSubscription(cmd proto.Command) {
	d, ok := c.parseChannel(cmd.ClientID, cmd.CorrelationID, cmd.ChannelURI)
	if !ok {
		return
	}

	regID := c.regIDs.NextInt64()

	if d.Spy {
		c.addSpySubscription(cmd, d, regID)
		return
	}

	endpointKey := d.ReceiveKey()

	if c.subs.ReliabilityConflict(endpointKey, cmd.StreamID, d.Reliable) {
		c.emitError(cmd.ClientID, cmd.CorrelationID, proto.GenericError,
			"reliability flag conflicts with an existing subscription on this channel")
		return
	}

	recvEP := c.recvEndpoints.Lookup(d)
	if recvEP == nil {
		recvEP = c.recvEndpoints.Acquire(d)
	}

	sub := &subscription.Subscription{
		RegistrationID: regID,
		ClientID:       cmd.ClientID,
		ChannelURI:     cmd.ChannelURI,
		StreamID:       cmd.StreamID,
		Reliable:       d.Reliable,
		EndpointKey:    endpointKey,
		PositionID:     c.positionIDs.NextInt32(),
		LastKeepalive:  c.clock.NowNanos(),
	}
	c.subs.Add(sub)
	c.clients.Own(cmd.ClientID, client.KindSubscription, regID)

	c.receiver.RegisterSubscription(proxy.ReceiverCommand{
		RegistrationID: regID,
		StreamID:       cmd.StreamID,
		EndpointKey:    recvEP.Key,
		Reliable:       d.Reliable,
	})

	c.emit(proto.OperationSuccess(cmd.ClientID, cmd.CorrelationID))

	c.emitAvailableImagesForEndpointStream(cmd.ClientID, endpointKey, cmd.StreamID, regID)
}

func (c *Conductor) addSpySubscription(cmd proto.Command, d *channel.Descriptor, regID int64) {
	sub := &subscription.Subscription{
		RegistrationID: regID,
		ClientID:       cmd.ClientID,
		ChannelURI:     cmd.ChannelURI,
		StreamID:       cmd.StreamID,
		Reliable:       true, // spies are always reliable, per the open-question resolution.
		Spy:            true,
		PositionID:     c.positionIDs.NextInt32(),
		LastKeepalive:  c.clock.NowNanos(),
	}
	c.subs.Add(sub)
	c.clients.Own(cmd.ClientID, client.KindSubscription, regID)

	c.emit(proto.OperationSuccess(cmd.ClientID, cmd.CorrelationID))

	endpointKey := d.SendKey()
	c.pubs.Each(func(p *publication.Publication) {
		if p.Kind != publication.Network || p.State != publication.Active {
			return
		}
		if p.Descr.SendKey() != endpointKey || p.StreamID != cmd.StreamID {
			return
		}
		p.Spies = append(p.Spies, regID)
		c.emit(proto.AvailableImage(
			cmd.ClientID, p.RegistrationID, p.StreamID, p.SessionID,
			[]int32{sub.PositionID}, logFileName(p.LogHandle), "spy",
		))
	})
}

func (c *Conductor) handleRemoveSubscription(cmd proto.Command) {
	sub := c.subs.Remove(cmd.RegistrationID)
	if sub == nil {
		c.emitError(cmd.ClientID, cmd.CorrelationID, proto.UnknownSubscription, "unknown subscription registration id")
		return
	}

	c.clients.Disown(cmd.ClientID, client.KindSubscription, cmd.RegistrationID)

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

	c.emit(proto.OperationSuccess(cmd.ClientID, cmd.CorrelationID))
}

// forgetSubscriberFromImages detaches subRegID from every live image's
// notified-subscribers set, so a subsequent onImageInactive never emits
// ON_UNAVAILABLE_IMAGE to a subscription that no longer exists.
func (c *Conductor) forgetSubscriberFromImages(subRegID int64) {
	c.images.Each(func(img *image.Image) {
		img.Forget(subRegID)
	})
}

// emitAvailableImagesForEndpointStream emits ON_AVAILABLE_IMAGE to a
// newly-added subscriber for every ACTIVE image already present on
// (endpointKey, streamID), per spec.md §4.1/§4.3: image availability for a
// new subscriber is emitted after that subscription's operation-succeeded,
// using the image's own correlation id rather than the subscription's.
func (c *Conductor) emitAvailableImagesForEndpointStream(clientID int64, endpointKey string, streamID int32, subRegID int64) {
	var positions []int32
	if sub := c.subs.Get(subRegID); sub != nil {
		positions = []int32{sub.PositionID}
	}

	c.images.Each(func(img *image.Image) {
		if img.State != image.Active {
			return
		}
		if img.Key.ReceiveEndpointKey != endpointKey || img.Key.StreamID != streamID {
			return
		}

		img.NotifySubscriber(subRegID)
		c.emit(proto.AvailableImage(
			clientID, img.CorrelationID, streamID, img.Key.SessionID,
			positions, logFileName(img.LogHandle), img.SourceIdentity,
		))
	})
}

func (c *Conductor) handleDestination(cmd proto.Command, add bool) {
	_, ok := c.parseChannel(cmd.ClientID, cmd.CorrelationID, cmd.ChannelURI)
	if !ok {
		return
	}

	if p := c.pubs.ByRegistration(cmd.RegistrationID); p != nil {
		sc := proxy.SenderCommand{RegistrationID: cmd.RegistrationID, DestinationURI: cmd.ChannelURI}
		if add {
			c.sender.AddDestination(sc)
		} else {
			c.sender.RemoveDestination(sc)
		}
		c.emit(proto.OperationSuccess(cmd.ClientID, cmd.CorrelationID))
		return
	}

	if sub := c.subs.Get(cmd.RegistrationID); sub != nil {
		rc := proxy.ReceiverCommand{RegistrationID: cmd.RegistrationID, DestinationURI: cmd.ChannelURI}
		if add {
			c.receiver.AddMDCDestination(rc)
		} else {
			c.receiver.RemoveMDCDestination(rc)
		}
		c.emit(proto.OperationSuccess(cmd.ClientID, cmd.CorrelationID))
		return
	}

	c.emitError(cmd.ClientID, cmd.CorrelationID, proto.GenericError, "destination command references an unknown registration")
}
