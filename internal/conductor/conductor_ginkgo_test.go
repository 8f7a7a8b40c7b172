package conductor

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"

	"github.com/marksb/aeron/internal/clock"
	"github.com/marksb/aeron/internal/config"
	"github.com/marksb/aeron/internal/proto"
	"github.com/marksb/aeron/internal/proxy"
	"github.com/marksb/aeron/internal/proxy/mocks"
	"github.com/marksb/aeron/internal/ring"
)

// mockRig mirrors testRig but hands the conductor gomock-generated
// SenderProxy/ReceiverProxy doubles instead of mailbox-backed ones, so
// specs can assert on exactly which commands the conductor issued without
// draining a ring buffer, the same style as the teacher's DefaultPort
// specs (sim/port_test.go) against MockComponent/MockConnection.
type mockRig struct {
	c        *Conductor
	clock    *clock.Manual
	sender   *mocks.MockSenderProxy
	receiver *mocks.MockReceiverProxy
	ctrl     *gomock.Controller
}

func newMockRig(ctrl *gomock.Controller) *mockRig {
	mc := clock.NewManual(0)
	cfg := config.Defaults()

	fromSenderMailbox := ring.New[proxy.InboundCommand]("from-sender", 64)
	fromReceiverMailbox := ring.New[proxy.InboundCommand]("from-receiver", 64)
	clientRing := ring.New[proto.Command]("client", 64)

	sender := mocks.NewMockSenderProxy(ctrl)
	receiver := mocks.NewMockReceiverProxy(ctrl)

	c := New(Deps{
		Clock:        mc,
		Config:       cfg,
		Sender:       sender,
		Receiver:     receiver,
		FromSender:   proxy.NewInbox(fromSenderMailbox),
		FromReceiver: proxy.NewInbox(fromReceiverMailbox),
		ClientRing:   clientRing,
		RawLog:       &NullRawLogFactory{},
	})

	return &mockRig{c: c, clock: mc, sender: sender, receiver: receiver, ctrl: ctrl}
}

func (r *mockRig) submit(cmd proto.Command) {
	r.c.handleCommandSafely(cmd)
}

func (r *mockRig) drainEvents() []proto.Event {
	var events []proto.Event
	r.c.Emitter().Drain(64, func(ev proto.Event) { events = append(events, ev) })
	return events
}

var _ = Describe("Conductor command handling", func() {
	var (
		ctrl *gomock.Controller
		rig  *mockRig
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		rig = newMockRig(ctrl)
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	Describe("adding a network publication", func() {
		It("tells the sender proxy about the new network publication", func() {
			cmd := proto.NewCommand(proto.AddPublication).
				WithClientID(1).WithCorrelationID(1).WithStreamID(10).
				WithChannelURI("aeron:udp?endpoint=localhost:4000").Build()

			rig.sender.EXPECT().NewNetworkPublication(gomock.Any()).Return(true)
			rig.submit(cmd)

			events := rig.drainEvents()
			Expect(events).To(HaveLen(1))
			Expect(events[0].ID).To(Equal(proto.OnPublicationReady))
		})
	})

	Describe("removing a publication with no connected receiver", func() {
		It("lingers immediately, then notifies the sender proxy once it closes", func() {
			add := proto.NewCommand(proto.AddPublication).
				WithClientID(1).WithCorrelationID(1).WithStreamID(10).
				WithChannelURI("aeron:udp?endpoint=localhost:4000").Build()
			rig.sender.EXPECT().NewNetworkPublication(gomock.Any()).Return(true)
			rig.submit(add)
			ready := rig.drainEvents()[0]

			remove := proto.NewCommand(proto.RemovePublication).
				WithClientID(1).WithCorrelationID(2).WithRegistrationID(ready.RegistrationID).Build()
			rig.submit(remove)

			events := rig.drainEvents()
			Expect(events).To(HaveLen(1))
			Expect(events[0].ID).To(Equal(proto.OnOperationSuccess))

			rig.sender.EXPECT().
				RemoveNetworkPublication(gomock.Any()).
				DoAndReturn(func(cmd proxy.SenderCommand) bool {
					Expect(cmd.RegistrationID).To(Equal(ready.RegistrationID))
					return true
				})

			rig.clock.Advance(rig.c.cfg.PublicationLinger + time.Nanosecond)
			rig.clock.Advance(rig.c.cfg.TimerInterval)
			rig.c.DoWork()
		})
	})

	Describe("a client that stops sending keepalives", func() {
		It("has its owned publication released by maintenance without touching the sender proxy", func() {
			add := proto.NewCommand(proto.AddPublication).
				WithClientID(1).WithCorrelationID(1).WithStreamID(40).
				WithChannelURI("aeron:udp?endpoint=localhost:7000").Build()
			rig.sender.EXPECT().NewNetworkPublication(gomock.Any()).Return(true)
			rig.submit(add)
			rig.drainEvents()

			rig.clock.Advance(rig.c.cfg.ClientLivenessTimeout + time.Nanosecond)
			rig.clock.Advance(rig.c.cfg.TimerInterval)
			rig.c.DoWork()

			Expect(rig.c.clients.Len()).To(Equal(0))
		})
	})

	Describe("adding a subscription reliability conflict", func() {
		It("rejects the second subscriber without calling the receiver proxy", func() {
			first := proto.NewCommand(proto.AddSubscription).
				WithClientID(1).WithCorrelationID(1).WithStreamID(20).
				WithChannelURI("aeron:udp?endpoint=localhost:5000|reliable=true").Build()

			rig.receiver.EXPECT().RegisterSubscription(gomock.Any()).Return(true)
			rig.submit(first)
			rig.drainEvents()

			second := proto.NewCommand(proto.AddSubscription).
				WithClientID(2).WithCorrelationID(2).WithStreamID(20).
				WithChannelURI("aeron:udp?endpoint=localhost:5000|reliable=false").Build()
			rig.submit(second)

			events := rig.drainEvents()
			Expect(events).To(HaveLen(1))
			Expect(events[0].ID).To(Equal(proto.OnError))
			Expect(events[0].ErrorCode).To(Equal(proto.GenericError))
		})
	})

	Describe("a malformed command", func() {
		It("is rejected before it can reach either proxy", func() {
			cmd := proto.NewCommand(proto.AddPublication).WithClientID(1).WithCorrelationID(1).Build()

			rig.submit(cmd)

			events := rig.drainEvents()
			Expect(events).To(HaveLen(1))
			Expect(events[0].ID).To(Equal(proto.OnError))
			Expect(events[0].ErrorCode).To(Equal(proto.MalformedCommand))
		})
	})
})
