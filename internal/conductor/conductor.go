// Package conductor implements the driver's single-threaded control-plane
// agent: the do_work tick of spec.md §2 that drains the client command
// ring, services internal sender/receiver commands, and runs timer
// maintenance on a fixed interval. Grounded on the teacher's
// sim.TickingComponent (sim/ticker.go): a component driven by repeated,
// non-blocking Tick calls rather than an event loop that blocks waiting
// for work.
package conductor

import (
	"math/rand"
	"sync"
	"time"

	"github.com/marksb/aeron/internal/broadcast"
	"github.com/marksb/aeron/internal/channel"
	"github.com/marksb/aeron/internal/client"
	"github.com/marksb/aeron/internal/clock"
	"github.com/marksb/aeron/internal/config"
	"github.com/marksb/aeron/internal/endpoint"
	"github.com/marksb/aeron/internal/idgen"
	"github.com/marksb/aeron/internal/image"
	"github.com/marksb/aeron/internal/proto"
	"github.com/marksb/aeron/internal/proxy"
	"github.com/marksb/aeron/internal/publication"
	"github.com/marksb/aeron/internal/ring"
	"github.com/marksb/aeron/internal/subscription"
	"github.com/marksb/aeron/internal/timer"
	"github.com/marksb/aeron/internal/tracing"
)

// ErrorHandler is invoked for every command validation failure and every
// unexpected panic caught inside a tick, per spec.md §7. The teacher's
// equivalent (sim.Simulation's errorHandler/logger pairing) is a plain
// function value for the same reason: conductors in tests want to assert
// on what was reported without standing up a full logging stack.
type ErrorHandler func(correlationID int64, code proto.ErrorCode, message string)

// LastError is the most recent error snapshot the conductor records
// alongside its error counter. The admin surface reports only the counter,
// not this snapshot.
type LastError struct {
	CorrelationID int64
	Code          proto.ErrorCode
	Message       string
	AtNanos       int64
}

// Conductor is the control-plane agent. All of its registries are
// single-threaded: only DoWork (and the command handlers it calls)
// mutates them.
type Conductor struct {
	clock clock.Clock
	cfg   config.Config

	clients       *client.Table
	sendEndpoints *endpoint.Table
	recvEndpoints *endpoint.Table
	pubs          *publication.Table
	subs          *subscription.Table
	images        *image.Table

	regIDs      *idgen.Sequential
	positionIDs *idgen.Sequential

	wheel *timer.Wheel[maintToken]

	sender   proxy.SenderProxy
	receiver proxy.ReceiverProxy

	fromSender   *proxy.Inbox
	fromReceiver *proxy.Inbox

	clientRing *ring.Buffer[proto.Command]
	emitter    *broadcast.Emitter

	rawLog RawLogFactory
	tracer tracing.Tracer

	errorHandler ErrorHandler

	mu          sync.Mutex
	errorCount  int64
	lastError   LastError
	lastMaintAt int64
	rng         *rand.Rand
}

// Deps bundles every collaborator the conductor needs at construction.
// Grouping them mirrors the teacher's constructor-injection style
// (sim.NewEngine(...), sim.NewDirectConnection(name, engine, freq)) rather
// than a builder; every field is a capability the conductor's own
// registries cannot supply for themselves, per spec.md §9's "inject as
// construction-time dependencies so tests can substitute mocks and
// deterministic clocks."
type Deps struct {
	Clock        clock.Clock
	Config       config.Config
	Sender       proxy.SenderProxy
	Receiver     proxy.ReceiverProxy
	FromSender   *proxy.Inbox
	FromReceiver *proxy.Inbox
	ClientRing   *ring.Buffer[proto.Command]
	RawLog       RawLogFactory
	Tracer       tracing.Tracer
	ErrorHandler ErrorHandler
}

// New constructs a Conductor from deps, building its own registries fresh.
func New(deps Deps) *Conductor {
	c := &Conductor{
		clock: deps.Clock,
		cfg:   deps.Config,

		clients: client.New(),
		pubs:    publication.New(),
		subs:    subscription.New(),
		images:  image.New(),

		regIDs:      idgen.NewSequential(),
		positionIDs: idgen.NewSequential(),
		wheel:       timer.New[maintToken](),

		sender:   deps.Sender,
		receiver: deps.Receiver,

		fromSender:   deps.FromSender,
		fromReceiver: deps.FromReceiver,

		clientRing: deps.ClientRing,
		emitter:    broadcast.New(deps.Config.BroadcastBufferCapacity),

		rawLog:       deps.RawLog,
		tracer:       deps.Tracer,
		errorHandler: deps.ErrorHandler,

		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if c.tracer == nil {
		c.tracer = tracing.Null{}
	}

	c.sendEndpoints = endpoint.New(endpoint.Send, func(e *endpoint.Endpoint) {
		c.sender.CloseSendEndpoint(proxy.SenderCommand{EndpointKey: e.Key})
	})
	c.recvEndpoints = endpoint.New(endpoint.Receive, func(e *endpoint.Endpoint) {
		c.receiver.CloseReceiveEndpoint(proxy.ReceiverCommand{EndpointKey: e.Key})
	})

	return c
}

// Emitter exposes the broadcast emitter for a client-library stand-in (or
// a test) to drain.
func (c *Conductor) Emitter() *broadcast.Emitter { return c.emitter }

// ErrorCount returns the number of errors reported since construction.
func (c *Conductor) ErrorCount() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorCount
}

// LastError returns the most recently reported error.
func (c *Conductor) LastError() LastError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

func (c *Conductor) reportError(correlationID int64, code proto.ErrorCode, message string) {
	c.mu.Lock()
	c.errorCount++
	c.lastError = LastError{CorrelationID: correlationID, Code: code, Message: message, AtNanos: c.clock.NowNanos()}
	c.mu.Unlock()

	if c.errorHandler != nil {
		c.errorHandler(correlationID, code, message)
	}
}

func (c *Conductor) emitError(clientID, correlationID int64, code proto.ErrorCode, message string) {
	c.reportError(correlationID, code, message)
	c.emit(proto.ErrorEvent(clientID, correlationID, code, message))
}

// emit places an event on the client broadcast buffer and records it to
// the diagnostic trace, if one is configured. A full broadcast buffer
// drops the event and increments the error counter rather than retrying,
// per spec.md §4.6/§7.
func (c *Conductor) emit(ev proto.Event) {
	if !c.emitter.Emit(ev) {
		c.reportError(eventCorrelationID(ev), proto.ResourceExhausted, "broadcast buffer full, event dropped")
		return
	}
	c.tracer.RecordEvent(tracing.FromEvent(c.clock.NowNanos(), ev))
}

// eventCorrelationID picks the id that identifies ev for error reporting:
// the command correlation id for every event but the two image events,
// which echo the image's correlation id instead (proto.Event's
// CorrelationID field is unset for those).
func eventCorrelationID(ev proto.Event) int64 {
	if ev.ID == proto.OnAvailableImage || ev.ID == proto.OnUnavailableImage {
		return ev.ImageCorrelationID
	}
	return ev.CorrelationID
}

// DoWork runs one conductor tick: drain the client command ring bounded,
// service internal inter-agent commands, and run timer maintenance if the
// interval has elapsed. It never blocks, per spec.md §5. The bool result
// reports whether the tick did any work, satisfying idle.Ticker so the
// outer spin/yield/park loop (spec.md §5) can back off when it did not.
func (c *Conductor) DoWork() bool {
	didWork := c.drainClientCommands() > 0
	didWork = c.serviceInternalCommands() > 0 || didWork

	now := c.clock.NowNanos()
	if now-c.lastMaintAt >= int64(c.cfg.TimerInterval) {
		c.runMaintenance(now)
		c.lastMaintAt = now
		didWork = true
	}

	return didWork
}

func (c *Conductor) drainClientCommands() int {
	if c.clientRing == nil {
		return 0
	}

	return c.clientRing.DrainUpTo(c.cfg.ClientCommandsPerTick, func(cmd proto.Command) {
		c.handleCommandSafely(cmd)
	})
}

// handleCommandSafely catches a panic from a single command's handling so
// one bad command never halts the conductor, per spec.md §7: "unexpected
// exceptions inside a tick are caught, logged via the error handler, and
// the tick continues."
func (c *Conductor) handleCommandSafely(cmd proto.Command) {
	defer func() {
		if r := recover(); r != nil {
			c.emitError(cmd.ClientID, cmd.CorrelationID, proto.GenericError, "internal error handling command")
		}
	}()

	c.tracer.RecordCommand(tracing.FromCommand(c.clock.NowNanos(), cmd))

	c.handleCommand(cmd)
}

func (c *Conductor) serviceInternalCommands() int {
	budget := c.cfg.ClientCommandsPerTick
	n := 0

	if c.fromReceiver != nil {
		n += c.fromReceiver.Drain(budget, c.handleReceiverInbound)
	}
	if c.fromSender != nil {
		n += c.fromSender.Drain(budget, c.handleSenderInbound)
	}

	return n
}

func (c *Conductor) parseChannel(clientID, correlationID int64, uri string) (*channel.Descriptor, bool) {
	d, err := channel.Parse(uri)
	if err != nil {
		c.emitError(clientID, correlationID, proto.InvalidChannel, err.Error())
		return nil, false
	}
	return d, true
}
