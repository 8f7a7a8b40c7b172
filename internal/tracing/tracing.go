// Package tracing records a write-only diagnostic trace of accepted client
// commands and emitted broadcast events. It is not protocol state: nothing
// here is read back by the conductor, and losing the trace backend never
// changes driver behavior, only observability after the fact.
package tracing

// CommandEntry is the flattened, database-friendly shape of an accepted
// proto.Command, stamped with the conductor time it was handled.
type CommandEntry struct {
	AtNanos        int64
	CommandID      int32
	ClientID       int64
	CorrelationID  int64
	RegistrationID int64
	StreamID       int32
	ChannelURI     string
	Exclusive      bool
}

// EventEntry is the flattened shape of an emitted proto.Event.
type EventEntry struct {
	AtNanos            int64
	EventID            int32
	ClientID           int64
	CorrelationID      int64
	RegistrationID     int64
	StreamID           int32
	SessionID          int32
	LogFileName        string
	ImageCorrelationID int64
	SourceIdentity     string
	ChannelURI         string
	ErrorCode          int32
	Message            string
}

// Tracer records commands and events and periodically flushes them to a
// backing store. Implementations must tolerate concurrent calls from the
// conductor goroutine and an atexit-triggered flush.
type Tracer interface {
	RecordCommand(e CommandEntry)
	RecordEvent(e EventEntry)
	Flush()
	Close() error
}

// Null discards everything. It is the default when no TracePath/ClickHouse
// target is configured.
type Null struct{}

func (Null) RecordCommand(CommandEntry) {}
func (Null) RecordEvent(EventEntry)     {}
func (Null) Flush()                     {}
func (Null) Close() error               { return nil }
