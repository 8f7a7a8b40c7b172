package tracing

import "github.com/marksb/aeron/internal/proto"

// FromCommand flattens an accepted command into its trace entry, stamped
// with the conductor time it was handled.
func FromCommand(atNanos int64, cmd proto.Command) CommandEntry {
	return CommandEntry{
		AtNanos:        atNanos,
		CommandID:      int32(cmd.ID),
		ClientID:       cmd.ClientID,
		CorrelationID:  cmd.CorrelationID,
		RegistrationID: cmd.RegistrationID,
		StreamID:       cmd.StreamID,
		ChannelURI:     cmd.ChannelURI,
		Exclusive:      cmd.Exclusive,
	}
}

// FromEvent flattens an emitted event into its trace entry.
func FromEvent(atNanos int64, ev proto.Event) EventEntry {
	return EventEntry{
		AtNanos:            atNanos,
		EventID:            int32(ev.ID),
		ClientID:           ev.ClientID,
		CorrelationID:      ev.CorrelationID,
		RegistrationID:     ev.RegistrationID,
		StreamID:           ev.StreamID,
		SessionID:          ev.SessionID,
		LogFileName:        ev.LogFileName,
		ImageCorrelationID: ev.ImageCorrelationID,
		SourceIdentity:     ev.SourceIdentity,
		ChannelURI:         ev.ChannelURI,
		ErrorCode:          int32(ev.ErrorCode),
		Message:            ev.Message,
	}
}
