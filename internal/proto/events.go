package proto

// EventID identifies the kind of a client broadcast event, mirroring
// spec.md §6's event table.
type EventID int

const (
	// OnPublicationReady answers AddPublication/AddExclusivePublication.
	OnPublicationReady EventID = iota
	// OnAvailableImage announces an image a subscriber can now read.
	OnAvailableImage
	// OnUnavailableImage announces an image no longer available.
	OnUnavailableImage
	// OnError answers a failed command.
	OnError
	// OnOperationSuccess answers a command with no richer payload
	// (remove-*, add-subscription, client-facing destination commands).
	OnOperationSuccess
)

// Event is a single message placed on the client broadcast buffer. As with
// Command, only the fields relevant to EventID are populated.
type Event struct {
	ID EventID

	ClientID      int64
	CorrelationID int64

	// OnPublicationReady fields.
	RegistrationID        int64
	StreamID              int32
	SessionID             int32
	LogFileName           string
	PositionLimitCounter  int32
	IsExclusive           bool

	// OnAvailableImage / OnUnavailableImage fields.
	ImageCorrelationID  int64
	SubscriberPositions []int32
	SourceIdentity      string
	ChannelURI          string

	// OnError fields.
	ErrorCode ErrorCode
	Message   string
}

// PublicationReady builds an OnPublicationReady event.
func PublicationReady(
	clientID, correlationID, registrationID int64,
	streamID, sessionID int32,
	positionLimitCounter int32,
	logFile string,
	exclusive bool,
) Event {
	return Event{
		ID:                   OnPublicationReady,
		ClientID:             clientID,
		CorrelationID:        correlationID,
		RegistrationID:       registrationID,
		StreamID:             streamID,
		SessionID:            sessionID,
		LogFileName:          logFile,
		PositionLimitCounter: positionLimitCounter,
		IsExclusive:          exclusive,
	}
}

// OperationSuccess builds an OnOperationSuccess event.
func OperationSuccess(clientID, correlationID int64) Event {
	return Event{ID: OnOperationSuccess, ClientID: clientID, CorrelationID: correlationID}
}

// AvailableImage builds an OnAvailableImage event.
func AvailableImage(
	clientID int64,
	imageCorrelationID int64,
	streamID, sessionID int32,
	positions []int32,
	logFile, sourceIdentity string,
) Event {
	return Event{
		ID:                  OnAvailableImage,
		ClientID:            clientID,
		ImageCorrelationID:  imageCorrelationID,
		StreamID:            streamID,
		SessionID:           sessionID,
		SubscriberPositions: positions,
		LogFileName:         logFile,
		SourceIdentity:      sourceIdentity,
	}
}

// UnavailableImage builds an OnUnavailableImage event.
func UnavailableImage(
	clientID int64,
	imageCorrelationID int64,
	streamID int32,
	channelURI string,
) Event {
	return Event{
		ID:                 OnUnavailableImage,
		ClientID:           clientID,
		ImageCorrelationID: imageCorrelationID,
		StreamID:           streamID,
		ChannelURI:         channelURI,
	}
}

// ErrorEvent builds an OnError event.
func ErrorEvent(clientID, correlationID int64, code ErrorCode, message string) Event {
	return Event{
		ID:            OnError,
		ClientID:      clientID,
		CorrelationID: correlationID,
		ErrorCode:     code,
		Message:       message,
	}
}
