package proto

// ErrorCode enumerates the validation/resource error kinds spec.md §7
// names. Clients distinguish failure kinds by code; the message is purely
// informational.
type ErrorCode int

const (
	// InvalidChannel marks a channel URI that failed to parse or violated
	// a wire-level constraint (e.g. replay params on a shared publication).
	InvalidChannel ErrorCode = iota
	// UnknownPublication marks a remove-publication referencing an absent
	// registration. A destination command with an unknown registration is
	// rejected with GenericError.
	UnknownPublication
	// UnknownSubscription marks a remove-subscription referencing an
	// absent registration.
	UnknownSubscription
	// MalformedCommand marks a command that failed flyweight validation.
	MalformedCommand
	// GenericError covers everything else a command can reject for
	// (reliability conflicts, session-id collisions).
	GenericError
	// ResourceExhausted marks an internal allocation failure (log
	// allocation, registry full).
	ResourceExhausted
)

// String implements fmt.Stringer.
func (c ErrorCode) String() string {
	switch c {
	case InvalidChannel:
		return "INVALID_CHANNEL"
	case UnknownPublication:
		return "UNKNOWN_PUBLICATION"
	case UnknownSubscription:
		return "UNKNOWN_SUBSCRIPTION"
	case MalformedCommand:
		return "MALFORMED_COMMAND"
	case GenericError:
		return "GENERIC_ERROR"
	case ResourceExhausted:
		return "RESOURCE_EXHAUSTED"
	default:
		return "UNKNOWN_ERROR"
	}
}

// CommandError is a validation or resource failure raised while handling a
// single client command. It carries no state mutation obligation: per
// spec.md §7, validation failures never mutate registries.
type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return e.Code.String() + ": " + e.Message
}

// NewError builds a CommandError.
func NewError(code ErrorCode, message string) *CommandError {
	return &CommandError{Code: code, Message: message}
}
