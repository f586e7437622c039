package errors

import (
	// Go internal packages
	"bytes"
	"encoding/json"
	"errors"
)

// Error defines a standard application error.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	// Wrapped underlying error.
	WrappedErr error `json:"wrapped_err,omitempty"`
}

// Error returns the string representation of the error message.
func (e *Error) Error() string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.Encode(struct {
		Kind    Kind   `json:"kind"`
		Message string `json:"message"`
		Cause   string `json:"cause,omitempty"`
	}{e.Kind, e.Message, causeOf(e.WrappedErr)})
	return string(bytes.TrimSpace(buf.Bytes()))
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.WrappedErr
}

func causeOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Kind defines the kind or class of an error.
type Kind uint8

// Transport agnostic error "kinds"
const (
	Other         Kind = iota // Unclassified error
	Internal                  // Internal error
	IO                        // Storage unreachable or unwritable
	Invalid                   // Invalid input, validation error etc
	Corrupt                   // Persisted data that cannot be parsed
	Misconfigured             // Missing credentials or parameters for a collaborator
	NotFound                  // Entity does not exist
	Unauthorized              // Unauthorized access
)

func (k Kind) String() string {
	switch k {
	case Other:
		return "unclassified error"
	case Internal:
		return "internal error"
	case IO:
		return "i/o failure"
	case Invalid:
		return "invalid input"
	case Corrupt:
		return "corrupt record"
	case Misconfigured:
		return "configuration error"
	case NotFound:
		return "entity not found"
	case Unauthorized:
		return "unauthorized"
	default:
		return "unknown error kind"
	}
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// E builds an *Error from a Kind, a message string and a wrapped error, in any order.
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch arg := arg.(type) {
		case Kind:
			e.Kind = arg
		case error:
			e.WrappedErr = arg
		case string:
			e.Message = arg
		}
	}
	return e
}

// KindOf reports the Kind of the first *Error in err's chain, or Other.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Other
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the human readable message of err, falling back to err.Error().
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}

// NewInternalServerError creates a new internal server error
func NewInternalServerError(msg string) error {
	return E(Internal, msg)
}

// NewIOError creates a storage failure wrapping the underlying cause
func NewIOError(msg string, err error) error {
	return E(IO, msg, err)
}

// NewInvalidParamsError creates a new invalid parameters error
func NewInvalidParamsError(msg string) error {
	return E(Invalid, msg)
}

// NewMisconfiguredError creates an error for a missing setting
func NewMisconfiguredError(msg string) error {
	return E(Misconfigured, msg)
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(msg string) error {
	return E(Unauthorized, msg)
}

var (
	As = errors.As
	Is = errors.Is
)
