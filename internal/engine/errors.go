package engine

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure categories an engine can report.
type ErrorKind uint8

const (
	// EmptyResultSet means the upstream explicitly reported zero results.
	// It is distinct from a transport failure and usually not worth a retry.
	EmptyResultSet ErrorKind = iota

	// RequestError covers transport failures and responses that could not
	// be fetched or parsed into a usable document.
	RequestError

	// UnexpectedError covers configuration, header construction, and
	// internal invariant failures.
	UnexpectedError
)

func (k ErrorKind) String() string {
	switch k {
	case EmptyResultSet:
		return "empty result set"
	case RequestError:
		return "request error"
	case UnexpectedError:
		return "unexpected error"
	default:
		return fmt.Sprintf("unknown error kind %d", uint8(k))
	}
}

// Error is a kind-tagged engine failure. Op describes the step that failed
// so that wrapped errors read as a context chain from the adapter down to
// the original cause.
type Error struct {
	Kind   ErrorKind
	Engine string
	Op     string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", e.Engine, e.Op, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the taxonomy kind from err, unwrapping as needed.
func KindOf(err error) (ErrorKind, bool) {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Kind, true
	}
	return 0, false
}

// IsKind reports whether err carries the given taxonomy kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
