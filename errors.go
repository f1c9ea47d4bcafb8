package trajectory

import (
	"errors"
	"fmt"
)

// ErrorKind classifies trajectory errors.
type ErrorKind int

const (
	// KindInvalidArguments marks a failed precondition on a public
	// operation: sizes not divisible by the DOF, indices out of bounds,
	// negative sample times, unknown binary versions.
	KindInvalidArguments ErrorKind = iota + 1

	// KindInvalidState marks a derived-data integrity violation: negative
	// deltatime values, validator disagreement.
	KindInvalidState

	// KindNotImplemented marks a reconstruction requested with a data shape
	// the engine does not support yet.
	KindNotImplemented
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidArguments:
		return "invalid arguments"
	case KindInvalidState:
		return "invalid state"
	case KindNotImplemented:
		return "not implemented"
	}
	return "unknown"
}

// Sentinels for errors.Is checks against the kind of an *Error.
var (
	ErrInvalidArguments = &Error{kind: KindInvalidArguments}
	ErrInvalidState     = &Error{kind: KindInvalidState}
	ErrNotImplemented   = &Error{kind: KindNotImplemented}
)

// Error is a structured trajectory error carrying a message and a kind.
type Error struct {
	kind ErrorKind
	msg  string
}

// Kind returns the error classification.
func (e *Error) Kind() ErrorKind { return e.kind }

func (e *Error) Error() string {
	if e.msg == "" {
		return e.kind.String()
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

// Is matches any *Error with the same kind, so that
// errors.Is(err, ErrInvalidArguments) works across wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.kind == t.kind
	}
	return false
}

func invalidArgf(format string, args ...interface{}) error {
	return &Error{kind: KindInvalidArguments, msg: fmt.Sprintf(format, args...)}
}

func invalidStatef(format string, args ...interface{}) error {
	return &Error{kind: KindInvalidState, msg: fmt.Sprintf(format, args...)}
}

func notImplementedf(format string, args ...interface{}) error {
	return &Error{kind: KindNotImplemented, msg: fmt.Sprintf(format, args...)}
}
