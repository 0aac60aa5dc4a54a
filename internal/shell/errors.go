package shell

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// Kind categorizes interpreter and handler failures.
type Kind int

const (
	KindOK Kind = iota
	KindParseError
	KindUnrecognizedPhrase
	KindInvalidArgument
	KindNotFound
	KindPermissionDenied
	KindIOFailure
	KindUnknownCommand
)

// Exit codes are stable across releases: front ends and tests depend on them.
const (
	ExitOK                 = 0
	ExitParseError         = 2
	ExitUnrecognizedPhrase = 3
	ExitInvalidArgument    = 4
	ExitNotFound           = 5
	ExitPermissionDenied   = 6
	ExitIOFailure          = 7
	ExitUnknownCommand     = 127
)

// String returns the taxonomy name of the kind.
func (k Kind) String() string {
	switch k {
	case KindOK:
		return "OK"
	case KindParseError:
		return "ParseError"
	case KindUnrecognizedPhrase:
		return "UnrecognizedPhrase"
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindNotFound:
		return "NotFound"
	case KindPermissionDenied:
		return "PermissionDenied"
	case KindIOFailure:
		return "IOFailure"
	case KindUnknownCommand:
		return "UnknownCommand"
	default:
		return "Unknown"
	}
}

// ExitCode returns the stable exit code for the kind.
func (k Kind) ExitCode() int {
	switch k {
	case KindOK:
		return ExitOK
	case KindParseError:
		return ExitParseError
	case KindUnrecognizedPhrase:
		return ExitUnrecognizedPhrase
	case KindInvalidArgument:
		return ExitInvalidArgument
	case KindNotFound:
		return ExitNotFound
	case KindPermissionDenied:
		return ExitPermissionDenied
	case KindIOFailure:
		return ExitIOFailure
	case KindUnknownCommand:
		return ExitUnknownCommand
	default:
		return ExitIOFailure
	}
}

// Error is a categorized failure carrying a user-facing message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf creates a categorized error with a formatted message.
func Errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an underlying error.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Normalize maps an arbitrary handler error into the taxonomy. Categorized
// errors pass through; OS-level errors map by sentinel; everything else,
// including execution timeouts, collapses to IOFailure.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Wrap(KindNotFound, err.Error(), err)
	case errors.Is(err, fs.ErrPermission):
		return Wrap(KindPermissionDenied, err.Error(), err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return Wrap(KindIOFailure, "command timed out", err)
	default:
		return Wrap(KindIOFailure, err.Error(), err)
	}
}

// KindOf returns the taxonomy kind of an error, or KindOK for nil.
func KindOf(err error) Kind {
	if err == nil {
		return KindOK
	}
	return Normalize(err).Kind
}
