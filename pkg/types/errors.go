package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced by the launch configuration packages.
type ErrorKind string

const (
	KindNotFound        ErrorKind = "not_found"        // KindNotFound indicates a missing executable, extension or file.
	KindInvalidArgument ErrorKind = "invalid_argument" // KindInvalidArgument indicates a value the caller must set another way.
	KindParse           ErrorKind = "parse"            // KindParse indicates malformed on-disk content.
	KindIO              ErrorKind = "io"               // KindIO indicates a filesystem failure other than absence.
)

// Sentinels matched by errors.Is against any *Error of the same kind.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrParse           = errors.New("parse error")
	ErrIO              = errors.New("i/o error")
)

// Error carries the kind of failure, the operation that raised it and,
// where one applies, the path involved.
type Error struct {
	Kind ErrorKind
	Op   string
	Path string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Path, msg)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return target == sentinel(e.Kind)
}

// NewError creates an Error without an underlying cause.
func NewError(kind ErrorKind, op, path, msg string) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Msg: msg}
}

// WrapError creates an Error around an existing cause.
func WrapError(kind ErrorKind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func sentinel(kind ErrorKind) error {
	switch kind {
	case KindNotFound:
		return ErrNotFound
	case KindInvalidArgument:
		return ErrInvalidArgument
	case KindParse:
		return ErrParse
	case KindIO:
		return ErrIO
	default:
		return nil
	}
}
