// Package errors provides the typed error envelope used across windout,
// mirroring the classification scheme wind uses for its own framework
// errors (a sentinel wrapped with a type flag and optional metadata).
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the network and output layers.
var (
	ErrTimeout          = errors.New("timeout")
	ErrConnectionClosed = errors.New("connection closed")
	ErrOutputClosed     = errors.New("socket output closed")
	ErrSchedulingFailed = errors.New("failed to post write to event loop")
	ErrPipelineInit     = errors.New("failed to initiate write pipeline")
)

// ErrorType classifies an Error for logging and propagation decisions.
// Values are bit flags so IsType can test for several types at once.
type ErrorType uint64

const (
	// ErrorTypePrivate marks an error that should not be surfaced verbatim
	// to a remote peer (internal state, stack traces, etc).
	ErrorTypePrivate ErrorType = 1 << iota
	// ErrorTypePublic marks an error that is safe to report upstream.
	ErrorTypePublic
	// ErrorTypeIO marks an error produced by the underlying transport
	// (async write/shutdown failures, closed handles).
	ErrorTypeIO
	// ErrorTypeAny has every bit set, so IsType(ErrorTypeAny) matches any
	// non-zero type.
	ErrorTypeAny ErrorType = 1<<64 - 1
)

// Error is a sentinel error annotated with a type and optional metadata.
type Error struct {
	Err  error
	Type ErrorType
	Meta any
}

var _ error = (*Error)(nil)

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) IsType(flags ErrorType) bool {
	return e.Type&flags > 0
}

func (e *Error) SetType(flags ErrorType) *Error {
	e.Type = flags
	return e
}

func (e *Error) SetMeta(data any) *Error {
	e.Meta = data
	return e
}

// New wraps err with a type and optional metadata.
func New(err error, t ErrorType, meta any) *Error {
	return &Error{Err: err, Type: t, Meta: meta}
}

// Newf formats a new error carrying the given type.
func Newf(t ErrorType, meta any, format string, v ...any) *Error {
	return New(fmt.Errorf(format, v...), t, meta)
}

// NewIO wraps a transport-originated error (the AsyncWriteError case in the
// output path's error taxonomy).
func NewIO(err error) *Error {
	return New(err, ErrorTypeIO, nil)
}
