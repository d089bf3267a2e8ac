package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a coarse error class. Error handlers are expected to branch on it.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindParse is returned by the request parser. Such errors never reach route handlers.
	KindParse
	// KindAlreadySent is returned by response mutators after the header or body one-shot
	// guard has been tripped.
	KindAlreadySent
	// KindIO covers socket read/write failures and unreadable files.
	KindIO
	// KindHandler is an opaque application error returned by a route handler.
	KindHandler
	// KindShutdown signals that the server was stopped.
	KindShutdown
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindAlreadySent:
		return "already sent"
	case KindIO:
		return "io"
	case KindHandler:
		return "handler"
	case KindShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Code refines KindParse errors.
type Code uint8

const (
	NoCode Code = iota
	MalformedRequestLine
	UnsupportedVersion
	MalformedHeader
	RequestLineTooLong
	HeaderFieldsTooLarge
)

// Error is the single error type produced by the server. Two errors are considered
// equal by errors.Is if their kinds and codes match, so sentinel values below may be
// used for comparison even after wrapping.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	// Payload is an arbitrary structured value attached by application code.
	Payload any
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.Kind == t.Kind && e.Code == t.Code
}

var (
	ErrMalformedRequestLine = &Error{Kind: KindParse, Code: MalformedRequestLine, Message: "malformed request line"}
	ErrUnsupportedVersion   = &Error{Kind: KindParse, Code: UnsupportedVersion, Message: "unsupported HTTP version"}
	ErrMalformedHeader      = &Error{Kind: KindParse, Code: MalformedHeader, Message: "malformed header"}
	ErrRequestLineTooLong   = &Error{Kind: KindParse, Code: RequestLineTooLong, Message: "request line is too long"}
	ErrHeaderFieldsTooLarge = &Error{Kind: KindParse, Code: HeaderFieldsTooLarge, Message: "too large headers section"}

	ErrAlreadySent = &Error{Kind: KindAlreadySent, Message: "response already sent"}
	ErrIO          = &Error{Kind: KindIO, Message: "i/o failure"}
	ErrHandler     = &Error{Kind: KindHandler, Message: "handler error"}
	ErrShutdown    = &Error{Kind: KindShutdown, Message: "server is shut down"}
)

// New returns an opaque application error, which is what route handlers usually return.
func New(message string) error {
	return &Error{Kind: KindHandler, Message: message}
}

// WithPayload returns an application error carrying a structured value, which error
// handlers may extract via PayloadOf.
func WithPayload(message string, payload any) error {
	return &Error{Kind: KindHandler, Message: message, Payload: payload}
}

// Handler classifies an error returned by a route handler. Errors of this package are
// returned as is, any other one is wrapped so it matches ErrHandler while keeping the cause.
func Handler(err error) error {
	var e *Error
	if err == nil || stderrors.As(err, &e) {
		return err
	}

	return &Error{Kind: KindHandler, Message: ErrHandler.Message, Err: err}
}

// IO wraps an I/O failure. Nil stays nil.
func IO(err error) error {
	if err == nil {
		return nil
	}

	return &Error{Kind: KindIO, Message: "i/o failure", Err: err}
}

// Parse returns a copy of the parse sentinel with an attached detail.
func Parse(sentinel *Error, detail string) error {
	return &Error{
		Kind:    sentinel.Kind,
		Code:    sentinel.Code,
		Message: fmt.Sprintf("%s: %q", sentinel.Message, detail),
	}
}

// KindOf returns the kind of the first *Error found in the chain. Errors not produced
// by this package are considered handler errors.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}

	return KindHandler
}

// PayloadOf extracts the payload of the first *Error in the chain.
func PayloadOf(err error) (any, bool) {
	var e *Error
	if !stderrors.As(err, &e) || e.Payload == nil {
		return nil, false
	}

	return e.Payload, true
}

// Is is errors.Is of the standard library.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As is errors.As of the standard library.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
