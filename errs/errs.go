// Package errs defines the error kinds the service reports to callers and
// the HTTP status each one maps to.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind string

const (
	KindValidation       Kind = "VALIDATION"
	KindTimestampParse   Kind = "TIMESTAMP_PARSE"
	KindNotFound         Kind = "NOT_FOUND"
	KindStoreUnavailable Kind = "STORE_UNAVAILABLE"
	KindStoreRead        Kind = "STORE_READ"
	KindStoreWrite       Kind = "STORE_WRITE"
)

// Error is a classified failure. Message is what the caller sees; Err keeps
// the underlying cause for logs.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status maps the kind onto an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindTimestampParse:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Public returns the message safe to put in a response body.
func (e *Error) Public() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Status())
}

// ErrNoConnection is the cause attached to StoreUnavailable errors.
var ErrNoConnection = errors.New("No hay conexión a la base de datos")

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func TimestampParse(field, value string, err error) *Error {
	return &Error{
		Kind:    KindTimestampParse,
		Op:      field,
		Message: fmt.Sprintf("Fecha inválida en %q: %s", field, value),
		Err:     err,
	}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func StoreUnavailable(op string, err error) *Error {
	if err == nil {
		err = ErrNoConnection
	}
	return &Error{Kind: KindStoreUnavailable, Op: op, Message: ErrNoConnection.Error(), Err: err}
}

func StoreRead(op string, err error) *Error {
	return &Error{Kind: KindStoreRead, Op: op, Err: err}
}

func StoreWrite(op string, err error) *Error {
	return &Error{Kind: KindStoreWrite, Op: op, Err: err}
}

// KindOf reports the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
