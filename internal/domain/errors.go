package domain

import (
	"errors"
	"fmt"
)

// Kind classifies every failure the service can report.
type Kind int

const (
	KindDatabase Kind = iota
	KindInvalidInput
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "Invalid input"
	case KindNotFound:
		return "Not found"
	default:
		return "Database error"
	}
}

// Error is the single error type crossing the store/handler boundary.
// Detail is safe to show to clients; Err is the underlying cause and is only logged.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

func DatabaseError(detail string, cause error) *Error {
	return &Error{Kind: KindDatabase, Detail: detail, Err: cause}
}

func InvalidInput(detail string) *Error {
	return &Error{Kind: KindInvalidInput, Detail: detail}
}

func NotFound(detail string) *Error {
	return &Error{Kind: KindNotFound, Detail: detail}
}

// KindOf reports the kind of err. Errors that are not *Error count as KindDatabase.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindDatabase
}

// AsError returns err as *Error, wrapping foreign errors as a DatabaseError with the given detail.
func AsError(err error, detail string) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return DatabaseError(detail, err)
}
