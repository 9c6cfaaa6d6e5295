// Package errs carries the error taxonomy shared by every layer of the API.
// Repositories and services return *Error values; the HTTP layer maps the
// Kind to a status code.
package errs

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a classified error with a message safe to show to API clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind and message, so sentinel values
// such as ErrAccountNotFound work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

func Validation(msg string) *Error   { return &Error{Kind: KindValidation, Message: msg} }
func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }
func Forbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }

// Internal wraps an unexpected failure. The message is logged, not returned to
// clients.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf reports the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

const internalMessage = "internal server error"

// MessageOf returns the client-facing message of err. Internal messages stay
// in the logs; clients only ever see internalMessage for them.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return internalMessage
}

var (
	ErrAccountNotFound     = NotFound("account not found")
	ErrTransactionNotFound = NotFound("transaction not found")
	ErrCategoryNotFound    = NotFound("category not found")
	ErrGoalNotFound        = NotFound("goal not found")
	ErrOpinionNotFound     = NotFound("opinion not found")
	ErrUserNotFound        = NotFound("user not found")
	ErrForbidden           = Forbidden("forbidden")
	ErrInvalidCredentials  = Unauthorized("invalid credentials")
	ErrInvalidToken        = Unauthorized("invalid token")
	ErrEmailTaken          = Conflict("email already exists")
)
