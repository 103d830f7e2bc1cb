// Package apperror defines the typed errors that cross the service boundary.
// Services return *Error values; the HTTP layer maps the Kind to a status
// code in exactly one place.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAlreadyExists
	KindUnauthenticated
	KindNotFound
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAlreadyExists:
		return "already_exists"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "internal"
	}
}

// Messages shared by several call sites.
const (
	MsgUnauthorized    = "Unauthorized"
	MsgBadCredentials  = "Username or password wrong"
	MsgUsernameExists  = "Username already exists"
	MsgUserNotFound    = "User is not found"
	MsgContactNotFound = "Contact is not found"
	MsgAddressNotFound = "Address not found"
	MsgRateLimited     = "Too many requests"
	MsgInternal        = "Internal Server Error"
)

// Error is an application error with a client-safe message.
// Err holds the underlying cause and is never shown to clients.
type Error struct {
	Kind    Kind
	Message string
	Fields  []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation builds an aggregated validation error. Message joins every
// field message with "; ".
func Validation(fields ...string) *Error {
	msg := ""
	for i, f := range fields {
		if i > 0 {
			msg += "; "
		}
		msg += f
	}
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

// AlreadyExists reports a uniqueness conflict.
func AlreadyExists(msg string) *Error {
	return &Error{Kind: KindAlreadyExists, Message: msg}
}

// Unauthenticated reports a missing or rejected credential.
func Unauthenticated(msg string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: msg}
}

// NotFound reports a resource that does not exist or is not visible to the caller.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// RateLimited reports a throttled request.
func RateLimited() *Error {
	return &Error{Kind: KindRateLimited, Message: MsgRateLimited}
}

// Internal wraps an unexpected failure. The cause is logged, not returned.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: MsgInternal, Err: err}
}

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}
