package services

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every service operation. Handlers translate these
// into the response envelope: ErrValidation → 400, ErrForbidden → 403,
// ErrNotFound → 404, anything else → 500. Failures are terminal for the
// request; nothing here is retried.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation")
)

// Error carries a client-facing message classified by one of the sentinel
// kinds above. errors.Is(err, ErrNotFound) etc. selects the status code;
// Error() is the message echoed in the envelope.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NotFoundf builds a not-found error with a formatted message.
func NotFoundf(format string, args ...interface{}) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// Forbiddenf builds an authorization error with a formatted message.
func Forbiddenf(format string, args ...interface{}) error {
	return &Error{Kind: ErrForbidden, Message: fmt.Sprintf(format, args...)}
}

// Invalidf builds a validation error with a formatted message.
func Invalidf(format string, args ...interface{}) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}
