package apperr

import (
	"errors"
	"fmt"
)

// Kind identifies a class of domain failure. Values double as the error codes
// returned to API callers.
type Kind string

const (
	KindValidation        Kind = "VALIDATION_ERROR"
	KindAlreadyInClan     Kind = "ALREADY_IN_CLAN"
	KindNotAuthorized     Kind = "NOT_AUTHORIZED"
	KindLeaderCannotLeave Kind = "LEADER_CANNOT_LEAVE"
	KindNotFound          Kind = "NOT_FOUND"
	KindTransport         Kind = "TRANSPORT_ERROR"
)

// Error is the single error type surfaced by the clan engine.
type Error struct {
	Kind    Kind
	Field   string // set for validation failures
	Message string
	Err     error
}

// Sentinels for errors.Is matching. Only Kind is compared.
var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrAlreadyInClan     = &Error{Kind: KindAlreadyInClan}
	ErrNotAuthorized     = &Error{Kind: KindNotAuthorized}
	ErrLeaderCannotLeave = &Error{Kind: KindLeaderCannotLeave}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrTransport         = &Error{Kind: KindTransport}
)

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Validation builds a ValidationError naming the offending field.
func Validation(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NotAuthorized(format string, args ...any) *Error {
	return &Error{Kind: KindNotAuthorized, Message: fmt.Sprintf(format, args...)}
}

func AlreadyInClan(format string, args ...any) *Error {
	return &Error{Kind: KindAlreadyInClan, Message: fmt.Sprintf(format, args...)}
}

func LeaderCannotLeave(format string, args ...any) *Error {
	return &Error{Kind: KindLeaderCannotLeave, Message: fmt.Sprintf(format, args...)}
}

// Transport wraps a backend failure. Errors that are already domain errors
// pass through untouched so repository lookups can report NotFound.
func Transport(op string, err error) error {
	if err == nil {
		return nil
	}
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return err
	}
	return &Error{Kind: KindTransport, Message: op, Err: err}
}

// KindOf returns the kind of err, or "" when err is not a domain error.
func KindOf(err error) Kind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return ""
}

// FieldOf returns the field carried by a validation error.
func FieldOf(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Field
	}
	return ""
}
