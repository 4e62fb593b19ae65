package services

import "errors"

// ErrorKind classifies the expected failure modes of a service operation.
// Anything that reaches a handler without a kind is an unexpected data-layer
// failure and maps to a 500.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindPermissionDenied
	KindConflict
	KindInvalid
)

type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func PermissionDenied(message string) error {
	return &Error{Kind: KindPermissionDenied, Message: message}
}

func Conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

func Invalid(message string) error {
	return &Error{Kind: KindInvalid, Message: message}
}

// KindOf returns the kind of err, or 0 when err carries no kind.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}
