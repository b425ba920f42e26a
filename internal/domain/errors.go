package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict (duplicate email, second cart).
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalid marks malformed input: bad ids, non-positive quantities, missing fields.
	ErrInvalid = errors.New("invalid input")
	// ErrInsufficientStock is returned when a product cannot cover the requested quantity.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrIncorrectPassword is returned by login on a hash mismatch.
	ErrIncorrectPassword = errors.New("incorrect password")
)

// Error carries a user-facing message together with one of the sentinel kinds above.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) error {
	return newError(ErrNotFound, format, args...)
}

func Invalid(format string, args ...interface{}) error {
	return newError(ErrInvalid, format, args...)
}

func Conflict(format string, args ...interface{}) error {
	return newError(ErrAlreadyExists, format, args...)
}

func InsufficientStock(format string, args ...interface{}) error {
	return newError(ErrInsufficientStock, format, args...)
}

func IncorrectPassword(format string, args ...interface{}) error {
	return newError(ErrIncorrectPassword, format, args...)
}
