package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeInvalidArgument    ErrorCode = "INVALID_ARGUMENT"
	ErrCodeInvariantViolation ErrorCode = "INVARIANT_VIOLATION"
	ErrCodeEncodingFailure    ErrorCode = "ENCODING_FAILURE"
	ErrCodeInvalid            ErrorCode = "INVALID"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeInternal           ErrorCode = "INTERNAL"
)

// Error represents a domain-level error. Number carries the numeric code
// reported by an encoder, zero when there is none.
type Error struct {
	Code    ErrorCode
	Message string
	Number  int
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// InvalidArgument reports a malformed setter input.
func InvalidArgument(format string, args ...any) *Error {
	return NewError(ErrCodeInvalidArgument, fmt.Sprintf(format, args...))
}

// EncodingFailure reports an encoder error together with its numeric code.
func EncodingFailure(message string, number int, err error) *Error {
	return &Error{
		Code:    ErrCodeEncodingFailure,
		Message: message,
		Number:  number,
		Err:     err,
	}
}

// ErrUnsetStatus is returned by Export when the result carries no status.
var ErrUnsetStatus = NewError(ErrCodeInvariantViolation, "Invalid empty status. Set a valid status on the result object before serializing.")

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// NumberedError is implemented by encoder errors that carry a numeric code.
type NumberedError interface {
	error
	ErrorNumber() int
}

// Describe returns the message and numeric code used when an error has to be
// rendered into a fallback envelope. Other errors are reported by their Error
// text, with the code of a NumberedError in the chain when there is one.
func Describe(err error) (string, int) {
	if err == nil {
		return "", 0
	}
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Message, dErr.Number
	}
	var numbered NumberedError
	if errors.As(err, &numbered) {
		return err.Error(), numbered.ErrorNumber()
	}
	return err.Error(), 0
}
