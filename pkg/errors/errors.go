package errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrUpstreamFetch      = errors.New("upstream fetch failed")
)

// Error codes attached with WrapWithCode
const (
	CodeUpstreamFetch  = "UPSTREAM_FETCH"
	CodeNotFound       = "NOT_FOUND"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeNotInitialized = "NOT_INITIALIZED"
)

// Error represents a custom error type
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new error with a message
func New(message string) error {
	return &Error{
		Message: message,
	}
}

// Wrap wraps an error with additional message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
	}
}

// WrapWithCode wraps an error with a code and message
func WrapWithCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Upstream wraps a failure reaching a third-party API. The result matches
// ErrUpstreamFetch and carries CodeUpstreamFetch.
func Upstream(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    CodeUpstreamFetch,
		Message: message,
		Err:     fmt.Errorf("%w: %w", ErrUpstreamFetch, err),
	}
}

// Invalid returns an input validation error matching ErrInvalidInput
func Invalid(message string) error {
	return &Error{
		Code:    CodeInvalidInput,
		Message: message,
		Err:     ErrInvalidInput,
	}
}

// NotFound returns an error matching ErrNotFound
func NotFound(message string) error {
	return WrapWithCode(ErrNotFound, CodeNotFound, message)
}

// Unavailable returns an error matching ErrServiceUnavailable
func Unavailable(code, message string) error {
	return WrapWithCode(ErrServiceUnavailable, code, message)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// GetCode returns the error code if it exists
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetMessage returns the error message
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsNotFound returns true if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUpstreamFetch returns true if the error is a failure reaching a third-party API
func IsUpstreamFetch(err error) bool {
	return errors.Is(err, ErrUpstreamFetch)
}

// IsInvalidInput returns true if the error is an input validation error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsServiceUnavailable returns true if the error is a service unavailable error
func IsServiceUnavailable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable)
}
