// Package exitcode defines the exit codes of the iris CLI so scripts can
// tell failures apart without parsing messages.
//
// Codes are grouped by category:
//   - 0: Success
//   - 1-9: General errors (usage, internal)
//   - 10-19: Not found (application, file)
//   - 50-59: State errors (nothing to launch)
//   - 60-69: Launch errors
//
// Extract codes from errors (works with wrapped errors):
//
//	code := exitcode.Code(err) // ErrGeneral for non-coded errors
package exitcode

import (
	"errors"
	"fmt"
)

const (
	Success = 0

	ErrGeneral  = 1 // General/unknown error
	ErrUsage    = 2 // Invalid arguments or flags
	ErrInternal = 3

	ErrAppNotFound  = 10 // No application matches the reference
	ErrFileNotFound = 13 // Import file or similar is missing

	ErrNoCommands = 50 // Application has nothing to run

	ErrStartFailed = 60 // Launch settled without a session
)

// Error wraps an error with a specific exit code.
type Error struct {
	Code    int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new coded error.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a new coded error with printf-style formatting.
func Newf(code int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with a code and message.
func Wrap(code int, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Wrapf wraps an existing error with a code and printf-style message.
func Wrapf(code int, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Code extracts the exit code from an error.
// Returns ErrGeneral (1) if the error doesn't have a code.
func Code(err error) int {
	if err == nil {
		return Success
	}
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ErrGeneral
}

// Is checks if an error has a specific exit code.
func Is(err error, code int) bool {
	return Code(err) == code
}

// AppNotFound reports an unresolvable application reference.
func AppNotFound(ref string, cause error) *Error {
	return Wrapf(ErrAppNotFound, cause, "%q (see 'iris app list')", ref)
}

// NoCommands reports an application that cannot be launched.
func NoCommands(name string) *Error {
	return Newf(ErrNoCommands, "%s has no commands (add some with 'iris app edit %s --cmd ...')", name, name)
}

// Usage reports invalid arguments.
func Usage(format string, args ...any) *Error {
	return Newf(ErrUsage, format, args...)
}
