/* errors.go
 * Contains the error taxonomy raised by the core. Every error carries a Code so that callers (bot, web)
 * can branch with errors.Is against the exported sentinels
 * Authors: Zachary Bower
 */

package shared

import "errors"

// Code identifies the class of a domain error
type Code string

const (
	CodeValidation        Code = "validation"
	CodeNotFound          Code = "not_found"
	CodeConflict          Code = "conflict"
	CodePermission        Code = "permission"
	CodeInvalidTransition Code = "invalid_transition"
	CodeTimeWindow        Code = "time_window"
	CodeUnavailable       Code = "collaborator_unavailable"
)

// Error is the domain error type
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Sentinels for errors.Is. Matching is by code only
var (
	ErrValidation        = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrNotFound          = &Error{Code: CodeNotFound, Message: "not found"}
	ErrConflict          = &Error{Code: CodeConflict, Message: "conflict"}
	ErrPermission        = &Error{Code: CodePermission, Message: "permission denied"}
	ErrInvalidTransition = &Error{Code: CodeInvalidTransition, Message: "invalid transition"}
	ErrTimeWindow        = &Error{Code: CodeTimeWindow, Message: "submission window is not open"}
	ErrUnavailable       = &Error{Code: CodeUnavailable, Message: "collaborator unavailable"}
)

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a domain error with a code and message
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// ValidationError is raised for malformed or missing input
func ValidationError(message string) *Error {
	return NewError(CodeValidation, message)
}

// NotFoundError is raised when a referenced account, team or record is absent
func NotFoundError(message string) *Error {
	return NewError(CodeNotFound, message)
}

// ConflictError is raised when an invariant would be violated
func ConflictError(message string) *Error {
	return NewError(CodeConflict, message)
}

// PermissionError is raised for privileged operations attempted by the wrong principal
func PermissionError(message string) *Error {
	return NewError(CodePermission, message)
}

// InvalidTransitionError is raised when a lifecycle trigger is not valid from the current status
func InvalidTransitionError(message string) *Error {
	return NewError(CodeInvalidTransition, message)
}

// TimeWindowError is raised for submissions outside the open window
func TimeWindowError(message string) *Error {
	return NewError(CodeTimeWindow, message)
}

// UnavailableError wraps a store or network failure
func UnavailableError(message string, cause error) *Error {
	return &Error{Code: CodeUnavailable, Message: message, Cause: cause}
}

// CodeOf returns the code of a domain error, or CodeUnavailable for anything else
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeUnavailable
}
