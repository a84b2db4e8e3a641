package models

import (
	"errors"
	"fmt"
)

// Error code constants
const (
	ErrCodeSignInRequired   = "SIGN_IN_REQUIRED"
	ErrCodePermissionDenied = "PERMISSION_DENIED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeImageUnavailable = "IMAGE_UNAVAILABLE"
)

// ActionError is a user-facing outcome of an end-user action.
// It is returned as a value and rendered inline; it never signals a programming error.
type ActionError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *ActionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewActionError creates a new action error with the given code and message
func NewActionError(code, message string) *ActionError {
	return &ActionError{Code: code, Message: message}
}

func SignInRequired(message string) *ActionError {
	return NewActionError(ErrCodeSignInRequired, message)
}

func PermissionDenied(message string) *ActionError {
	return NewActionError(ErrCodePermissionDenied, message)
}

func NotFound(message string) *ActionError {
	return NewActionError(ErrCodeNotFound, message)
}

func ValidationFailed(message string) *ActionError {
	return NewActionError(ErrCodeValidationFailed, message)
}

func Conflict(message string) *ActionError {
	return NewActionError(ErrCodeConflict, message)
}

// AsActionError unwraps err into an ActionError if it is one
func AsActionError(err error) (*ActionError, bool) {
	var actionErr *ActionError
	if errors.As(err, &actionErr) {
		return actionErr, true
	}
	return nil, false
}

// Sentinel failures. ErrUnauthorized and ErrInvalidTransition are raised from
// admin-only surfaces; reaching one means a caller skipped the admin gate.
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrSeedNotFound      = errors.New("seed not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)
