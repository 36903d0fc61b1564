package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition indicates the requested status change is not
	// legal from the visit's current persisted status.
	ErrInvalidTransition = errors.New("invalid visit status transition")
	// ErrVisitNotFound indicates the referenced visit does not exist.
	ErrVisitNotFound = errors.New("visit not found")
	// ErrIssueNotFound indicates no issue is recorded for the visit.
	ErrIssueNotFound = errors.New("issue not found")
	// ErrResidentNotFound indicates the referenced resident does not exist.
	ErrResidentNotFound = errors.New("resident not found")
	// ErrMemberNotFound indicates the referenced household member does not exist.
	ErrMemberNotFound = errors.New("household member not found")
	// ErrActorNotFound indicates the authenticated principal matches no
	// staff, resident or household member record.
	ErrActorNotFound = errors.New("actor not found")
	// ErrNotAllowed indicates the actor lacks permission for the operation.
	ErrNotAllowed = errors.New("actor not allowed to perform this operation")
)

// ValidationError indicates caller-supplied input violates a precondition.
// The operation is aborted with no state change.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
