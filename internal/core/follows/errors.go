package follows

import (
	"errors"
	"fmt"
)

// Domain errors for follows
var (
	// ErrFollowNotFound is returned when the follow edge doesn't exist
	ErrFollowNotFound = errors.New("follow not found")

	// ErrAlreadyFollowing is returned when the edge already exists
	ErrAlreadyFollowing = errors.New("already following this blog")
)

// ValidationError wraps input validation errors with field details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsNotFound checks if error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrFollowNotFound)
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
