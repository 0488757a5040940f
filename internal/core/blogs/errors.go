package blogs

import (
	"errors"
	"fmt"
)

// Domain errors for blogs
var (
	// ErrBlogNotFound is returned when a blog doesn't exist
	ErrBlogNotFound = errors.New("blog not found")

	// ErrBlogNameTaken is returned when a blog name is already in use
	ErrBlogNameTaken = errors.New("blog name is already taken")

	// ErrNotOwner is returned when a user tries to manage someone else's blog
	ErrNotOwner = errors.New("user does not own this blog")

	// ErrInvalidBlogName is returned when a blog name doesn't match the required format
	ErrInvalidBlogName = errors.New("invalid blog name format")
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
	return errors.Is(err, ErrBlogNotFound)
}

// IsConflict checks if error is a conflict error (duplicate)
func IsConflict(err error) bool {
	return errors.Is(err, ErrBlogNameTaken)
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr) || errors.Is(err, ErrInvalidBlogName)
}
