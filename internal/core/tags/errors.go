package tags

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a tag lookup finds no matching record.
var ErrNotFound = errors.New("tag not found")

// InvalidTagError reports a tag name that fails validation.
type InvalidTagError struct {
	Name   string
	Reason string
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("invalid tag %q: %s", e.Name, e.Reason)
}

// IsInvalidTag checks if err is an InvalidTagError.
func IsInvalidTag(err error) bool {
	var invalidErr *InvalidTagError
	return errors.As(err, &invalidErr)
}
