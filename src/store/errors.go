package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no transaction carries the requested ID.
var ErrNotFound = errors.New("transaction not found")

// ValidationError reports a required field missing from a create payload.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
