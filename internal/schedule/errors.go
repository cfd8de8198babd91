package schedule

import (
	"errors"
	"fmt"
)

// ErrOwnership is returned when an entry resolves but belongs to a different
// user. It maps to 403, never 404: a valid id with the wrong owner is an
// authorization failure, not an absence.
var ErrOwnership = errors.New("scheduled workout belongs to another user")

// ValidationError reports a malformed request parameter. It is terminal and
// never retried; the offending field is always named.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}
