package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateName  = errors.New("project name already exists")
	ErrPersonNotFound = errors.New("person not found")
	ErrUnknownProject = errors.New("unknown project")
	ErrRunNotFound    = errors.New("recompute run not found")
	ErrBusy           = errors.New("assignment recompute in progress")
)

// ValidationError rejects a ranking submission before anything is stored.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
