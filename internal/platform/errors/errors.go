package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrNoActiveTimer = errors.New("no active timer")

	ErrProjectNameRequired = fmt.Errorf("%w: project name required", ErrInvalidInput)
	ErrSelectionRequired   = fmt.Errorf("%w: select project and task", ErrInvalidInput)
)

// IsValidation reports whether err is a user input error rather than a
// storage or runtime failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
