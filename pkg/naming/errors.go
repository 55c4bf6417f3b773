package naming

import (
	"errors"
	"fmt"
)

// ErrInvalidName is matched by every *InvalidNameError via errors.Is.
var ErrInvalidName = errors.New("invalid object name")

// InvalidNameError reports input that sanitizes to an empty or unusable name.
type InvalidNameError struct {
	// Input is the raw title or name that was rejected.
	Input string

	// Reason describes why the name was rejected.
	Reason string
}

// Error implements the error interface.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid object name %q: %s", e.Input, e.Reason)
}

// Is reports whether target is ErrInvalidName.
func (e *InvalidNameError) Is(target error) bool {
	return target == ErrInvalidName
}
