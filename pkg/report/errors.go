package report

import (
	"errors"
	"fmt"
)

// ErrUnsupportedMode is matched by every *UnsupportedModeError via errors.Is.
var ErrUnsupportedMode = errors.New("unsupported output mode")

// UnsupportedModeError reports an output mode outside Modes.
type UnsupportedModeError struct {
	Mode string
}

// Error implements the error interface.
func (e *UnsupportedModeError) Error() string {
	return fmt.Sprintf("unsupported output mode %q (supported: text, json, markdown)", e.Mode)
}

// Is reports whether target is ErrUnsupportedMode.
func (e *UnsupportedModeError) Is(target error) bool {
	return target == ErrUnsupportedMode
}
