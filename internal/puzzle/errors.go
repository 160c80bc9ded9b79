package puzzle

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every data validation failure.
var ErrInvalid = errors.New("puzzle: invalid data")

// ValidationError describes one authoring mistake in puzzle data.
type ValidationError struct {
	EntryID string // empty for grid-level problems
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.EntryID == "" {
		return "puzzle: " + e.Reason
	}
	return fmt.Sprintf("puzzle: entry %s: %s", e.EntryID, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalid) match.
func (e *ValidationError) Unwrap() error { return ErrInvalid }

func invalidf(entryID, format string, args ...any) error {
	return &ValidationError{EntryID: entryID, Reason: fmt.Sprintf(format, args...)}
}
