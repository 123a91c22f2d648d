package models

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned when structured data cannot be turned into a Document,
// e.g. when items contains something that is not an Item.
var ErrInvalidInput = errors.New("items are not only a type of Item")

// InputError wraps ErrInvalidInput with the position of the offending value.
type InputError struct {
	// Op is the operation that failed (e.g., "FromStructuredData").
	Op string

	// Index is the position of the rejected element in items, or -1.
	Index int

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *InputError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("models: %s failed: items[%d]: %s: %v", e.Op, e.Index, e.Details, e.Err)
	}
	return fmt.Sprintf("models: %s failed: %s: %v", e.Op, e.Details, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *InputError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *InputError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func newInputError(op string, index int, details string) *InputError {
	return &InputError{
		Op:      op,
		Index:   index,
		Err:     ErrInvalidInput,
		Details: details,
	}
}
