package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for file extensions or format names
	// other than json, yaml and yml.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrEmptyInput is returned when the input holds no data.
	ErrEmptyInput = errors.New("empty document input")

	// ErrDecodeFailed is returned when the input is not valid JSON or YAML,
	// or its top level is not a mapping.
	ErrDecodeFailed = errors.New("failed to decode document")
)

// LoadError wraps errors with the operation and file involved.
type LoadError struct {
	// Op is the operation that failed (e.g., "LoadFile", "Decode").
	Op string

	// Path is the file being read, if any.
	Path string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("loader: %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("loader: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *LoadError) Unwrap() error {
	return e.Err
}
