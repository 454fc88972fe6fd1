package pixels

import (
	"errors"
	"fmt"
)

var (
	// ErrShape is returned when an array does not have the shape an
	// operation requires.
	ErrShape = errors.New("invalid array shape")

	// ErrNilArray is returned when an operation receives a nil array.
	ErrNilArray = errors.New("array cannot be nil")

	// ErrChannel is returned for a channel index outside the array.
	ErrChannel = errors.New("channel out of range")
)

// ProcessingError reports a failure while transforming or displaying an
// array.
type ProcessingError struct {
	Op  string // e.g. "red filtering the image"
	Err error
}

// Error implements the error interface
func (e *ProcessingError) Error() string {
	return "error during " + e.Op + ": " + e.Err.Error()
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// LoadError reports an image that could not be opened or decoded.
type LoadError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load image %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func shapeError(shape []int, want string) error {
	return fmt.Errorf("%w: got %s, want %s", ErrShape, formatShape(shape), want)
}
