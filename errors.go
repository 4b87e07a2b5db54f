package chart

import (
	"errors"
	"fmt"
)

// Package errors.
var (
	// ErrUnsupportedType is matched by every *TypeError via errors.Is.
	ErrUnsupportedType = errors.New("chart: unsupported data type")

	// ErrNilContext is returned when a chart is created without a Context.
	ErrNilContext = errors.New("chart: nil context")

	// ErrNilDevice is returned when a Context is created without a device or queue.
	ErrNilDevice = errors.New("chart: nil device or queue")

	// ErrNoHALProvider is returned when a device provider does not expose HAL handles.
	ErrNoHALProvider = errors.New("chart: provider does not expose HAL device and queue")

	// ErrZeroBins is returned when a histogram is created with no bins.
	ErrZeroBins = errors.New("chart: bin count must be positive")

	// ErrSizeMismatch is returned when uploaded data does not match the buffer size.
	ErrSizeMismatch = errors.New("chart: data size does not match buffer size")

	// ErrInvalidLimits is returned when an axis maximum is not above its minimum.
	ErrInvalidLimits = errors.New("chart: invalid axis limits")

	// ErrInvalidMargins is returned for negative margins or tick sizes.
	ErrInvalidMargins = errors.New("chart: invalid margins")

	// ErrInvalidDimensions is returned when a width or height is not positive.
	ErrInvalidDimensions = errors.New("chart: invalid dimensions")

	// ErrUnsupportedFormat is returned when a Target cannot read back the
	// context's texture format.
	ErrUnsupportedFormat = errors.New("chart: unsupported target format")

	// ErrGPUTimeout is returned when submitted work does not complete in time.
	ErrGPUTimeout = errors.New("chart: timed out waiting for the GPU")

	// ErrDestroyed is returned when a destroyed object is used.
	ErrDestroyed = errors.New("chart: object has been destroyed")
)

// TypeError reports an element type that a chart cannot store.
type TypeError struct {
	// Op is the operation that rejected the type, e.g. "NewHistogram".
	Op string

	// Arg is the 1-based position of the offending argument.
	Arg int

	// Type is the rejected type code.
	Type DataType
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("chart: %s: argument %d: unsupported data type %s", e.Op, e.Arg, e.Type)
}

// Is reports whether target is ErrUnsupportedType.
func (e *TypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}
