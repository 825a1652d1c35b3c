package sobel

import (
	"errors"

	"github.com/gogpu/sobel/internal/parallel"
)

// Errors returned by Runner and Detect. Wrapped errors carry context; use
// errors.Is to classify them.
var (
	// ErrArgument is returned for invalid configuration, for example a
	// worker count below 1 or an empty path.
	ErrArgument = errors.New("sobel: invalid argument")

	// ErrDecode is returned when the input image cannot be read or decoded.
	ErrDecode = errors.New("sobel: decode input")

	// ErrSave is returned when the output image cannot be encoded or written.
	ErrSave = errors.New("sobel: save output")

	// ErrWorkerFailure is returned when a worker terminated abnormally.
	// The run is abandoned and nothing is saved. The wrapped error is a
	// *WorkerFailure.
	ErrWorkerFailure = errors.New("sobel: worker failure")

	// ErrInvalidState is returned when a Runner transition is called out of
	// order.
	ErrInvalidState = errors.New("sobel: invalid runner state")
)

// WorkerFailure describes the failed worker: its id, the recovered panic
// value and the goroutine stack.
type WorkerFailure = parallel.WorkerFailure
