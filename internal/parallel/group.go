package parallel

import (
	"errors"
	"fmt"

	"github.com/sourcegraph/conc"
)

// ErrWorkerFailure is wrapped by every *WorkerFailure.
var ErrWorkerFailure = errors.New("parallel: worker failed")

// WorkerFailure reports a worker goroutine that terminated abnormally.
type WorkerFailure struct {
	// ID is the failing worker id.
	ID int

	// Value is the recovered panic value.
	Value any

	// Stack is the goroutine stack captured at recovery.
	Stack []byte
}

// Error implements error.
func (f *WorkerFailure) Error() string {
	return fmt.Sprintf("parallel: worker %d failed: %v", f.ID, f.Value)
}

// Unwrap exposes ErrWorkerFailure and, when the panic value is an error,
// the value itself.
func (f *WorkerFailure) Unwrap() []error {
	if err, ok := f.Value.(error); ok {
		return []error{ErrWorkerFailure, err}
	}
	return []error{ErrWorkerFailure}
}

// workerPanic tags a panic value with the worker id before it reaches the
// group's recovery.
type workerPanic struct {
	id    int
	value any
}

// Run starts exactly workers goroutines, calling fn with ids 0..workers-1,
// and blocks until all of them return.
//
// There is no pooling, stealing or cancellation: each goroutine runs its
// call to completion. If any worker panics, Run still waits for the others
// and then returns a *WorkerFailure for the first panic observed.
func Run(workers int, fn func(id int)) error {
	if workers < 1 {
		return fmt.Errorf("%w: got %d", ErrNoWorkers, workers)
	}

	var wg conc.WaitGroup
	for id := range workers {
		wg.Go(func() {
			defer func() {
				if r := recover(); r != nil {
					panic(workerPanic{id: id, value: r})
				}
			}()
			fn(id)
		})
	}

	recovered := wg.WaitAndRecover()
	if recovered == nil {
		return nil
	}

	failure := &WorkerFailure{ID: -1, Value: recovered.Value, Stack: recovered.Stack}
	if wp, ok := recovered.Value.(workerPanic); ok {
		failure.ID = wp.id
		failure.Value = wp.value
	}
	return failure
}
