package sobel

import (
	"fmt"
	"image"

	intImage "github.com/gogpu/sobel/internal/image"
)

// scratch recycles Detect's internal output buffers; the caller receives a
// copy.
var scratch = intImage.NewPool(4)

// Detect computes the edge map of src with the given number of workers.
// It runs the same engine as Runner without touching the filesystem; the
// codec option is ignored.
//
// Border pixels of the result are always 0. Errors wrap ErrArgument or
// ErrWorkerFailure.
func Detect(src image.Image, workers int, opts ...Option) (*image.Gray, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil image", ErrArgument)
	}
	if err := checkWorkers(workers); err != nil {
		return nil, err
	}
	o := applyOptions(opts)
	if err := o.validate(); err != nil {
		return nil, err
	}

	in := intImage.FromStdImage(src)
	if in.IsEmpty() {
		return nil, fmt.Errorf("%w: image has no pixels", ErrArgument)
	}
	out, err := scratch.Get(in.Width(), in.Height(), intImage.FormatGray8)
	if err != nil {
		return nil, fmt.Errorf("sobel: allocate output: %w", err)
	}
	defer scratch.Put(out)

	_, err = convolve(in, out, workers, &o, Logger())
	o.metrics.ObserveRun(o.discipline.String(), workers, err)
	if err != nil {
		return nil, err
	}
	return out.ToStdImage().(*image.Gray), nil
}
