package parallel

import (
	"errors"
	"fmt"
	"iter"
)

// ErrNoWorkers is returned when a worker count below one is requested.
var ErrNoWorkers = errors.New("parallel: worker count must be at least 1")

// RowPartitioner assigns interior output rows to worker ids.
//
// Split relies on the sequences being strictly increasing and pairwise
// disjoint; it verifies both before handing out any buffer views.
type RowPartitioner interface {
	// Workers returns the number of worker ids, 0..Workers()-1.
	Workers() int

	// Rows yields the rows owned by worker id in increasing order.
	Rows(id int) iter.Seq[int]
}

// Partition is the row-striped assignment of interior rows to workers:
// worker id owns rows id+1, id+1+T, id+1+2T, ... up to H-2.
//
// For every T >= 1 the union of all workers' rows is exactly {1..H-2} with
// no row repeated.
type Partition struct {
	height  int
	workers int
}

// NewPartition returns the striped partition of an image of the given height
// over the given number of workers.
func NewPartition(height, workers int) (Partition, error) {
	p := Partition{height: height, workers: workers}
	if err := p.Validate(); err != nil {
		return Partition{}, err
	}
	return p, nil
}

// Validate reports whether the partition parameters are usable.
func (p Partition) Validate() error {
	if p.workers < 1 {
		return fmt.Errorf("%w: got %d", ErrNoWorkers, p.workers)
	}
	if p.height < 0 {
		return fmt.Errorf("parallel: negative height %d", p.height)
	}
	return nil
}

// Height returns the image height the partition was built for.
func (p Partition) Height() int { return p.height }

// Workers returns the number of workers T.
func (p Partition) Workers() int { return p.workers }

// InteriorRows returns H-2, or 0 for images with no interior.
func (p Partition) InteriorRows() int {
	return max(p.height-2, 0)
}

// Rows yields the rows owned by worker id. The sequence is empty when
// id+1 > H-2 or id is not a valid worker id.
func (p Partition) Rows(id int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if id < 0 || id >= p.workers {
			return
		}
		for row := id + 1; row <= p.height-2; row += p.workers {
			if !yield(row) {
				return
			}
		}
	}
}

// Count returns the number of rows owned by worker id.
func (p Partition) Count(id int) int {
	first := id + 1
	last := p.height - 2
	if id < 0 || id >= p.workers || first > last {
		return 0
	}
	return (last-first)/p.workers + 1
}

// Owner returns the worker id owning row, or -1 for border and
// out-of-range rows.
func (p Partition) Owner(row int) int {
	if p.workers < 1 || row < 1 || row > p.height-2 {
		return -1
	}
	return (row - 1) % p.workers
}

// String implements fmt.Stringer.
func (p Partition) String() string {
	return fmt.Sprintf("Partition(H=%d, T=%d)", p.height, p.workers)
}
