package parallel

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/sobel/internal/image"
)

// Partition verification errors returned by Split.
var (
	// ErrOverlappingStripes is returned when two workers would own the same row.
	ErrOverlappingStripes = errors.New("parallel: partition assigns a row to more than one worker")

	// ErrIncompletePartition is returned when some interior row has no owner.
	ErrIncompletePartition = errors.New("parallel: partition leaves interior rows unassigned")

	// ErrRowOutOfRange is returned when a partition yields a border or
	// out-of-image row.
	ErrRowOutOfRange = errors.New("parallel: partition yields a row outside the interior")

	// ErrUnorderedRows is returned when a worker's rows are not strictly increasing.
	ErrUnorderedRows = errors.New("parallel: partition rows are not strictly increasing")
)

// Stripe is the part of the output buffer owned by one worker: a set of
// row views that no other stripe shares.
//
// A Stripe is not safe for concurrent use; it belongs to exactly one worker.
type Stripe struct {
	id    int
	rows  []int
	views [][]byte
	next  int
}

// ID returns the worker id the stripe was built for.
func (s *Stripe) ID() int { return s.id }

// Rows returns the rows owned by the stripe, in increasing order.
func (s *Stripe) Rows() []int { return slices.Clone(s.rows) }

// Len returns the number of owned rows.
func (s *Stripe) Len() int { return len(s.rows) }

// PutRow implements RowSink. It panics with ErrForeignRow if row is not
// owned by this stripe.
func (s *Stripe) PutRow(row int, span []uint8) {
	k := s.index(row)
	if k < 0 {
		panic(fmt.Errorf("%w: worker %d does not own row %d", ErrForeignRow, s.id, row))
	}
	dst := s.views[k]
	if len(span) != len(dst)-2 {
		panic(fmt.Errorf("parallel: span length %d, want %d", len(span), len(dst)-2))
	}
	copy(dst[1:len(dst)-1], span)
	s.next = k + 1
}

// index locates row among the owned rows. Workers visit rows in order, so
// the cursor usually hits directly.
func (s *Stripe) index(row int) int {
	if s.next < len(s.rows) && s.rows[s.next] == row {
		return s.next
	}
	if k, ok := slices.BinarySearch(s.rows, row); ok {
		return k
	}
	return -1
}

// Stripes is the disjoint store: one Stripe per worker id.
type Stripes []*Stripe

// Sink returns the stripe of worker id.
func (s Stripes) Sink(id int) RowSink { return s[id] }

// Split divides a Gray8 output buffer into one Stripe per worker.
//
// Before creating any view it checks that p assigns every interior row
// 1..H-2 to exactly one worker and that each worker's rows are strictly
// increasing. Views are capacity-capped row slices, so a stripe cannot
// reach memory outside its own rows.
func Split(out *image.ImageBuf, p RowPartitioner) (Stripes, error) {
	if out.Format() != image.FormatGray8 {
		return nil, fmt.Errorf("parallel: output must be %v, got %v", image.FormatGray8, out.Format())
	}
	workers := p.Workers()
	if workers < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrNoWorkers, workers)
	}

	h := out.Height()
	owner := make([]int, h)
	for i := range owner {
		owner[i] = -1
	}

	stripes := make(Stripes, workers)
	for id := range workers {
		s := &Stripe{id: id}
		prev := 0
		for row := range p.Rows(id) {
			if row < 1 || row > h-2 {
				return nil, fmt.Errorf("%w: worker %d, row %d, height %d", ErrRowOutOfRange, id, row, h)
			}
			if row <= prev {
				return nil, fmt.Errorf("%w: worker %d, row %d after %d", ErrUnorderedRows, id, row, prev)
			}
			if o := owner[row]; o >= 0 {
				return nil, fmt.Errorf("%w: row %d claimed by workers %d and %d", ErrOverlappingStripes, row, o, id)
			}
			owner[row] = id
			prev = row
			s.rows = append(s.rows, row)
		}
		stripes[id] = s
	}

	for row := 1; row <= h-2; row++ {
		if owner[row] < 0 {
			return nil, fmt.Errorf("%w: row %d", ErrIncompletePartition, row)
		}
	}

	// Views are created only after the whole partition has been checked.
	for _, s := range stripes {
		s.views = make([][]byte, len(s.rows))
		for k, row := range s.rows {
			s.views[k] = out.RowBytes(row)
		}
	}

	return stripes, nil
}
