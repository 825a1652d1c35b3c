package parallel

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gogpu/sobel/internal/image"
)

// ErrForeignRow is the panic value (wrapped) raised when a sink is asked to
// write a row it must not touch: a border row, a row outside the image, or a
// row owned by another worker.
var ErrForeignRow = errors.New("parallel: write to a row not owned by this sink")

// RowSink receives finished output rows.
type RowSink interface {
	// PutRow writes span into the interior columns 1..W-2 of row.
	// len(span) must be W-2.
	PutRow(row int, span []uint8)
}

// Store hands each worker the sink it writes through.
type Store interface {
	Sink(id int) RowSink
}

// Discipline selects how workers synchronize writes to the output buffer.
type Discipline int

const (
	// DisciplineDisjoint gives every worker its own stripe of row views.
	// No locking; safety comes from the disjointness check in Split.
	DisciplineDisjoint Discipline = iota

	// DisciplineLocked shares one buffer guarded by a single mutex.
	DisciplineLocked
)

// String returns the name used on the command line.
func (d Discipline) String() string {
	switch d {
	case DisciplineDisjoint:
		return "disjoint"
	case DisciplineLocked:
		return "locked"
	default:
		return fmt.Sprintf("Discipline(%d)", int(d))
	}
}

// ParseDiscipline parses "disjoint" or "locked".
func ParseDiscipline(s string) (Discipline, error) {
	switch strings.ToLower(s) {
	case "disjoint":
		return DisciplineDisjoint, nil
	case "locked":
		return DisciplineLocked, nil
	default:
		return 0, fmt.Errorf("parallel: unknown discipline %q (want disjoint or locked)", s)
	}
}

// LockGranularity controls how much work LockedStore does per lock hold.
type LockGranularity int

const (
	// LockRow acquires the lock once per output row.
	LockRow LockGranularity = iota

	// LockPixel acquires the lock once per output pixel. Every write
	// serializes against every other; useful as a contention baseline.
	LockPixel
)

// String returns the name used on the command line.
func (g LockGranularity) String() string {
	switch g {
	case LockRow:
		return "row"
	case LockPixel:
		return "pixel"
	default:
		return fmt.Sprintf("LockGranularity(%d)", int(g))
	}
}

// ParseLockGranularity parses "row" or "pixel".
func ParseLockGranularity(s string) (LockGranularity, error) {
	switch strings.ToLower(s) {
	case "row":
		return LockRow, nil
	case "pixel":
		return LockPixel, nil
	default:
		return 0, fmt.Errorf("parallel: unknown lock granularity %q (want row or pixel)", s)
	}
}

// LockedStore is an output buffer shared by all workers behind one mutex.
//
// Thread safety: PutRow is safe for concurrent use. It does not depend on the
// partition being disjoint.
type LockedStore struct {
	mu          sync.Mutex
	buf         *image.ImageBuf
	granularity LockGranularity

	acquisitions atomic.Int64
}

// NewLockedStore wraps a Gray8 buffer.
func NewLockedStore(buf *image.ImageBuf, granularity LockGranularity) (*LockedStore, error) {
	if buf.Format() != image.FormatGray8 {
		return nil, fmt.Errorf("parallel: output must be %v, got %v", image.FormatGray8, buf.Format())
	}
	return &LockedStore{buf: buf, granularity: granularity}, nil
}

// Sink returns the store itself; every worker shares it.
func (s *LockedStore) Sink(int) RowSink { return s }

// PutRow implements RowSink.
func (s *LockedStore) PutRow(row int, span []uint8) {
	w, h := s.buf.Bounds()
	if row < 1 || row > h-2 {
		panic(fmt.Errorf("%w: row %d of %d", ErrForeignRow, row, h))
	}
	if len(span) != w-2 {
		panic(fmt.Errorf("parallel: span length %d, want %d", len(span), w-2))
	}

	if s.granularity == LockPixel {
		for i, v := range span {
			s.mu.Lock()
			s.buf.RowBytes(row)[i+1] = v
			s.mu.Unlock()
		}
		s.acquisitions.Add(int64(len(span)))
		return
	}

	s.mu.Lock()
	copy(s.buf.RowBytes(row)[1:w-1], span)
	s.mu.Unlock()
	s.acquisitions.Add(1)
}

// Acquisitions returns how many times the lock has been taken.
func (s *LockedStore) Acquisitions() int64 {
	return s.acquisitions.Load()
}

// Granularity returns the configured lock granularity.
func (s *LockedStore) Granularity() LockGranularity {
	return s.granularity
}

// NewStore builds the output store for the given discipline.
// The granularity is ignored by DisciplineDisjoint.
func NewStore(d Discipline, out *image.ImageBuf, p RowPartitioner, g LockGranularity) (Store, error) {
	switch d {
	case DisciplineDisjoint:
		return Split(out, p)
	case DisciplineLocked:
		return NewLockedStore(out, g)
	default:
		return nil, fmt.Errorf("parallel: unknown discipline %v", d)
	}
}
