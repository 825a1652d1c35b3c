package sobel

import (
	"fmt"

	"github.com/gogpu/sobel/internal/filter"
	"github.com/gogpu/sobel/internal/parallel"
)

// Discipline selects how workers synchronize writes to the output image.
type Discipline = parallel.Discipline

// Output disciplines.
const (
	// DisciplineDisjoint splits the output into per-worker stripes of owned
	// rows. No locking. This is the default.
	DisciplineDisjoint = parallel.DisciplineDisjoint

	// DisciplineLocked shares the output behind a single mutex.
	DisciplineLocked = parallel.DisciplineLocked
)

// LockGranularity controls how often DisciplineLocked takes its lock.
type LockGranularity = parallel.LockGranularity

// Lock granularities.
const (
	// LockRow takes the lock once per output row. Default.
	LockRow = parallel.LockRow

	// LockPixel takes the lock once per output pixel.
	LockPixel = parallel.LockPixel
)

// Channel is the input channel the gradient is computed on.
type Channel = filter.Channel

// Input channels.
const (
	ChannelRed   = filter.ChannelRed
	ChannelGreen = filter.ChannelGreen
	ChannelBlue  = filter.ChannelBlue
)

// Operator is a pair of 3x3 gradient kernels.
type Operator = filter.Operator

// Kernel3 is a 3x3 integer kernel indexed [dy+1][dx+1].
type Kernel3 = filter.Kernel3

// Sobel is the default operator.
var Sobel = filter.Sobel

// WorkerStats reports what one worker processed.
type WorkerStats = parallel.WorkerStats

// ParseDiscipline parses "disjoint" or "locked". Errors wrap ErrArgument.
func ParseDiscipline(s string) (Discipline, error) {
	d, err := parallel.ParseDiscipline(s)
	if err != nil {
		return d, fmt.Errorf("%w: %w", ErrArgument, err)
	}
	return d, nil
}

// ParseLockGranularity parses "row" or "pixel". Errors wrap ErrArgument.
func ParseLockGranularity(s string) (LockGranularity, error) {
	g, err := parallel.ParseLockGranularity(s)
	if err != nil {
		return g, fmt.Errorf("%w: %w", ErrArgument, err)
	}
	return g, nil
}

// ParseChannel parses "r", "g" or "b" (or the full color name). Errors wrap
// ErrArgument.
func ParseChannel(s string) (Channel, error) {
	c, err := filter.ParseChannel(s)
	if err != nil {
		return c, fmt.Errorf("%w: %w", ErrArgument, err)
	}
	return c, nil
}
