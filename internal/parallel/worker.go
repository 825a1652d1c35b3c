package parallel

import (
	"github.com/gogpu/sobel/internal/filter"
	"github.com/gogpu/sobel/internal/image"
)

// Kernel is the per-run convolution setup shared read-only by all workers.
type Kernel struct {
	Operator filter.Operator
	Channel  filter.Channel
}

// WorkerStats summarizes what one worker did.
type WorkerStats struct {
	ID     int
	Rows   int
	Pixels int
}

// Convolve runs worker id: for every row the partition assigns to it, it
// computes the interior columns with k and writes the row through sink.
//
// src is only read. The scratch row is local to the call, so the sink is the
// only shared mutable state a worker touches.
func Convolve(id int, src *image.ImageBuf, p RowPartitioner, sink RowSink, k Kernel) WorkerStats {
	stats := WorkerStats{ID: id}

	w := src.Width()
	if w < 3 {
		// No interior columns; border pixels stay zero.
		return stats
	}

	span := make([]uint8, w-2)
	for row := range p.Rows(id) {
		filter.ConvolveRow(src, row, k.Channel, k.Operator, span)
		sink.PutRow(row, span)
		stats.Rows++
		stats.Pixels += len(span)
	}
	return stats
}
