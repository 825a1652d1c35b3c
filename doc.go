// Package sobel computes Sobel edge maps of images in parallel.
//
// # Quick Start
//
//	r, err := sobel.NewRunner(sobel.Config{
//	    InputPath:  "photo.png",
//	    OutputPath: "edges.png",
//	    Workers:    8,
//	})
//	if err != nil {
//	    return err
//	}
//	res, err := r.Run(ctx)
//
// For images already in memory use [Detect].
//
// # Partitioning
//
// Interior rows 1..H-2 are striped across T workers: row r belongs to worker
// (r-1) mod T. Every interior row is owned by exactly one worker, for any
// T >= 1. Border rows and columns are never written and stay 0.
//
// # Output disciplines
//
// Workers write their rows through one of two disciplines, selected with
// [WithDiscipline]. Both produce identical output.
//
//   - [DisciplineDisjoint] (default) splits the output once into per-worker
//     stripes of row views. A stripe rejects rows it does not own, and the
//     split itself fails if the partition is not disjoint and complete.
//   - [DisciplineLocked] shares the whole output behind one mutex, taken
//     once per row ([LockRow], default) or once per pixel ([LockPixel]).
//
// # Channel
//
// The gradient is computed on a single input channel, red by default, not
// on luminance. Use [WithChannel] to pick another one.
//
// # Magnitude
//
// Each interior pixel is round(sqrt(gx² + gy²)) clamped to 255, where gx and
// gy are the responses of the operator's X and Y kernels.
package sobel
