package sobel

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/oklog/ulid/v2"

	intImage "github.com/gogpu/sobel/internal/image"
	"github.com/gogpu/sobel/internal/metrics"
	"github.com/gogpu/sobel/internal/parallel"
)

// State is a Runner lifecycle stage.
type State int

// Runner states, in order. StateFailed is terminal and reachable from every
// transition.
const (
	StateConfigured State = iota
	StateInputLoaded
	StateRunning
	StateJoined
	StateSaved
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateConfigured:
		return "configured"
	case StateInputLoaded:
		return "input-loaded"
	case StateRunning:
		return "running"
	case StateJoined:
		return "joined"
	case StateSaved:
		return "saved"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Config holds the three required run inputs.
type Config struct {
	// InputPath is the image to read.
	InputPath string

	// OutputPath is where the edge map is written. The extension picks the
	// encoding with FileCodec.
	OutputPath string

	// Workers is the number of worker goroutines, 1..MaxWorkers.
	Workers int
}

// MaxWorkers bounds the worker count of a single run. Every worker is a
// goroutine with its own stats slot, so an unbounded count would exhaust
// memory long before it helped throughput.
const MaxWorkers = 1 << 12

func checkWorkers(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: worker count must be at least 1, got %d", ErrArgument, n)
	}
	if n > MaxWorkers {
		return fmt.Errorf("%w: worker count must be at most %d, got %d", ErrArgument, MaxWorkers, n)
	}
	return nil
}

// Validate reports a configuration error wrapping ErrArgument.
func (c Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("%w: input path is empty", ErrArgument)
	}
	if c.OutputPath == "" {
		return fmt.Errorf("%w: output path is empty", ErrArgument)
	}
	return checkWorkers(c.Workers)
}

// Result summarizes a completed run.
type Result struct {
	RunID      string
	Width      int
	Height     int
	Workers    int
	Discipline Discipline

	// Elapsed is the wall time of the parallel phase, spawn to join.
	Elapsed time.Duration

	// Checksum is the xxhash64 of the output pixels, row by row.
	Checksum uint64

	// Stats holds one entry per worker, indexed by worker id.
	Stats []WorkerStats
}

// Runner drives one edge-detection run through its states:
//
//	Configured -> InputLoaded -> Running -> Joined -> Saved
//
// Any failed transition moves the Runner to StateFailed. Calling a
// transition out of order returns ErrInvalidState.
//
// A Runner is single-use and not safe for concurrent use.
type Runner struct {
	cfg   Config
	opts  options
	runID ulid.ULID
	log   *slog.Logger

	state   State
	src     *intImage.ImageBuf
	out     *intImage.ImageBuf
	stats   []WorkerStats
	elapsed time.Duration
}

// NewRunner validates cfg and the options and returns a Runner in
// StateConfigured.
func NewRunner(cfg Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := applyOptions(opts)
	if err := o.validate(); err != nil {
		return nil, err
	}

	id := ulid.Make()
	return &Runner{
		cfg:   cfg,
		opts:  o,
		runID: id,
		log:   Logger().With("run_id", id.String()),
		state: StateConfigured,
	}, nil
}

// State returns the current state.
func (r *Runner) State() State { return r.state }

// RunID returns the ULID identifying this run in logs and results.
func (r *Runner) RunID() string { return r.runID.String() }

// Load decodes the input, converts it to RGB and allocates the zeroed
// output.
func (r *Runner) Load() error {
	if err := r.expect(StateConfigured, "Load"); err != nil {
		return err
	}
	start := r.opts.clock()

	img, err := r.opts.codec.Decode(r.cfg.InputPath)
	if err != nil {
		return r.fail(fmt.Errorf("%w: %s: %w", ErrDecode, r.cfg.InputPath, err))
	}
	src := intImage.FromStdImage(img)
	if src.IsEmpty() {
		return r.fail(fmt.Errorf("%w: %s: image has no pixels", ErrDecode, r.cfg.InputPath))
	}
	out, err := intImage.NewImageBuf(src.Width(), src.Height(), intImage.FormatGray8)
	if err != nil {
		return r.fail(fmt.Errorf("%w: allocate output: %w", ErrDecode, err))
	}

	r.src, r.out = src, out
	r.state = StateInputLoaded
	r.opts.metrics.ObservePhase(metrics.PhaseLoad, r.opts.clock().Sub(start))
	r.log.Info("input loaded", "path", r.cfg.InputPath, "width", src.Width(), "height", src.Height())
	return nil
}

// Process runs exactly cfg.Workers workers over the input and waits for all
// of them. ctx is checked once, before any worker starts; the parallel
// phase itself is not interruptible.
//
// If any worker fails the Runner moves to StateFailed and the error wraps
// ErrWorkerFailure and a *WorkerFailure.
func (r *Runner) Process(ctx context.Context) error {
	if err := r.expect(StateInputLoaded, "Process"); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return r.fail(fmt.Errorf("sobel: run not started: %w", err))
	}

	r.state = StateRunning
	start := r.opts.clock()
	stats, err := convolve(r.src, r.out, r.cfg.Workers, &r.opts, r.log)
	r.elapsed = r.opts.clock().Sub(start)
	if err != nil {
		return r.fail(err)
	}

	r.stats = stats
	r.state = StateJoined
	r.opts.metrics.ObservePhase(metrics.PhaseConvolve, r.elapsed)
	r.log.Info("workers joined", "workers", r.cfg.Workers, "discipline", r.opts.discipline.String(), "elapsed", r.elapsed)
	return nil
}

// Save writes the output through the codec.
func (r *Runner) Save() error {
	if err := r.expect(StateJoined, "Save"); err != nil {
		return err
	}
	start := r.opts.clock()

	if err := r.opts.codec.Encode(r.cfg.OutputPath, r.Output()); err != nil {
		return r.fail(fmt.Errorf("%w: %s: %w", ErrSave, r.cfg.OutputPath, err))
	}

	r.state = StateSaved
	r.opts.metrics.ObservePhase(metrics.PhaseSave, r.opts.clock().Sub(start))
	r.log.Info("output saved", "path", r.cfg.OutputPath)
	return nil
}

// Run performs Load, Process and Save.
func (r *Runner) Run(ctx context.Context) (res *Result, err error) {
	defer func() {
		r.opts.metrics.ObserveRun(r.opts.discipline.String(), r.cfg.Workers, err)
	}()

	if err = r.Load(); err != nil {
		return nil, err
	}
	if err = r.Process(ctx); err != nil {
		return nil, err
	}
	if err = r.Save(); err != nil {
		return nil, err
	}
	return r.Result()
}

// Result returns the run summary. It is available once workers have
// joined.
func (r *Runner) Result() (*Result, error) {
	if r.state != StateJoined && r.state != StateSaved {
		return nil, fmt.Errorf("%w: Result requires joined workers, runner is %s", ErrInvalidState, r.state)
	}
	return &Result{
		RunID:      r.runID.String(),
		Width:      r.out.Width(),
		Height:     r.out.Height(),
		Workers:    r.cfg.Workers,
		Discipline: r.opts.discipline,
		Elapsed:    r.elapsed,
		Checksum:   checksum(r.out),
		Stats:      r.stats,
	}, nil
}

// Output returns a copy of the edge map, or nil before workers have joined.
func (r *Runner) Output() *image.Gray {
	if r.state != StateJoined && r.state != StateSaved {
		return nil
	}
	return r.out.ToStdImage().(*image.Gray)
}

func (r *Runner) expect(want State, op string) error {
	if r.state != want {
		return fmt.Errorf("%w: %s requires %s, runner is %s", ErrInvalidState, op, want, r.state)
	}
	return nil
}

func (r *Runner) fail(err error) error {
	r.state = StateFailed
	r.out = nil
	r.log.Debug("run failed", "err", err)
	return err
}

// convolve fills out from src with the given number of workers.
func convolve(src, out *intImage.ImageBuf, workers int, o *options, log *slog.Logger) ([]WorkerStats, error) {
	p, err := parallel.NewPartition(src.Height(), workers)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArgument, err)
	}
	store, err := parallel.NewStore(o.discipline, out, p, o.granularity)
	if err != nil {
		return nil, fmt.Errorf("sobel: prepare output: %w", err)
	}
	log.Debug("partition ready", "partition", p.String(), "discipline", o.discipline.String(),
		"channel", o.channel.String(), "operator", o.operator.Name)

	k := parallel.Kernel{Operator: o.operator, Channel: o.channel}
	stats := make([]WorkerStats, workers)
	err = parallel.Run(workers, func(id int) {
		stats[id] = parallel.Convolve(id, src, p, store.Sink(id), k)
	})
	if ls, ok := store.(*parallel.LockedStore); ok {
		o.metrics.AddLockAcquisitions(ls.Acquisitions())
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWorkerFailure, err)
	}

	for _, s := range stats {
		o.metrics.ObserveWorker(s.ID, s.Rows, s.Pixels)
		log.Debug("worker finished", "worker", s.ID, "rows", s.Rows, "pixels", s.Pixels)
	}
	return stats, nil
}

func checksum(b *intImage.ImageBuf) uint64 {
	d := xxhash.New()
	for y := range b.Height() {
		_, _ = d.Write(b.RowBytes(y))
	}
	return d.Sum64()
}
