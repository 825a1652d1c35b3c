package sobel

import (
	"fmt"
	"time"
)

// Option configures a Runner or a Detect call.
//
// Example:
//
//	r, err := sobel.NewRunner(cfg,
//	    sobel.WithDiscipline(sobel.DisciplineLocked),
//	    sobel.WithChannel(sobel.ChannelGreen),
//	)
type Option func(*options)

// MetricsSink receives run measurements. *metrics.Recorder implements it.
type MetricsSink interface {
	ObserveWorker(id, rows, pixels int)
	ObservePhase(phase string, d time.Duration)
	ObserveRun(discipline string, workers int, err error)
	AddLockAcquisitions(n int64)
}

type options struct {
	discipline  Discipline
	granularity LockGranularity
	channel     Channel
	operator    Operator
	codec       Codec
	metrics     MetricsSink
	clock       func() time.Time
}

func defaultOptions() options {
	return options{
		discipline:  DisciplineDisjoint,
		granularity: LockRow,
		channel:     ChannelRed,
		operator:    Sobel,
		codec:       FileCodec{},
		metrics:     nopMetrics{},
		clock:       time.Now,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDiscipline selects the output discipline. Default DisciplineDisjoint.
func WithDiscipline(d Discipline) Option {
	return func(o *options) {
		o.discipline = d
	}
}

// WithLockGranularity sets how often DisciplineLocked takes its lock.
// Ignored by DisciplineDisjoint. Default LockRow.
func WithLockGranularity(g LockGranularity) Option {
	return func(o *options) {
		o.granularity = g
	}
}

// WithChannel selects the input channel the gradient is computed on.
// Default ChannelRed: the edge map reflects only the red channel, not
// luminance.
func WithChannel(c Channel) Option {
	return func(o *options) {
		o.channel = c
	}
}

// WithOperator replaces the gradient kernels. Default Sobel.
func WithOperator(op Operator) Option {
	return func(o *options) {
		o.operator = op
	}
}

// WithCodec replaces the image reader and writer. A nil codec is ignored.
func WithCodec(c Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithMetrics reports run measurements to m. A nil sink is ignored.
func WithMetrics(m MetricsSink) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithClock replaces time.Now for elapsed-time measurement.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

func (o *options) validate() error {
	switch o.discipline {
	case DisciplineDisjoint, DisciplineLocked:
	default:
		return fmt.Errorf("%w: unknown discipline %v", ErrArgument, o.discipline)
	}
	switch o.granularity {
	case LockRow, LockPixel:
	default:
		return fmt.Errorf("%w: unknown lock granularity %v", ErrArgument, o.granularity)
	}
	if !o.channel.Valid() {
		return fmt.Errorf("%w: unknown channel %v", ErrArgument, o.channel)
	}
	return nil
}

type nopMetrics struct{}

func (nopMetrics) ObserveWorker(int, int, int)        {}
func (nopMetrics) ObservePhase(string, time.Duration) {}
func (nopMetrics) ObserveRun(string, int, error)      {}
func (nopMetrics) AddLockAcquisitions(int64)          {}
