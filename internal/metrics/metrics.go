// Package metrics records per-run counters for the edge detector and can
// export them in the Prometheus text format, for example to a node_exporter
// textfile collector directory.
//
// A nil *Recorder is valid and records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sobel"

// Phase names used with ObservePhase.
const (
	PhaseLoad     = "load"
	PhaseConvolve = "convolve"
	PhaseSave     = "save"
)

// Recorder owns a private registry with the run metrics.
type Recorder struct {
	reg *prometheus.Registry

	runs             *prometheus.CounterVec
	rows             *prometheus.CounterVec
	pixels           prometheus.Counter
	lockAcquisitions prometheus.Counter
	phase            *prometheus.HistogramVec
	workers          prometheus.Gauge
}

// New creates a Recorder with all metrics registered.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Edge detection runs by discipline and outcome.",
		}, []string{"discipline", "outcome"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_processed_total",
			Help:      "Interior rows convolved, by worker id.",
		}, []string{"worker"}),
		pixels: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pixels_processed_total",
			Help:      "Interior pixels convolved.",
		}),
		lockAcquisitions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lock_acquisitions_total",
			Help:      "Output buffer lock acquisitions under the locked discipline.",
		}),
		phase: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Wall time of each run phase.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"phase"}),
		workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers",
			Help:      "Worker goroutines used by the last run.",
		}),
	}

	r.reg.MustRegister(r.runs, r.rows, r.pixels, r.lockAcquisitions, r.phase, r.workers)
	return r
}

// ObserveWorker adds one worker's row and pixel counts.
func (r *Recorder) ObserveWorker(id, rows, pixels int) {
	if r == nil {
		return
	}
	r.rows.WithLabelValues(strconv.Itoa(id)).Add(float64(rows))
	r.pixels.Add(float64(pixels))
}

// ObservePhase records the duration of a run phase.
func (r *Recorder) ObservePhase(phase string, d time.Duration) {
	if r == nil {
		return
	}
	r.phase.WithLabelValues(phase).Observe(d.Seconds())
}

// ObserveRun counts a finished run.
func (r *Recorder) ObserveRun(discipline string, workers int, err error) {
	if r == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	r.runs.WithLabelValues(discipline, outcome).Inc()
	r.workers.Set(float64(workers))
}

// AddLockAcquisitions adds n lock acquisitions.
func (r *Recorder) AddLockAcquisitions(n int64) {
	if r == nil {
		return
	}
	r.lockAcquisitions.Add(float64(n))
}

// Gatherer exposes the registry, e.g. for promhttp or tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.Gatherers{}
	}
	return r.reg
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
// The file is written atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.reg)
}
