// Package telemetry exposes pipeline activity as Prometheus metrics.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pixbench"

// Pool names used as label values.
const (
	PoolIO  = "io"
	PoolCPU = "cpu"
)

// Recorder holds the metric instances fed by the pipeline runner.
// A nil *Recorder accepts every call and records nothing.
type Recorder struct {
	Items         *prometheus.CounterVec
	ItemDuration  *prometheus.HistogramVec
	Runs          *prometheus.CounterVec
	RunDuration   *prometheus.HistogramVec
	ActiveWorkers *prometheus.GaugeVec
	Speedup       *prometheus.GaugeVec
	Efficiency    *prometheus.GaugeVec
}

// NewRecorder registers the pipeline metrics with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		Items: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "items_total",
				Help:      "Items handled by each pool, by outcome",
			},
			[]string{"pool", "outcome"},
		),

		ItemDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "item_duration_seconds",
				Help:      "Time spent on a single item",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			[]string{"pool"},
		),

		Runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "runs_total",
				Help:      "Completed pipeline runs",
			},
			[]string{"mode"},
		),

		RunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "run_duration_seconds",
				Help:      "Wall time of a pipeline run",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"mode"},
		),

		ActiveWorkers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "pool",
				Name:      "active_workers",
				Help:      "Workers currently running",
			},
			[]string{"pool"},
		),

		Speedup: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "benchmark",
				Name:      "speedup",
				Help:      "Speedup of a configuration over the serial baseline",
			},
			[]string{"config"},
		),

		Efficiency: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "benchmark",
				Name:      "efficiency_percent",
				Help:      "Speedup per process as a percentage",
			},
			[]string{"config"},
		),
	}
}

// ItemDone records one item finishing in pool.
func (r *Recorder) ItemDone(pool string, ok bool, d time.Duration) {
	if r == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	r.Items.WithLabelValues(pool, outcome).Inc()
	r.ItemDuration.WithLabelValues(pool).Observe(d.Seconds())
}

// WorkerStarted and WorkerStopped track live workers per pool.
func (r *Recorder) WorkerStarted(pool string) {
	if r == nil {
		return
	}
	r.ActiveWorkers.WithLabelValues(pool).Inc()
}

func (r *Recorder) WorkerStopped(pool string) {
	if r == nil {
		return
	}
	r.ActiveWorkers.WithLabelValues(pool).Dec()
}

// RunDone records a finished run of the given mode.
func (r *Recorder) RunDone(mode string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.Runs.WithLabelValues(mode).Inc()
	r.RunDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

// Result publishes the derived figures of a configuration.
func (r *Recorder) Result(config string, speedup, efficiency float64) {
	if r == nil {
		return
	}
	r.Speedup.WithLabelValues(config).Set(speedup)
	r.Efficiency.WithLabelValues(config).Set(efficiency)
}
