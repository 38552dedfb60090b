package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeBusy      = "busy"
)

// Recorder receives measurements from the assignment service.
type Recorder interface {
	RecordRecompute(trigger, outcome string, duration time.Duration)
	RecordSolve(size int, duration time.Duration)
	RecordAssigned(assigned int)
	RecordLockWait(duration time.Duration)
}

// Nop discards everything.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) RecordRecompute(string, string, time.Duration) {}
func (Nop) RecordSolve(int, time.Duration)                {}
func (Nop) RecordAssigned(int)                            {}
func (Nop) RecordLockWait(time.Duration)                  {}

// Prometheus implements Recorder with Prometheus collectors.
type Prometheus struct {
	recomputes   *prometheus.CounterVec
	recomputeDur *prometheus.HistogramVec
	solveDur     prometheus.Histogram
	matrixSize   prometheus.Gauge
	assigned     prometheus.Gauge
	lockWait     prometheus.Histogram
}

var _ Recorder = (*Prometheus)(nil)

// NewPrometheus creates the collectors and registers them on reg
// (prometheus.DefaultRegisterer when nil).
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "projsel"
	}

	p := &Prometheus{
		recomputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assignment",
			Name:      "recomputes_total",
			Help:      "Assignment recomputes by trigger and outcome.",
		}, []string{"trigger", "outcome"}),
		recomputeDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "assignment",
			Name:      "recompute_duration_seconds",
			Help:      "Wall time of a recompute including locking and persistence.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"trigger"}),
		solveDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "assignment",
			Name:      "solve_duration_seconds",
			Help:      "Time spent building and solving the cost matrix.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		matrixSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "assignment",
			Name:      "matrix_size",
			Help:      "Dimension of the last solved cost matrix.",
		}),
		assigned: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "assignment",
			Name:      "assigned_projects",
			Help:      "Projects with an assignee after the last successful recompute.",
		}),
		lockWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "assignment",
			Name:      "lock_wait_seconds",
			Help:      "Time spent waiting for the recompute lock.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}),
	}

	reg.MustRegister(p.recomputes, p.recomputeDur, p.solveDur, p.matrixSize, p.assigned, p.lockWait)
	return p
}

func (p *Prometheus) RecordRecompute(trigger, outcome string, duration time.Duration) {
	p.recomputes.WithLabelValues(trigger, outcome).Inc()
	p.recomputeDur.WithLabelValues(trigger).Observe(duration.Seconds())
}

func (p *Prometheus) RecordSolve(size int, duration time.Duration) {
	p.matrixSize.Set(float64(size))
	p.solveDur.Observe(duration.Seconds())
}

func (p *Prometheus) RecordAssigned(assigned int) {
	p.assigned.Set(float64(assigned))
}

func (p *Prometheus) RecordLockWait(duration time.Duration) {
	p.lockWait.Observe(duration.Seconds())
}

// NewRegistry returns a registry preloaded with the Go runtime and process
// collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
