package metrics

import (
	"sync"

	"github.com/arloliu/allot/types"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use, so constructing a
// PrometheusCollector never fails even when nothing is recorded.
type PrometheusCollector struct {
	*NopMetrics

	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	runDuration     *prometheus.HistogramVec
	runAttempts     *prometheus.CounterVec
	assignments     *prometheus.CounterVec
	fallbacks       *prometheus.CounterVec
	unassigned      *prometheus.GaugeVec
	bestFitness     *prometheus.GaugeVec
	publishDuration *prometheus.HistogramVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "allot" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "allot"
	}

	return &PrometheusCollector{NopMetrics: NewNop(), reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.runDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "planner",
			Name:      "run_duration_seconds",
			Help:      "Duration of allocation runs in seconds by strategy.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms .. ~4.4min
		}, []string{"strategy"})

		p.runAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "planner",
			Name:      "runs_total",
			Help:      "Total allocation runs by strategy and result (success,failure).",
		}, []string{"strategy", "result"})

		p.assignments = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "strategy",
			Name:      "assignments_total",
			Help:      "Total assignments produced by strategy.",
		}, []string{"strategy"})

		p.fallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "strategy",
			Name:      "fallback_assignments_total",
			Help:      "Total assignments made by the fallback pass without an availability check.",
		}, []string{"strategy"})

		p.unassigned = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "strategy",
			Name:      "unassigned_tasks",
			Help:      "Tasks left with a no-candidate warning in the latest run.",
		}, []string{"strategy"})

		p.bestFitness = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "strategy",
			Name:      "best_fitness",
			Help:      "Best fitness of the latest genetic run.",
		}, []string{"strategy"})

		p.publishDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "publisher",
			Name:      "publish_duration_seconds",
			Help:      "Latency of result publishing to NATS KV in seconds by result.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		}, []string{"result"})

		p.reg.MustRegister(p.runDuration)
		p.reg.MustRegister(p.runAttempts)
		p.reg.MustRegister(p.assignments)
		p.reg.MustRegister(p.fallbacks)
		p.reg.MustRegister(p.unassigned)
		p.reg.MustRegister(p.bestFitness)
		p.reg.MustRegister(p.publishDuration)
	})
}

// PlannerMetrics implementation

// RecordRunDuration observes the duration of a run.
func (p *PrometheusCollector) RecordRunDuration(strategy string, duration float64) {
	p.ensureRegistered()
	p.runDuration.WithLabelValues(strategy).Observe(duration)
}

// RecordRunAttempt counts a run by outcome.
func (p *PrometheusCollector) RecordRunAttempt(strategy string, success bool) {
	p.ensureRegistered()
	p.runAttempts.WithLabelValues(strategy, resultLabel(success)).Inc()
}

// StrategyMetrics implementation

// RecordAssignments adds the assignments of a run.
func (p *PrometheusCollector) RecordAssignments(strategy string, count, fallback int) {
	p.ensureRegistered()
	p.assignments.WithLabelValues(strategy).Add(float64(count))
	p.fallbacks.WithLabelValues(strategy).Add(float64(fallback))
}

// RecordUnassignedTasks sets the unassigned task gauge.
func (p *PrometheusCollector) RecordUnassignedTasks(strategy string, count int) {
	p.ensureRegistered()
	p.unassigned.WithLabelValues(strategy).Set(float64(count))
}

// RecordBestFitness sets the best fitness gauge.
func (p *PrometheusCollector) RecordBestFitness(strategy string, fitness float64) {
	p.ensureRegistered()
	p.bestFitness.WithLabelValues(strategy).Set(fitness)
}

// PublisherMetrics implementation

// RecordPublishDuration observes publish latency.
func (p *PrometheusCollector) RecordPublishDuration(duration float64, success bool) {
	p.ensureRegistered()
	p.publishDuration.WithLabelValues(resultLabel(success)).Observe(duration)
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}

	return "failure"
}
