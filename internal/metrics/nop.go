package metrics

import "github.com/arloliu/allot/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
//
// Example:
//
//	planner, err := allot.NewPlanner(cfg, src, allot.WithMetrics(metrics.NewNop()))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// PlannerMetrics implementation

// RecordRunDuration discards the run duration metric.
func (n *NopMetrics) RecordRunDuration(_ /* strategy */ string, _ /* duration */ float64) {
	// No-op
}

// RecordRunAttempt discards the run attempt metric.
func (n *NopMetrics) RecordRunAttempt(_ /* strategy */ string, _ /* success */ bool) {
	// No-op
}

// StrategyMetrics implementation

// RecordAssignments discards the assignment count metric.
func (n *NopMetrics) RecordAssignments(_ /* strategy */ string, _ /* count */, _ /* fallback */ int) {
	// No-op
}

// RecordUnassignedTasks discards the unassigned task gauge.
func (n *NopMetrics) RecordUnassignedTasks(_ /* strategy */ string, _ /* count */ int) {
	// No-op
}

// RecordBestFitness discards the best fitness gauge.
func (n *NopMetrics) RecordBestFitness(_ /* strategy */ string, _ /* fitness */ float64) {
	// No-op
}

// PublisherMetrics implementation

// RecordPublishDuration discards the publish latency metric.
func (n *NopMetrics) RecordPublishDuration(_ /* duration */ float64, _ /* success */ bool) {
	// No-op
}
