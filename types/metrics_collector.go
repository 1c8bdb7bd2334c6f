package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// All methods must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	PlannerMetrics
	StrategyMetrics
	PublisherMetrics
}

// PlannerMetrics defines metrics for planner runs.
type PlannerMetrics interface {
	// RecordRunDuration records the time taken for an allocation run.
	//
	// Parameters:
	//   - strategy: Strategy name
	//   - duration: Time taken in seconds
	RecordRunDuration(strategy string, duration float64)

	// RecordRunAttempt records a run attempt (success or failure).
	//
	// Parameters:
	//   - strategy: Strategy name
	//   - success: true if the run produced a result
	RecordRunAttempt(strategy string, success bool)
}

// StrategyMetrics defines metrics describing an allocation result.
type StrategyMetrics interface {
	// RecordAssignments records the number of assignments and the assigned effort.
	//
	// Parameters:
	//   - strategy: Strategy name
	//   - count: Number of assignments (fallback included)
	//   - fallback: Number of fallback assignments
	RecordAssignments(strategy string, count, fallback int)

	// RecordUnassignedTasks sets the number of tasks left with warnings (gauge metric).
	RecordUnassignedTasks(strategy string, count int)

	// RecordBestFitness sets the best fitness of the latest genetic run (gauge metric).
	RecordBestFitness(strategy string, fitness float64)
}

// PublisherMetrics defines metrics for result publishing.
type PublisherMetrics interface {
	// RecordPublishDuration records NATS KV publish latency.
	//
	// Parameters:
	//   - duration: Time taken in seconds
	//   - success: true if the publish succeeded
	RecordPublishDuration(duration float64, success bool)
}
