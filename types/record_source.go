package types

import "context"

// RecordSource provides the people and tasks to allocate.
//
// Implementations can query various backends:
//   - Static: fixed records for testing and embedding
//   - File: YAML plan documents
//   - Postgres: relational tables
//
// The Planner calls both methods once per Plan call.
type RecordSource interface {
	// ListPeople returns all people eligible for allocation.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//
	// Returns:
	//   - []Person: Person records
	//   - error: Load error (nil on success)
	ListPeople(ctx context.Context) ([]Person, error)

	// ListTasks returns all tasks to allocate.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//
	// Returns:
	//   - []Task: Task records
	//   - error: Load error (nil on success)
	ListTasks(ctx context.Context) ([]Task, error)
}

// ResultPublisher hands a completed result to downstream consumers.
//
// Publish is only ever called with a complete result; partial results are
// never published.
type ResultPublisher interface {
	Publish(ctx context.Context, result *Result) error
}
