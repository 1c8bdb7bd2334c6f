package types

import "context"

// Hooks defines callbacks for Planner events.
//
// All hooks are optional and run synchronously on the goroutine calling Plan,
// after the allocation has finished and before the result is published.
//
// Hook execution behavior:
//   - Hook errors are logged and forwarded to OnError but never fail the run
//   - The context passed to hooks is the Plan context
//
// Example:
//
//	hooks := &allot.Hooks{
//	    OnTaskUnassigned: func(ctx context.Context, w allot.NoCandidateWarning) error {
//	        log.Printf("unassigned: %s", w.TaskID)
//	        return nil
//	    },
//	}
type Hooks struct {
	// OnPlanCompleted is called once per successful run with the full result.
	OnPlanCompleted func(ctx context.Context, result *Result) error

	// OnTaskUnassigned is called for every warning in the result.
	OnTaskUnassigned func(ctx context.Context, warning NoCandidateWarning) error

	// OnError is called when a recoverable error occurs (hook or publish failures).
	OnError func(ctx context.Context, err error) error
}
