package types

import "context"

// AllocationStrategy allocates task effort to people.
//
// Strategies implement different allocation algorithms:
//   - Optimal: Hungarian one-to-one matching per project (minimum total cost)
//   - Greedy: Hour-based greedy allocation with lookahead and a fallback pass
//   - Genetic: Population-based search over person-per-task chromosomes
//   - Custom: User-defined algorithms
//
// Strategy implementations should:
//   - Be deterministic for a fixed configuration (seeded randomness only)
//   - Never assign a person below a task's minimum competency
//   - Report unassignable tasks as NoCandidateWarning, not as errors
//   - Own all mutable state for the duration of one call
type AllocationStrategy interface {
	// Name returns the strategy identifier (e.g. "optimal", "greedy", "genetic").
	Name() string

	// Allocate computes assignments for the given people and tasks.
	//
	// Parameters:
	//   - ctx: Context for cancellation, checked between rounds
	//   - people: Candidate people
	//   - tasks: Tasks to allocate
	//
	// Returns:
	//   - *Result: Assignments, warnings and totals
	//   - error: ErrEmptyInput, ErrSolverFailure or a context error
	Allocate(ctx context.Context, people []Person, tasks []Task) (*Result, error)
}
