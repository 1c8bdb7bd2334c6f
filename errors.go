package allot

import "github.com/arloliu/allot/types"

// Sentinel errors returned by the Planner.
//
// They are re-exported from the types package so callers can match them with
// errors.Is without importing types.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrSourceRequired is returned when the record source is nil.
	ErrSourceRequired = types.ErrSourceRequired

	// ErrUnknownStrategy is returned when the configured strategy name is not recognized.
	ErrUnknownStrategy = types.ErrUnknownStrategy

	// ErrEmptyInput is returned when there are no people or no tasks.
	ErrEmptyInput = types.ErrEmptyInput

	// ErrInvalidInput is returned when a person or task record is invalid.
	ErrInvalidInput = types.ErrInvalidInput

	// ErrSolverFailure is returned when the optimal assigner cannot solve a project.
	ErrSolverFailure = types.ErrSolverFailure

	// ErrNoCandidate is matched by every NoCandidateWarning.
	ErrNoCandidate = types.ErrNoCandidate

	// ErrPublishFailed is returned when publishing a result fails.
	ErrPublishFailed = types.ErrPublishFailed
)
