package types

import (
	"errors"
	"strings"
)

// Sentinel errors for the allot library.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// All components should use these sentinel errors for known error conditions
// and wrap external errors with context using fmt.Errorf("%s: %w", msg, err).
//
// Error Naming Convention:
//   - Use descriptive names with Err prefix
//   - Group by component (Planner, Solver, Publisher, etc.)
//   - Use consistent messages across similar error types

// Planner errors - Public API errors returned by the Planner.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSourceRequired is returned when the record source is nil.
	ErrSourceRequired = errors.New("record source is required")

	// ErrUnknownStrategy is returned when the configured strategy name is not recognized.
	ErrUnknownStrategy = errors.New("unknown allocation strategy")
)

// Input errors - Record validation errors.
var (
	// ErrEmptyInput is returned when there are no people or no tasks.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidInput is returned when a person or task record violates its invariants.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidMonth is returned when a month string is not a valid "MM/YYYY".
	ErrInvalidMonth = errors.New("invalid month")
)

// Solver errors - Allocation engine errors.
var (
	// ErrSolverFailure is returned when the matrix solver cannot produce a matching.
	ErrSolverFailure = errors.New("solver failure")

	// ErrNoCandidate marks tasks without any eligible, available person.
	// It is carried by NoCandidateWarning and never aborts a run.
	ErrNoCandidate = errors.New("no candidate")
)

// Publisher errors - Result publishing errors.
var (
	// ErrPublishFailed is returned when publishing a result to NATS KV fails.
	ErrPublishFailed = errors.New("failed to publish result")

	// ErrConnectivity indicates a NATS/KV connectivity issue.
	// This is used to distinguish network failures from application errors.
	ErrConnectivity = errors.New("connectivity issue")

	// ErrNoKeysFound is returned when NATS KV returns no keys (expected condition).
	ErrNoKeysFound = errors.New("no keys found")
)

// IsNoKeysFoundError checks if an error indicates that no keys were found in NATS KV.
//
// This function handles NATS-specific "no keys found" errors which may come as:
//   - Direct error: "nats: no keys found"
//   - Wrapped error: "failed to list KV keys: nats: no keys found"
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - bool: true if the error indicates no keys were found, false otherwise
func IsNoKeysFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNoKeysFound) {
		return true
	}

	return strings.Contains(err.Error(), "no keys found")
}
