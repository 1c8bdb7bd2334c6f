package types

import (
	"fmt"
	"time"
)

// MonthlyAllocation is the number of hours booked in one month.
type MonthlyAllocation struct {
	Month Month   `json:"month"`
	Hours float64 `json:"hours"`
}

// Assignment allocates an amount of a task's effort to one person.
type Assignment struct {
	// PersonID identifies the assignee.
	PersonID string `json:"person_id"`

	// TaskID identifies the task.
	TaskID string `json:"task_id"`

	// ProjectID is the task's project.
	ProjectID string `json:"project_id"`

	// Effort is the amount assigned (>= 0), in the task's effort unit.
	Effort float64 `json:"effort"`

	// Score is the cost in optimal mode, the ranking score in greedy mode and
	// the gene score in genetic mode.
	Score float64 `json:"score"`

	// Fallback marks assignments made without an availability check.
	Fallback bool `json:"fallback,omitempty"`

	// Months is the per-month hour breakdown for ledger-checked assignments.
	Months []MonthlyAllocation `json:"months,omitempty"`
}

// NoCandidateWarning reports a task that could not be (fully) assigned.
//
// It is not fatal: warnings are carried in Result.Warnings and the run
// continues with the remaining tasks.
type NoCandidateWarning struct {
	TaskID string `json:"task_id"`
	Reason string `json:"reason"`
}

// Error implements error.
func (w NoCandidateWarning) Error() string {
	if w.Reason == "" {
		return fmt.Sprintf("task %s: %s", w.TaskID, ErrNoCandidate)
	}

	return fmt.Sprintf("task %s: %s: %s", w.TaskID, ErrNoCandidate, w.Reason)
}

// Unwrap returns ErrNoCandidate so errors.Is matches warnings.
func (w NoCandidateWarning) Unwrap() error {
	return ErrNoCandidate
}

// Result is the outcome of one allocation run.
type Result struct {
	// RunID identifies the run. Stamped by the Planner.
	RunID string `json:"run_id,omitempty"`

	// Strategy is the name of the strategy that produced the result.
	Strategy string `json:"strategy"`

	// Assignments in the order they were made.
	Assignments []Assignment `json:"assignments"`

	// Warnings lists tasks left unassigned or partially assigned.
	Warnings []NoCandidateWarning `json:"warnings,omitempty"`

	// TotalRequired is the sum of task efforts.
	TotalRequired float64 `json:"total_required"`

	// TotalAssigned is the ledger-checked effort (fallback excluded).
	TotalAssigned float64 `json:"total_assigned"`

	// FallbackEffort is the effort assigned by the fallback pass.
	FallbackEffort float64 `json:"fallback_effort,omitempty"`

	// Fitness is the best fitness found by the genetic allocator.
	Fitness float64 `json:"fitness,omitempty"`

	// FitnessHistory holds the best-so-far fitness after each generation.
	FitnessHistory []float64 `json:"fitness_history,omitempty"`

	// Generations is the number of generations actually evolved.
	Generations int `json:"generations,omitempty"`

	// Truncated is set when the run stopped early on its time budget.
	Truncated bool `json:"truncated,omitempty"`

	// Ledger is the committed hours per person and month after the run.
	Ledger map[string]map[Month]float64 `json:"ledger,omitempty"`

	// Duration is the wall-clock time of the run.
	Duration time.Duration `json:"duration"`
}

// AssignedEffortByTask sums assigned effort (fallback included) per task ID.
func (r *Result) AssignedEffortByTask() map[string]float64 {
	out := make(map[string]float64, len(r.Assignments))
	for _, a := range r.Assignments {
		out[a.TaskID] += a.Effort
	}

	return out
}

// AssignmentsForProject returns the assignments belonging to projectID, in order.
func (r *Result) AssignmentsForProject(projectID string) []Assignment {
	var out []Assignment
	for _, a := range r.Assignments {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}

	return out
}

// ProjectIDs returns the distinct project IDs of the assignments in first-seen order.
func (r *Result) ProjectIDs() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, a := range r.Assignments {
		if _, ok := seen[a.ProjectID]; ok {
			continue
		}
		seen[a.ProjectID] = struct{}{}
		out = append(out, a.ProjectID)
	}

	return out
}

// UnassignedCount returns the number of warnings, i.e. tasks not fully covered.
func (r *Result) UnassignedCount() int {
	return len(r.Warnings)
}
