package types

// Task is a unit of work belonging to a project.
//
// Effort is expressed in person-months for the optimal assigner and in hours
// for the hour-based allocators.
type Task struct {
	// ID uniquely identifies the task.
	ID string `json:"id" yaml:"id"`

	// ProjectID groups tasks for per-project assignment and conflict checks.
	ProjectID string `json:"project_id" yaml:"projectId"`

	// Name is a display name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// MinCompetency is the minimum competency level a person needs.
	MinCompetency string `json:"min_competency" yaml:"minCompetency"`

	// Skill optionally names the skill that earns the exact-skill bonus.
	Skill string `json:"skill,omitempty" yaml:"skill,omitempty"`

	// Effort is the required work. Must be > 0.
	Effort float64 `json:"effort" yaml:"effort"`

	// Start is the first month of the task.
	Start Month `json:"start" yaml:"start"`

	// End is the last month of the task (inclusive, End >= Start).
	End Month `json:"end" yaml:"end"`
}

// Span returns the number of months the task covers (End - Start + 1).
func (t Task) Span() int {
	return MonthsBetween(t.Start, t.End)
}

// Months returns every month the task covers, in order.
func (t Task) Months() []Month {
	return MonthRange(t.Start, t.End)
}
