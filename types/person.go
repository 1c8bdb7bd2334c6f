package types

import "slices"

// Person is a staff member that can be assigned to tasks.
//
// Records are treated as immutable during an allocation run; committed hours
// are tracked separately by the availability ledger.
type Person struct {
	// ID uniquely identifies the person.
	ID string `json:"id" yaml:"id"`

	// Name is a display name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Competency is the person's ordinal competency level (e.g. "A", "B", "C").
	Competency string `json:"competency" yaml:"competency"`

	// PartTimeFactor scales effort and capacity. Must be > 0.
	// A factor of 0.5 doubles the cost of a task and the hours it takes.
	PartTimeFactor float64 `json:"part_time_factor" yaml:"partTimeFactor"`

	// Availability is the fraction of full time per month.
	Availability Availability `json:"availability,omitempty" yaml:"-"`

	// Skills lists named skills used for the exact-skill fitness bonus.
	Skills []string `json:"skills,omitempty" yaml:"skills,omitempty"`

	// TimeBudget weights the person's score in the hour-based allocators.
	// Zero means the default weight of 1.0.
	TimeBudget float64 `json:"time_budget,omitempty" yaml:"timeBudget,omitempty"`

	// Commitments maps a month to the project the person is already booked on.
	// Months absent from the map are free.
	Commitments map[Month]string `json:"commitments,omitempty" yaml:"-"`
}

// ScoreWeight returns TimeBudget, or 1.0 when it is unset.
func (p Person) ScoreWeight() float64 {
	if p.TimeBudget <= 0 {
		return 1.0
	}

	return p.TimeBudget
}

// CommittedElsewhere reports whether the person is booked on a project other
// than projectID during month.
func (p Person) CommittedElsewhere(month Month, projectID string) bool {
	project, ok := p.Commitments[month]

	return ok && project != "" && project != projectID
}

// HasSkill reports whether skill appears in the person's skill list.
func (p Person) HasSkill(skill string) bool {
	return skill != "" && slices.Contains(p.Skills, skill)
}
