// Package fitness scores person-to-task choices against an availability ledger.
//
// The Evaluator is shared by the hour-based allocators: the greedy allocator
// uses FreeHours, BaseScore and Plan to rank and book candidates, and the
// genetic allocator uses Evaluate to score whole chromosomes.
package fitness

import (
	"github.com/arloliu/allot/competency"
	"github.com/arloliu/allot/internal/ledger"
	"github.com/arloliu/allot/types"
)

// Fitness weights.
const (
	// IneligiblePenalty is charged for a gene whose person lacks the task's competency.
	IneligiblePenalty = 1000.0

	// ConflictPenalty is charged per task month the person is booked on another project.
	ConflictPenalty = 500.0

	// ShortfallPenalty is charged when free hours cannot cover the task's effort.
	ShortfallPenalty = 200.0

	// CoverageWeight scales the share of effort placed on eligible people.
	CoverageWeight = 1000.0

	// SkillBonus multiplies the score of a skill-matching gene.
	SkillBonus = 2.0
)

// GeneOutcome describes how one task's gene fared during evaluation.
type GeneOutcome struct {
	// Eligible is true when the person meets the task's competency.
	Eligible bool

	// Feasible is true when the person's free hours covered the effort.
	Feasible bool

	// Conflicts is the number of task months the person is booked elsewhere.
	Conflicts int

	// Score is the positive score contributed by the gene.
	Score float64

	// Months is the simulated booking for feasible genes.
	Months []types.MonthlyAllocation
}

// Breakdown is the decomposed fitness of a chromosome.
type Breakdown struct {
	Score    float64
	Coverage float64
	Penalty  float64
}

// Total returns Score + Coverage - Penalty.
func (b Breakdown) Total() float64 {
	return b.Score + b.Coverage - b.Penalty
}

// Evaluator holds the immutable inputs of one allocation run.
//
// Tasks must carry effort in hours. Evaluator methods that take no ledger are
// safe for concurrent use.
type Evaluator struct {
	people      []types.Person
	tasks       []types.Task
	scale       *competency.Scale
	months      [][]types.Month
	eligible    [][]bool
	totalEffort float64
	empty       *ledger.Ledger
}

// New creates an evaluator for people and tasks.
func New(people []types.Person, tasks []types.Task, scale *competency.Scale) *Evaluator {
	e := &Evaluator{
		people:   people,
		tasks:    tasks,
		scale:    scale,
		months:   make([][]types.Month, len(tasks)),
		eligible: make([][]bool, len(tasks)),
		empty:    ledger.New(people),
	}

	for t, task := range tasks {
		e.months[t] = task.Months()
		e.totalEffort += task.Effort
		e.eligible[t] = make([]bool, len(people))
		for p, person := range people {
			e.eligible[t][p] = scale.IsEligible(person.Competency, task.MinCompetency)
		}
	}

	return e
}

// People returns the evaluator's people.
func (e *Evaluator) People() []types.Person { return e.people }

// Tasks returns the evaluator's tasks.
func (e *Evaluator) Tasks() []types.Task { return e.tasks }

// TotalEffort returns the summed effort of all tasks.
func (e *Evaluator) TotalEffort() float64 { return e.totalEffort }

// NewLedger returns a fresh empty ledger view for the run's people.
func (e *Evaluator) NewLedger() *ledger.Ledger {
	return e.empty.Fork()
}

// Eligible reports whether person p meets task t's competency.
func (e *Evaluator) Eligible(t, p int) bool {
	return e.eligible[t][p]
}

// EligiblePeople returns the indices of people eligible for task t, in input order.
func (e *Evaluator) EligiblePeople(t int) []int {
	var out []int
	for p, ok := range e.eligible[t] {
		if ok {
			out = append(out, p)
		}
	}

	return out
}

// FreeHours sums person p's available hours over task t's months, skipping
// months in which the person is booked on another project.
func (e *Evaluator) FreeHours(l *ledger.Ledger, t, p int) float64 {
	person, task := e.people[p], e.tasks[t]

	var total float64
	for _, m := range e.months[t] {
		if person.CommittedElsewhere(m, task.ProjectID) {
			continue
		}
		total += l.Available(person.ID, m)
	}

	return total
}

// BaseScore returns FreeHours weighted by the person's time budget.
func (e *Evaluator) BaseScore(l *ledger.Ledger, t, p int) float64 {
	return e.FreeHours(l, t, p) * e.people[p].ScoreWeight()
}

// Plan distributes hours of task t to person p, earliest month first, each
// month capped by its free capacity. The plan may cover less than hours when
// capacity runs out.
func (e *Evaluator) Plan(l *ledger.Ledger, t, p int, hours float64) []types.MonthlyAllocation {
	person, task := e.people[p], e.tasks[t]

	var plan []types.MonthlyAllocation
	remaining := hours
	for _, m := range e.months[t] {
		if remaining <= ledger.Epsilon {
			break
		}
		if person.CommittedElsewhere(m, task.ProjectID) {
			continue
		}
		free := l.Available(person.ID, m)
		if free <= 0 {
			continue
		}
		h := min(free, remaining)
		plan = append(plan, types.MonthlyAllocation{Month: m, Hours: h})
		remaining -= h
	}

	return plan
}

// Apply commits a plan for person p to the ledger and returns its total hours.
func (e *Evaluator) Apply(l *ledger.Ledger, p int, plan []types.MonthlyAllocation) float64 {
	var total float64
	for _, a := range plan {
		l.Commit(e.people[p].ID, a.Month, a.Hours)
		total += a.Hours
	}

	return total
}

// SkillMultiplier returns SkillBonus when person p matches task t's named
// skill, or, for tasks without a named skill, when the person's level equals
// the required level exactly. Otherwise it returns 1.
func (e *Evaluator) SkillMultiplier(t, p int) float64 {
	person, task := e.people[p], e.tasks[t]
	if task.Skill != "" {
		if person.HasSkill(task.Skill) {
			return SkillBonus
		}

		return 1.0
	}
	if e.scale.ExactMatch(person.Competency, task.MinCompetency) {
		return SkillBonus
	}

	return 1.0
}

// Evaluate scores a chromosome (genes[t] is the person index for task t) on a
// fresh simulated ledger.
//
// Per gene, in task order:
//   - ineligible person: IneligiblePenalty, gene skipped
//   - each task month booked on another project: ConflictPenalty, month excluded
//   - free hours below effort: ShortfallPenalty
//   - otherwise: score += free hours * time budget * skill multiplier, and the
//     effort is booked on the simulated ledger
//
// The coverage bonus is CoverageWeight times the share of total effort whose
// gene is eligible.
//
// Returns:
//   - Breakdown: Decomposed fitness
//   - []GeneOutcome: Per-task outcome, indexed like genes
func (e *Evaluator) Evaluate(genes []int) (Breakdown, []GeneOutcome) {
	l := e.NewLedger()
	outcomes := make([]GeneOutcome, len(genes))

	var b Breakdown
	var eligibleEffort float64
	for t, p := range genes {
		if p < 0 || p >= len(e.people) || !e.eligible[t][p] {
			b.Penalty += IneligiblePenalty
			continue
		}
		outcomes[t].Eligible = true
		eligibleEffort += e.tasks[t].Effort

		person, task := e.people[p], e.tasks[t]
		var free float64
		for _, m := range e.months[t] {
			if person.CommittedElsewhere(m, task.ProjectID) {
				b.Penalty += ConflictPenalty
				outcomes[t].Conflicts++
				continue
			}
			free += l.Available(person.ID, m)
		}

		if free+ledger.Epsilon < task.Effort {
			b.Penalty += ShortfallPenalty
			continue
		}

		score := free * person.ScoreWeight() * e.SkillMultiplier(t, p)
		b.Score += score
		plan := e.Plan(l, t, p, task.Effort)
		e.Apply(l, p, plan)

		outcomes[t].Feasible = true
		outcomes[t].Score = score
		outcomes[t].Months = plan
	}

	if e.totalEffort > 0 {
		b.Coverage = CoverageWeight * eligibleEffort / e.totalEffort
	}

	return b, outcomes
}

// Fitness returns the total fitness of a chromosome.
func (e *Evaluator) Fitness(genes []int) float64 {
	b, _ := e.Evaluate(genes)

	return b.Total()
}
