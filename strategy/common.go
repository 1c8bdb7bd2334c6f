package strategy

import (
	"fmt"
	"time"

	"github.com/arloliu/allot/types"
)

// Strategy names reported in types.Result.Strategy.
const (
	NameOptimal      = "optimal"
	NameGreedy       = "greedy"
	NameGenetic      = "genetic"
	NameGeneticSweep = "genetic_sweep"
)

// EffortUnit selects how hour-based strategies read Task.Effort.
type EffortUnit string

const (
	// UnitHours reads effort as hours.
	UnitHours EffortUnit = "hours"

	// UnitPersonMonths reads effort as person-months of types.HoursPerMonth hours.
	UnitPersonMonths EffortUnit = "person_months"
)

// Valid reports whether u is a known unit.
func (u EffortUnit) Valid() bool {
	return u == UnitHours || u == UnitPersonMonths
}

// inHours returns copies of tasks with Effort converted to hours.
func inHours(tasks []types.Task, unit EffortUnit) []types.Task {
	out := make([]types.Task, len(tasks))
	copy(out, tasks)
	if unit == UnitPersonMonths {
		for i := range out {
			out[i].Effort *= types.HoursPerMonth
		}
	}

	return out
}

func checkInput(people []types.Person, tasks []types.Task) error {
	if len(people) == 0 {
		return fmt.Errorf("%w: no people", types.ErrEmptyInput)
	}
	if len(tasks) == 0 {
		return fmt.Errorf("%w: no tasks", types.ErrEmptyInput)
	}

	return nil
}

func newResult(name string, tasks []types.Task) *types.Result {
	res := &types.Result{Strategy: name, Assignments: []types.Assignment{}}
	for _, t := range tasks {
		res.TotalRequired += t.Effort
	}

	return res
}

// budget reports whether a wall-clock time budget has run out.
type budget struct {
	limit time.Duration
	start time.Time
	now   func() time.Time
}

func startBudget(limit time.Duration) budget {
	return startBudgetAt(limit, time.Now)
}

func startBudgetAt(limit time.Duration, now func() time.Time) budget {
	return budget{limit: limit, start: now(), now: now}
}

func (b budget) exhausted() bool {
	return b.limit > 0 && b.remaining() <= 0
}

// remaining returns the time left before the limit. It is zero without a limit.
func (b budget) remaining() time.Duration {
	if b.limit <= 0 {
		return 0
	}

	return b.limit - b.now().Sub(b.start)
}

// effortEpsilon is the tolerance for treating remaining effort as covered.
const effortEpsilon = 1e-6

func approxZero(v float64) bool {
	return v <= effortEpsilon
}
