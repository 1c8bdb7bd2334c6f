package strategy

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/arloliu/allot/competency"
	"github.com/arloliu/allot/internal/fitness"
	"github.com/arloliu/allot/internal/ledger"
	"github.com/arloliu/allot/internal/logging"
	"github.com/arloliu/allot/types"
)

// Task processing orders for the greedy allocator.
const (
	// OrderEffortDesc processes larger tasks first (stable on ties).
	OrderEffortDesc = "effort_desc"

	// OrderInput processes tasks in input order.
	OrderInput = "input"
)

// Greedy defaults.
const (
	DefaultLookaheadDepth  = 2
	DefaultLookaheadWeight = 0.3
)

// Greedy is the hour-based greedy allocator with bounded lookahead and a
// fallback pass.
//
// For each task the eligible people with free hours are ranked by
// base + lookahead score. The top candidate receives as much of the remaining
// effort as its free hours allow, earliest month first. A fallback pass then
// hands any residual effort to the first eligible person without checking
// availability; those assignments carry Fallback = true.
type Greedy struct {
	scale           *competency.Scale
	logger          types.Logger
	unit            EffortUnit
	order           string
	lookaheadDepth  int
	lookaheadWeight float64
	multiAssign     bool
	fallback        bool
	timeBudget      time.Duration
	now             func() time.Time
}

var _ types.AllocationStrategy = (*Greedy)(nil)

// GreedyOption configures a Greedy allocator.
type GreedyOption func(*Greedy)

// NewGreedy creates a new greedy allocator.
//
// Parameters:
//   - opts: Optional configuration
//
// Returns:
//   - *Greedy: Allocator with lookahead depth 2, weight 0.3, effort-descending
//     order, fallback enabled and effort read in hours
//
// Example:
//
//	g := strategy.NewGreedy(
//	    strategy.WithLookahead(3, 0.3),
//	    strategy.WithFallback(false),
//	)
func NewGreedy(opts ...GreedyOption) *Greedy {
	g := &Greedy{
		scale:           competency.Default(),
		logger:          logging.NewNop(),
		unit:            UnitHours,
		order:           OrderEffortDesc,
		lookaheadDepth:  DefaultLookaheadDepth,
		lookaheadWeight: DefaultLookaheadWeight,
		fallback:        true,
		now:             time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	g.normalize()

	return g
}

func (g *Greedy) normalize() {
	if g.scale == nil {
		g.scale = competency.Default()
	}
	if g.logger == nil {
		g.logger = logging.NewNop()
	}
	if !g.unit.Valid() {
		g.logger.Warn("unknown effort unit, using hours", "unit", string(g.unit))
		g.unit = UnitHours
	}
	if g.order != OrderEffortDesc && g.order != OrderInput {
		g.logger.Warn("unknown task order, using effort_desc", "order", g.order)
		g.order = OrderEffortDesc
	}
	if g.lookaheadDepth < 0 {
		g.lookaheadDepth = 0
	}
	if g.lookaheadWeight < 0 {
		g.logger.Warn("negative lookahead weight, disabling lookahead", "weight", g.lookaheadWeight)
		g.lookaheadWeight = 0
	}
}

// WithGreedyScale sets the competency scale.
func WithGreedyScale(scale *competency.Scale) GreedyOption {
	return func(g *Greedy) {
		g.scale = scale
	}
}

// WithGreedyLogger sets the logger.
func WithGreedyLogger(logger types.Logger) GreedyOption {
	return func(g *Greedy) {
		g.logger = logger
	}
}

// WithGreedyEffortUnit sets how Task.Effort is read.
func WithGreedyEffortUnit(unit EffortUnit) GreedyOption {
	return func(g *Greedy) {
		g.unit = unit
	}
}

// WithTaskOrder sets the task processing order (OrderEffortDesc or OrderInput).
func WithTaskOrder(order string) GreedyOption {
	return func(g *Greedy) {
		g.order = order
	}
}

// WithLookahead sets the lookahead depth and weight. A depth or weight of
// zero disables lookahead.
func WithLookahead(depth int, weight float64) GreedyOption {
	return func(g *Greedy) {
		g.lookaheadDepth = depth
		g.lookaheadWeight = weight
	}
}

// WithMultiAssign lets a task be split over several ranked candidates in one
// pass instead of only the top one.
func WithMultiAssign(enabled bool) GreedyOption {
	return func(g *Greedy) {
		g.multiAssign = enabled
	}
}

// WithFallback enables or disables the fallback pass.
func WithFallback(enabled bool) GreedyOption {
	return func(g *Greedy) {
		g.fallback = enabled
	}
}

// WithGreedyTimeBudget bounds the wall-clock time of a run. Zero means no limit.
func WithGreedyTimeBudget(d time.Duration) GreedyOption {
	return func(g *Greedy) {
		g.timeBudget = d
	}
}

// Name returns "greedy".
func (g *Greedy) Name() string { return NameGreedy }

type candidate struct {
	person int
	score  float64
}

// Allocate runs the greedy pass followed by the optional fallback pass.
//
// Assignment.Effort is reported in hours regardless of the configured input
// unit. Ledger-checked effort per task never exceeds the task's effort.
//
// Parameters:
//   - ctx: Context checked between tasks
//   - people: Candidate people
//   - tasks: Tasks to allocate
//
// Returns:
//   - *types.Result: Assignments, warnings and the final ledger
//   - error: types.ErrEmptyInput or a context error
func (g *Greedy) Allocate(ctx context.Context, people []types.Person, tasks []types.Task) (*types.Result, error) {
	if err := checkInput(people, tasks); err != nil {
		return nil, err
	}

	hourTasks := inHours(tasks, g.unit)
	eval := fitness.New(people, hourTasks, g.scale)
	l := eval.NewLedger()
	res := newResult(NameGreedy, hourTasks)
	b := startBudgetAt(g.timeBudget, g.now)

	order := g.processingOrder(hourTasks)
	assigned := make([]float64, len(hourTasks))
	processed := len(order)

	for pos, t := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if b.exhausted() {
			res.Truncated = true
			for _, rest := range order[pos:] {
				res.Warnings = append(res.Warnings, types.NoCandidateWarning{
					TaskID: hourTasks[rest].ID,
					Reason: "time budget exhausted",
				})
			}
			g.logger.Warn("greedy time budget exhausted", "remaining_tasks", len(order)-pos)
			processed = pos

			break
		}

		task := hourTasks[t]
		if len(eval.EligiblePeople(t)) == 0 {
			res.Warnings = append(res.Warnings, types.NoCandidateWarning{TaskID: task.ID, Reason: "no eligible person"})
			g.logger.Debug("no eligible person", "task_id", task.ID)

			continue
		}

		ranked := g.rank(eval, l, t, order[pos+1:])
		if len(ranked) == 0 {
			if !g.fallback {
				res.Warnings = append(res.Warnings, types.NoCandidateWarning{TaskID: task.ID, Reason: "no eligible person with free hours"})
			}
			g.logger.Debug("no available candidate", "task_id", task.ID)

			continue
		}

		remaining := task.Effort
		for _, c := range ranked {
			if approxZero(remaining) {
				break
			}
			plan := eval.Plan(l, t, c.person, remaining)
			hours := eval.Apply(l, c.person, plan)
			if hours > 0 {
				res.Assignments = append(res.Assignments, types.Assignment{
					PersonID:  people[c.person].ID,
					TaskID:    task.ID,
					ProjectID: task.ProjectID,
					Effort:    hours,
					Score:     c.score,
					Months:    plan,
				})
				assigned[t] += hours
				res.TotalAssigned += hours
				remaining -= hours
				g.logger.Debug("task assigned", "task_id", task.ID, "person_id", people[c.person].ID,
					"hours", hours, "score", c.score)
			}
			if !g.multiAssign {
				break
			}
		}

		if !approxZero(remaining) && !g.fallback {
			res.Warnings = append(res.Warnings, types.NoCandidateWarning{TaskID: task.ID, Reason: "partially assigned"})
		}
	}

	switch {
	case res.Truncated && g.fallback:
		// The fallback pass is skipped, so tasks it would have covered need warnings.
		for _, t := range order[:processed] {
			if len(eval.EligiblePeople(t)) == 0 || approxZero(hourTasks[t].Effort-assigned[t]) {
				continue
			}
			res.Warnings = append(res.Warnings, types.NoCandidateWarning{
				TaskID: hourTasks[t].ID,
				Reason: "not fully assigned before time budget exhausted",
			})
		}
	case g.fallback && res.TotalAssigned+effortEpsilon < res.TotalRequired:
		g.fallbackPass(eval, res, assigned)
	}

	res.Ledger = l.Snapshot()

	return res, nil
}

func (g *Greedy) processingOrder(tasks []types.Task) []int {
	order := make([]int, len(tasks))
	for i := range order {
		order[i] = i
	}
	if g.order == OrderEffortDesc {
		slices.SortStableFunc(order, func(a, b int) int {
			return cmp.Compare(tasks[b].Effort, tasks[a].Effort)
		})
	}

	return order
}

// rank scores every eligible person with free hours for task t. upcoming
// holds the task indices that are processed after t.
func (g *Greedy) rank(eval *fitness.Evaluator, l *ledger.Ledger, t int, upcoming []int) []candidate {
	task := eval.Tasks()[t]

	var out []candidate
	for _, p := range eval.EligiblePeople(t) {
		free := eval.FreeHours(l, t, p)
		if free <= ledger.Epsilon {
			continue
		}
		score := free * eval.People()[p].ScoreWeight()
		if g.lookaheadDepth > 0 && g.lookaheadWeight > 0 && len(upcoming) > 0 {
			score += g.lookaheadWeight * g.lookahead(eval, l, t, p, task.Effort, upcoming)
		}
		out = append(out, candidate{person: p, score: score})
	}

	// Stable sort keeps person input order on ties.
	slices.SortStableFunc(out, func(a, b candidate) int {
		return cmp.Compare(b.score, a.score)
	})

	return out
}

// lookahead sums the base scores person p would get on the next lookaheadDepth
// upcoming tasks, after simulating its allocation to task t. Tasks in that
// window the person is not eligible for contribute nothing.
func (g *Greedy) lookahead(eval *fitness.Evaluator, l *ledger.Ledger, t, p int, effort float64, upcoming []int) float64 {
	sim := l.Fork()
	eval.Apply(sim, p, eval.Plan(sim, t, p, effort))

	var total float64
	for _, next := range upcoming[:min(g.lookaheadDepth, len(upcoming))] {
		if !eval.Eligible(next, p) {
			continue
		}
		total += eval.BaseScore(sim, next, p)
	}

	return total
}

// fallbackPass gives each task's residual effort to the first eligible person
// in input order, without touching the ledger.
func (g *Greedy) fallbackPass(eval *fitness.Evaluator, res *types.Result, assigned []float64) {
	people := eval.People()
	for t, task := range eval.Tasks() {
		residual := task.Effort - assigned[t]
		if approxZero(residual) {
			continue
		}
		eligible := eval.EligiblePeople(t)
		if len(eligible) == 0 {
			continue
		}

		p := eligible[0]
		res.Assignments = append(res.Assignments, types.Assignment{
			PersonID:  people[p].ID,
			TaskID:    task.ID,
			ProjectID: task.ProjectID,
			Effort:    residual,
			Fallback:  true,
		})
		res.FallbackEffort += residual
		g.logger.Info("fallback assignment", "task_id", task.ID, "person_id", people[p].ID, "hours", residual)
	}
}
