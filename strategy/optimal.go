package strategy

import (
	"context"
	"fmt"

	"github.com/arloliu/allot/competency"
	"github.com/arloliu/allot/internal/costmatrix"
	"github.com/arloliu/allot/internal/hungarian"
	"github.com/arloliu/allot/internal/logging"
	"github.com/arloliu/allot/types"
)

// Optimal assigns at most one task per person per project with minimum total
// cost, using the Hungarian algorithm on a person-by-task cost matrix.
//
// Effort is read in person-months and cost is effort divided by the person's
// part-time factor. Tasks are grouped by ProjectID in first-seen order and
// each project is solved independently over all people.
type Optimal struct {
	scale  *competency.Scale
	logger types.Logger
}

var _ types.AllocationStrategy = (*Optimal)(nil)

// OptimalOption configures an Optimal strategy.
type OptimalOption func(*Optimal)

// NewOptimal creates a new optimal strategy.
//
// Parameters:
//   - opts: Optional configuration (WithOptimalScale, WithOptimalLogger)
//
// Returns:
//   - *Optimal: Initialized strategy using the default A < B < C scale
//
// Example:
//
//	s := strategy.NewOptimal()
//	res, err := s.Allocate(ctx, people, tasks)
func NewOptimal(opts ...OptimalOption) *Optimal {
	o := &Optimal{
		scale:  competency.Default(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.scale == nil {
		o.scale = competency.Default()
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}

	return o
}

// WithOptimalScale sets the competency scale.
func WithOptimalScale(scale *competency.Scale) OptimalOption {
	return func(o *Optimal) {
		o.scale = scale
	}
}

// WithOptimalLogger sets the logger.
func WithOptimalLogger(logger types.Logger) OptimalOption {
	return func(o *Optimal) {
		o.logger = logger
	}
}

// Name returns "optimal".
func (o *Optimal) Name() string { return NameOptimal }

// Allocate computes a minimum-cost maximum-cardinality matching per project.
//
// Infeasible (competency) pairs are never assigned. Tasks left unmatched are
// reported as NoCandidateWarning. The result is deterministic: identical
// inputs always yield identical assignments.
//
// Parameters:
//   - ctx: Context checked between projects
//   - people: Candidate people
//   - tasks: Tasks with effort in person-months
//
// Returns:
//   - *types.Result: One assignment per matched pair (Score = cost)
//   - error: costmatrix.ErrEmptyMatrix, types.ErrSolverFailure or a context error
func (o *Optimal) Allocate(ctx context.Context, people []types.Person, tasks []types.Task) (*types.Result, error) {
	if len(people) == 0 || len(tasks) == 0 {
		return nil, costmatrix.ErrEmptyMatrix
	}

	res := newResult(NameOptimal, tasks)
	for _, group := range groupByProject(tasks) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		m, err := costmatrix.Build(people, group.tasks, o.scale)
		if err != nil {
			return nil, err
		}

		values, mask := m.Dense()
		pairs, err := hungarian.Solve(values, mask)
		if err != nil {
			return nil, fmt.Errorf("solve project %s: %w", group.projectID, err)
		}

		byCol := make(map[int]int, len(pairs))
		for _, p := range pairs {
			byCol[p.Col] = p.Row
		}

		// Emit in task order so results read like the input.
		for j, task := range group.tasks {
			i, ok := byCol[j]
			if !ok {
				reason := "no eligible person"
				if m.FeasibleCount() > 0 && hasFeasibleInColumn(m, j) {
					reason = "all eligible people matched to other tasks"
				}
				res.Warnings = append(res.Warnings, types.NoCandidateWarning{TaskID: task.ID, Reason: reason})
				o.logger.Debug("task unmatched", "task_id", task.ID, "project_id", group.projectID, "reason", reason)

				continue
			}

			cost := m.At(i, j)
			res.Assignments = append(res.Assignments, types.Assignment{
				PersonID:  m.PersonID(i),
				TaskID:    task.ID,
				ProjectID: task.ProjectID,
				Effort:    task.Effort,
				Score:     cost.Value,
			})
			res.TotalAssigned += task.Effort
		}

		o.logger.Debug("project solved", "project_id", group.projectID,
			"tasks", len(group.tasks), "matched", len(pairs), "total_cost", hungarian.TotalCost(values, pairs))
	}

	return res, nil
}

func hasFeasibleInColumn(m *costmatrix.Matrix, j int) bool {
	for i := range m.Rows() {
		if m.At(i, j).Feasible {
			return true
		}
	}

	return false
}

type projectGroup struct {
	projectID string
	tasks     []types.Task
}

// groupByProject groups tasks by ProjectID, preserving first-seen project order
// and task order within each project.
func groupByProject(tasks []types.Task) []projectGroup {
	index := make(map[string]int)
	var groups []projectGroup
	for _, t := range tasks {
		i, ok := index[t.ProjectID]
		if !ok {
			i = len(groups)
			index[t.ProjectID] = i
			groups = append(groups, projectGroup{projectID: t.ProjectID})
		}
		groups[i].tasks = append(groups[i].tasks, t)
	}

	return groups
}
