package source

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/arloliu/allot/types"
)

// Static implements a record source with fixed lists of people and tasks.
type Static struct {
	mu     sync.RWMutex
	people []types.Person
	tasks  []types.Task
}

var _ types.RecordSource = (*Static)(nil)

// NewStatic creates a new static record source.
//
// The source returns copies of the records it was given, so callers and
// strategies can never mutate the source's state. Useful for testing and
// for embedding a planner where records are known up front.
//
// Parameters:
//   - people: Person records
//   - tasks: Task records
//
// Returns:
//   - *Static: Initialized static source
//
// Example:
//
//	src := source.NewStatic(
//	    []types.Person{{ID: "P1", Competency: "B", PartTimeFactor: 1.0}},
//	    []types.Task{{ID: "T1", ProjectID: "X", MinCompetency: "B", Effort: 4}},
//	)
//	planner, err := allot.NewPlanner(&cfg, src)
func NewStatic(people []types.Person, tasks []types.Task) *Static {
	s := &Static{}
	s.Update(people, tasks)

	return s
}

// ListPeople returns a copy of the people.
//
// Returns:
//   - []types.Person: Deep copy of the person records
//   - error: Always nil (never fails)
func (s *Static) ListPeople(_ context.Context) ([]types.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clonePeople(s.people), nil
}

// ListTasks returns a copy of the tasks.
//
// Returns:
//   - []types.Task: Copy of the task records
//   - error: Always nil (never fails)
func (s *Static) ListTasks(_ context.Context) ([]types.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.tasks), nil
}

// Update replaces the records.
//
// Parameters:
//   - people: New person records
//   - tasks: New task records
//
// Example:
//
//	src := source.NewStatic(people, tasks)
//	// Later: a new project was added
//	src.Update(people, append(tasks, newTasks...))
func (s *Static) Update(people []types.Person, tasks []types.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.people = clonePeople(people)
	s.tasks = slices.Clone(tasks)
	if s.tasks == nil {
		s.tasks = []types.Task{}
	}
}

func clonePeople(people []types.Person) []types.Person {
	out := make([]types.Person, len(people))
	for i, p := range people {
		p.Availability = maps.Clone(p.Availability)
		p.Commitments = maps.Clone(p.Commitments)
		p.Skills = slices.Clone(p.Skills)
		out[i] = p
	}

	return out
}
