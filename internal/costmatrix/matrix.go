// Package costmatrix builds person-by-task cost matrices for the optimal assigner.
//
// Cells carry an explicit feasibility flag instead of a numeric sentinel, and the
// matrix keeps bidirectional maps between record IDs and row/column indices so
// callers never rely on positional correspondence with their input slices.
package costmatrix

import (
	"fmt"

	"github.com/arloliu/allot/competency"
	"github.com/arloliu/allot/types"
)

// ErrEmptyMatrix is returned when there are no people or no tasks.
// It wraps types.ErrEmptyInput.
var ErrEmptyMatrix = fmt.Errorf("%w: empty cost matrix", types.ErrEmptyInput)

// Cost is one matrix cell.
type Cost struct {
	// Value is task effort divided by the person's part-time factor.
	// Meaningless when Feasible is false.
	Value float64

	// Feasible is false when the person does not meet the task's competency.
	Feasible bool
}

// Matrix is a people-by-tasks cost matrix (rows are people, columns are tasks).
type Matrix struct {
	cells    [][]Cost
	personID []string
	taskID   []string
	rowOf    map[string]int
	colOf    map[string]int
}

// Build computes the cost matrix for people and tasks.
//
// A cell is feasible iff the person's competency is at least the task's minimum
// competency; its value is task.Effort / person.PartTimeFactor. Inputs are not
// mutated.
//
// Parameters:
//   - people: Row records
//   - tasks: Column records
//   - scale: Competency scale deciding eligibility
//
// Returns:
//   - *Matrix: P x T matrix
//   - error: ErrEmptyMatrix when people or tasks is empty
func Build(people []types.Person, tasks []types.Task, scale *competency.Scale) (*Matrix, error) {
	if len(people) == 0 || len(tasks) == 0 {
		return nil, ErrEmptyMatrix
	}

	m := &Matrix{
		cells:    make([][]Cost, len(people)),
		personID: make([]string, len(people)),
		taskID:   make([]string, len(tasks)),
		rowOf:    make(map[string]int, len(people)),
		colOf:    make(map[string]int, len(tasks)),
	}

	for j, t := range tasks {
		m.taskID[j] = t.ID
		m.colOf[t.ID] = j
	}

	for i, p := range people {
		m.personID[i] = p.ID
		m.rowOf[p.ID] = i

		row := make([]Cost, len(tasks))
		for j, t := range tasks {
			if !scale.IsEligible(p.Competency, t.MinCompetency) {
				continue
			}
			row[j] = Cost{Value: t.Effort / p.PartTimeFactor, Feasible: true}
		}
		m.cells[i] = row
	}

	return m, nil
}

// Rows returns the number of people.
func (m *Matrix) Rows() int { return len(m.personID) }

// Cols returns the number of tasks.
func (m *Matrix) Cols() int { return len(m.taskID) }

// At returns the cell for row i and column j.
func (m *Matrix) At(i, j int) Cost { return m.cells[i][j] }

// PersonID returns the person ID of row i.
func (m *Matrix) PersonID(i int) string { return m.personID[i] }

// TaskID returns the task ID of column j.
func (m *Matrix) TaskID(j int) string { return m.taskID[j] }

// Row returns the row index of a person ID.
func (m *Matrix) Row(personID string) (int, bool) {
	i, ok := m.rowOf[personID]

	return i, ok
}

// Col returns the column index of a task ID.
func (m *Matrix) Col(taskID string) (int, bool) {
	j, ok := m.colOf[taskID]

	return j, ok
}

// FeasibleCount returns the number of feasible cells.
func (m *Matrix) FeasibleCount() int {
	n := 0
	for _, row := range m.cells {
		for _, c := range row {
			if c.Feasible {
				n++
			}
		}
	}

	return n
}

// Dense exports the matrix as parallel value and feasibility grids.
// Infeasible cells have value 0.
func (m *Matrix) Dense() ([][]float64, [][]bool) {
	values := make([][]float64, len(m.cells))
	mask := make([][]bool, len(m.cells))
	for i, row := range m.cells {
		values[i] = make([]float64, len(row))
		mask[i] = make([]bool, len(row))
		for j, c := range row {
			values[i][j] = c.Value
			mask[i][j] = c.Feasible
		}
	}

	return values, mask
}
