// Package hungarian implements the O(n³) Kuhn–Munkres assignment algorithm.
//
// The solver works on rectangular matrices with a feasibility mask. It pads the
// input to a square matrix with zero-cost dummy rows or columns and prices every
// infeasible cell with a data-derived big-M, so the optimum first maximizes the
// number of feasible pairs and then minimizes their total cost. Infeasible and
// padded pairs are never returned.
package hungarian

import (
	"fmt"
	"math"

	"github.com/arloliu/allot/types"
)

// Pair is one matched (row, column) cell.
type Pair struct {
	Row int
	Col int
}

// Solve computes a minimum-cost maximum-cardinality matching.
//
// Ties between equally good columns are broken by the lowest column index, so
// the result is deterministic for a given input.
//
// Parameters:
//   - cost: Rectangular cost matrix (rows x cols)
//   - feasible: Feasibility mask with the same shape, nil means all cells feasible
//
// Returns:
//   - []Pair: Feasible matched pairs ordered by row
//   - error: types.ErrSolverFailure (wrapped) on ragged input or non-finite feasible costs
func Solve(cost [][]float64, feasible [][]bool) ([]Pair, error) {
	rows := len(cost)
	if rows == 0 {
		return nil, nil
	}
	cols := len(cost[0])
	if cols == 0 {
		return nil, nil
	}
	if feasible != nil && len(feasible) != rows {
		return nil, fmt.Errorf("%w: mask has %d rows, matrix has %d", types.ErrSolverFailure, len(feasible), rows)
	}

	isFeasible := func(i, j int) bool {
		return feasible == nil || feasible[i][j]
	}

	var sum float64
	for i, row := range cost {
		if len(row) != cols || (feasible != nil && len(feasible[i]) != cols) {
			return nil, fmt.Errorf("%w: ragged row %d", types.ErrSolverFailure, i)
		}
		for j, c := range row {
			if !isFeasible(i, j) {
				continue
			}
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return nil, fmt.Errorf("%w: non-finite cost at (%d,%d)", types.ErrSolverFailure, i, j)
			}
			sum += math.Abs(c)
		}
	}
	bigM := 2*sum + 1

	n := max(rows, cols)
	a := make([][]float64, n)
	for i := range n {
		a[i] = make([]float64, n)
		if i >= rows {
			continue
		}
		for j := range cols {
			if isFeasible(i, j) {
				a[i][j] = cost[i][j]
			} else {
				a[i][j] = bigM
			}
		}
	}

	colToRow, err := minimize(a)
	if err != nil {
		return nil, err
	}

	rowToCol := make([]int, rows)
	for i := range rowToCol {
		rowToCol[i] = -1
	}
	for j, i := range colToRow {
		if i < rows && j < cols {
			rowToCol[i] = j
		}
	}

	pairs := make([]Pair, 0, min(rows, cols))
	for i, j := range rowToCol {
		if j >= 0 && isFeasible(i, j) {
			pairs = append(pairs, Pair{Row: i, Col: j})
		}
	}

	return pairs, nil
}

// TotalCost sums the cost of the given pairs.
func TotalCost(cost [][]float64, pairs []Pair) float64 {
	var total float64
	for _, p := range pairs {
		total += cost[p.Row][p.Col]
	}

	return total
}

// minimize runs the potentials-based primal-dual method on a square matrix and
// returns, for every column, the row matched to it.
func minimize(a [][]float64) ([]int, error) {
	n := len(a)
	inf := math.Inf(1)

	// 1-based potentials; index 0 is the virtual root of the alternating tree.
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1)
	way := make([]int, n+1)
	minv := make([]float64, n+1)
	used := make([]bool, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = inf
			used[j] = false
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := a[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			if j1 == 0 || math.IsNaN(delta) {
				return nil, fmt.Errorf("%w: no augmenting path for row %d", types.ErrSolverFailure, i-1)
			}

			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}

			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	colToRow := make([]int, n)
	for j := 1; j <= n; j++ {
		colToRow[j-1] = p[j] - 1
	}

	return colToRow, nil
}
