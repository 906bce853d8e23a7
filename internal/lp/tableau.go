package lp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

type outcome int

const (
	outcomeOptimal outcome = iota
	outcomeUnbounded
)

// tableau is a dense simplex tableau. Rows 0..rows-1 hold the constraints,
// row rows holds reduced costs. Column layout is structural variables, one
// slack per constraint, one artificial per negative-bound constraint, then
// the right-hand side. The cost row stores c_j - c_B B^-1 a_j, and its
// right-hand side stores the negated objective value.
type tableau struct {
	t     *mat.Dense
	basis []int

	rows          int
	numStructural int
	numSlack      int
	numArtificial int
	rhs           int

	tol      float64
	rhsScale float64
}

func newTableau(m *Model, tol float64) *tableau {
	rows := len(m.constraints)
	n := len(m.variables)

	numArtificial := 0
	for _, c := range m.constraints {
		if c.Bound < 0 {
			numArtificial++
		}
	}

	tab := &tableau{
		basis:         make([]int, rows),
		rows:          rows,
		numStructural: n,
		numSlack:      rows,
		numArtificial: numArtificial,
		rhs:           n + rows + numArtificial,
		tol:           tol,
		rhsScale:      1,
	}
	tab.t = mat.NewDense(rows+1, tab.rhs+1, nil)

	artificial := n + rows
	for i, c := range m.constraints {
		tab.rhsScale = math.Max(tab.rhsScale, math.Abs(c.Bound))
		row := tab.t.RawRowView(i)
		sign := 1.0
		if c.Bound < 0 {
			sign = -1
		}
		for j, a := range c.Coefficients {
			row[j] = sign * a
		}
		row[n+i] = sign
		row[tab.rhs] = sign * c.Bound

		if c.Bound < 0 {
			row[artificial] = 1
			tab.basis[i] = artificial
			artificial++
		} else {
			tab.basis[i] = n + i
		}
	}

	return tab
}

func (tab *tableau) isArtificial(col int) bool {
	return col >= tab.numStructural+tab.numSlack && col < tab.rhs
}

func (tab *tableau) anyColumn(int) bool { return true }

func (tab *tableau) nonArtificialColumn(col int) bool { return !tab.isArtificial(col) }

// phaseOneCosts maximizes minus the sum of the artificial variables.
func (tab *tableau) phaseOneCosts() []float64 {
	costs := make([]float64, tab.rhs)
	for j := tab.numStructural + tab.numSlack; j < tab.rhs; j++ {
		costs[j] = -1
	}
	return costs
}

func (tab *tableau) phaseTwoCosts(objective []float64) []float64 {
	costs := make([]float64, tab.rhs)
	copy(costs, objective)
	return costs
}

// setCosts rebuilds the cost row from scratch for the current basis.
func (tab *tableau) setCosts(costs []float64) {
	costRow := tab.t.RawRowView(tab.rows)
	copy(costRow, costs)
	costRow[tab.rhs] = 0

	for i, b := range tab.basis {
		cb := costs[b]
		if cb == 0 {
			continue
		}
		row := tab.t.RawRowView(i)
		for j := range costRow {
			costRow[j] -= cb * row[j]
		}
	}
}

func (tab *tableau) optimize(run *pivotRun, allowed func(int) bool) (outcome, error) {
	for {
		col := tab.enteringColumn(allowed)
		if col < 0 {
			return outcomeOptimal, nil
		}
		row := tab.leavingRow(col)
		if row < 0 {
			return outcomeUnbounded, nil
		}
		if err := run.next(); err != nil {
			return outcomeOptimal, err
		}
		tab.pivot(row, col)
	}
}

// enteringColumn picks the lowest-index column with a positive reduced cost.
func (tab *tableau) enteringColumn(allowed func(int) bool) int {
	costRow := tab.t.RawRowView(tab.rows)
	for j := 0; j < tab.rhs; j++ {
		if costRow[j] > tab.tol && allowed(j) {
			return j
		}
	}
	return -1
}

// leavingRow applies the minimum-ratio test, breaking ties by the lowest basic
// variable index.
func (tab *tableau) leavingRow(col int) int {
	best := -1
	bestRatio := 0.0
	for i := 0; i < tab.rows; i++ {
		row := tab.t.RawRowView(i)
		a := row[col]
		if a <= tab.tol {
			continue
		}
		ratio := row[tab.rhs] / a
		switch {
		case best < 0, ratio < bestRatio-tab.tol:
			best, bestRatio = i, ratio
		case ratio <= bestRatio+tab.tol && tab.basis[i] < tab.basis[best]:
			best, bestRatio = i, ratio
		}
	}
	return best
}

// pivot performs Gauss-Jordan elimination on (row, col) and makes col basic in row.
func (tab *tableau) pivot(row, col int) {
	pivotRow := tab.t.RawRowView(row)
	p := pivotRow[col]
	for j := range pivotRow {
		pivotRow[j] /= p
	}
	pivotRow[col] = 1

	for i := 0; i <= tab.rows; i++ {
		if i == row {
			continue
		}
		r := tab.t.RawRowView(i)
		f := r[col]
		if f == 0 {
			continue
		}
		for j := range r {
			r[j] -= f * pivotRow[j]
		}
		r[col] = 0
	}

	tab.basis[row] = col
}

// infeasibility is the sum of artificial values left after phase one.
func (tab *tableau) infeasibility() float64 {
	return tab.t.At(tab.rows, tab.rhs)
}

// scale is the largest bound magnitude, at least 1, used to judge phase one residuals.
func (tab *tableau) scale() float64 {
	return tab.rhsScale
}

// dropArtificials pivots zero-valued artificials out of the basis. A row whose
// non-artificial entries are all zero is redundant and keeps its artificial,
// which can never re-enter or grow.
func (tab *tableau) dropArtificials() {
	for i, b := range tab.basis {
		if !tab.isArtificial(b) {
			continue
		}
		row := tab.t.RawRowView(i)
		for j := 0; j < tab.numStructural+tab.numSlack; j++ {
			if math.Abs(row[j]) > tab.tol {
				tab.pivot(i, j)
				break
			}
		}
	}
}

func (tab *tableau) primalValues() ([]float64, error) {
	values := make([]float64, tab.numStructural)
	for i, b := range tab.basis {
		if b >= tab.numStructural {
			continue
		}
		v := tab.t.At(i, tab.rhs)
		switch {
		case math.Abs(v) <= tab.tol:
			v = 0
		case v < 0:
			return nil, fmt.Errorf("%w: basic variable %d has value %g", ErrNumericBreakdown, b, v)
		}
		values[b] = v
	}
	return values, nil
}
