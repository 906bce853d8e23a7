package lp

import (
	"context"
	"fmt"
	"math"
)

const (
	// DefaultMaxIterations caps pivots across both simplex phases.
	DefaultMaxIterations = 10_000
	// DefaultTolerance is the magnitude below which values count as zero.
	DefaultTolerance = 1e-9
)

// Solver describes the behaviour required from an LP solver.
type Solver interface {
	Solve(ctx context.Context, m *Model) Solution
}

// Option configures a Solver built by New.
type Option func(*simplexSolver)

// WithMaxIterations overrides the pivot budget. Non-positive values keep the default.
func WithMaxIterations(n int) Option {
	return func(s *simplexSolver) {
		if n > 0 {
			s.maxIterations = n
		}
	}
}

// WithTolerance overrides the zero tolerance. Non-positive values keep the default.
func WithTolerance(eps float64) Option {
	return func(s *simplexSolver) {
		if eps > 0 {
			s.tolerance = eps
		}
	}
}

type simplexSolver struct {
	maxIterations int
	tolerance     float64
}

// New creates a Solver based on the two-phase simplex method with Bland's
// anti-cycling rule. The returned Solver is safe for concurrent use.
func New(opts ...Option) Solver {
	s := &simplexSolver{
		maxIterations: DefaultMaxIterations,
		tolerance:     DefaultTolerance,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *simplexSolver) Solve(ctx context.Context, m *Model) Solution {
	sol := Solution{Variables: m.VariableNames()}

	if err := m.check(); err != nil {
		return failed(sol, err)
	}

	tab := newTableau(m, s.tolerance)
	run := &pivotRun{ctx: ctx, limit: s.maxIterations}

	if tab.numArtificial > 0 {
		tab.setCosts(tab.phaseOneCosts())
		outcome, err := tab.optimize(run, tab.anyColumn)
		sol.Iterations = run.iterations
		if err != nil {
			return failed(sol, err)
		}
		if outcome == outcomeUnbounded {
			return failed(sol, fmt.Errorf("%w: auxiliary problem reported unbounded", ErrNumericBreakdown))
		}
		if tab.infeasibility() > s.tolerance*tab.scale() {
			sol.Status = StatusInfeasible
			return sol
		}
		tab.dropArtificials()
	}

	tab.setCosts(tab.phaseTwoCosts(m.objective.Coefficients))
	outcome, err := tab.optimize(run, tab.nonArtificialColumn)
	sol.Iterations = run.iterations
	if err != nil {
		return failed(sol, err)
	}
	if outcome == outcomeUnbounded {
		sol.Status = StatusUnbounded
		return sol
	}

	values, err := tab.primalValues()
	if err != nil {
		return failed(sol, err)
	}

	objective := 0.0
	for i, c := range m.objective.Coefficients {
		objective += c * values[i]
	}
	if math.Abs(objective) <= s.tolerance {
		objective = 0
	}

	// Values and objective must be finite; a bound over a tiny coefficient can overflow.
	for i, v := range values {
		if !isFinite(v) {
			return failed(sol, fmt.Errorf("%w: value of %s overflowed", ErrNumericBreakdown, sol.Variables[i]))
		}
	}
	if !isFinite(objective) {
		return failed(sol, fmt.Errorf("%w: objective overflowed", ErrNumericBreakdown))
	}

	sol.Status = StatusOptimal
	sol.Values = values
	sol.Objective = objective
	return sol
}

func failed(sol Solution, err error) Solution {
	sol.Status = StatusSolverError
	sol.Message = err.Error()
	return sol
}

// pivotRun carries the iteration budget shared by both phases of one solve.
type pivotRun struct {
	ctx        context.Context
	limit      int
	iterations int
}

func (r *pivotRun) next() error {
	if err := r.ctx.Err(); err != nil {
		return fmt.Errorf("solve cancelled: %w", err)
	}
	if r.iterations >= r.limit {
		return fmt.Errorf("%w after %d pivots", ErrIterationLimit, r.iterations)
	}
	r.iterations++
	return nil
}
