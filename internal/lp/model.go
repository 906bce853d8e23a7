package lp

import (
	"fmt"
	"math"
	"slices"
)

// Variable is a continuous decision variable bounded below by zero and unbounded above.
type Variable struct {
	Name string
}

// Constraint is the inequality sum(Coefficients[i] * x[i]) <= Bound.
type Constraint struct {
	Label        string
	Coefficients []float64
	Bound        float64
}

// Objective is the linear expression sum(Coefficients[i] * x[i]) to maximize.
type Objective struct {
	Coefficients []float64
}

// Model is an immutable linear program. Use NewModel to build one.
type Model struct {
	variables   []Variable
	objective   Objective
	constraints []Constraint
}

// NewModel copies its arguments into a new Model. Shape mismatches are not
// rejected here; Solve reports them as a SolverError.
func NewModel(variables []Variable, objective Objective, constraints ...Constraint) *Model {
	m := &Model{
		variables:   slices.Clone(variables),
		objective:   Objective{Coefficients: slices.Clone(objective.Coefficients)},
		constraints: make([]Constraint, len(constraints)),
	}
	for i, c := range constraints {
		m.constraints[i] = Constraint{
			Label:        c.Label,
			Coefficients: slices.Clone(c.Coefficients),
			Bound:        c.Bound,
		}
	}
	return m
}

// Variables returns a copy of the model variables in declaration order.
func (m *Model) Variables() []Variable {
	return slices.Clone(m.variables)
}

// Objective returns a copy of the objective.
func (m *Model) Objective() Objective {
	return Objective{Coefficients: slices.Clone(m.objective.Coefficients)}
}

// Constraints returns a copy of the constraints in declaration order.
func (m *Model) Constraints() []Constraint {
	out := make([]Constraint, len(m.constraints))
	for i, c := range m.constraints {
		out[i] = Constraint{Label: c.Label, Coefficients: slices.Clone(c.Coefficients), Bound: c.Bound}
	}
	return out
}

// VariableNames lists variable names in declaration order.
func (m *Model) VariableNames() []string {
	names := make([]string, len(m.variables))
	for i, v := range m.variables {
		names[i] = v.Name
	}
	return names
}

func (m *Model) check() error {
	n := len(m.variables)
	if n == 0 {
		return fmt.Errorf("%w: model has no variables", ErrMalformedModel)
	}
	if len(m.objective.Coefficients) != n {
		return fmt.Errorf("%w: objective has %d coefficients for %d variables",
			ErrMalformedModel, len(m.objective.Coefficients), n)
	}
	if !allFinite(m.objective.Coefficients) {
		return fmt.Errorf("%w: objective has a non-finite coefficient", ErrMalformedModel)
	}
	for _, c := range m.constraints {
		if len(c.Coefficients) != n {
			return fmt.Errorf("%w: constraint %q has %d coefficients for %d variables",
				ErrMalformedModel, c.Label, len(c.Coefficients), n)
		}
		if !allFinite(c.Coefficients) || !isFinite(c.Bound) {
			return fmt.Errorf("%w: constraint %q has a non-finite entry", ErrMalformedModel, c.Label)
		}
	}
	return nil
}

func allFinite(values []float64) bool {
	for _, v := range values {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
