package lp

// Status tags the outcome of a solve.
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
	StatusSolverError
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "Optimal"
	case StatusInfeasible:
		return "Infeasible"
	case StatusUnbounded:
		return "Unbounded"
	default:
		return "SolverError"
	}
}

// Solution is the outcome of Solve. Values and Objective are meaningful only
// when Status is StatusOptimal; Message explains a StatusSolverError.
type Solution struct {
	Status     Status
	Variables  []string
	Values     []float64
	Objective  float64
	Message    string
	Iterations int
}

// IsOptimal reports whether the solve found an optimal vertex.
func (s Solution) IsOptimal() bool {
	return s.Status == StatusOptimal
}

// Value returns the value of the named variable in an optimal solution.
func (s Solution) Value(name string) (float64, bool) {
	if !s.IsOptimal() {
		return 0, false
	}
	for i, v := range s.Variables {
		if v == name {
			return s.Values[i], true
		}
	}
	return 0, false
}
