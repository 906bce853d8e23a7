// Package result shapes solver output into display-ready values.
package result

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/eugenenazirov/production-optimizer/internal/lp"
)

const displayPrecision = 100

// ObjectiveKey is the JSON key of the objective value.
const ObjectiveKey = "objectiveValue"

// VariableValue is one rounded decision value. Value is nil when the solve
// did not produce a plan.
type VariableValue struct {
	Name  string
	Value *float64
}

// Result is the presentation-ready outcome of a solve.
type Result struct {
	Status         string
	Variables      []VariableValue
	ObjectiveValue *float64
	Error          string
}

// Optimal reports whether the result carries a production plan.
func (r Result) Optimal() bool {
	return r.Status == lp.StatusOptimal.String()
}

// Format maps a solution to a Result. Numbers are rounded to two decimals on
// success and left absent otherwise.
func Format(sol lp.Solution) Result {
	res := Result{
		Status:    sol.Status.String(),
		Variables: make([]VariableValue, len(sol.Variables)),
	}
	for i, name := range sol.Variables {
		res.Variables[i] = VariableValue{Name: name}
	}

	if !sol.IsOptimal() {
		res.Error = failureMessage(sol)
		return res
	}

	for i := range res.Variables {
		v := Round(sol.Values[i])
		res.Variables[i].Value = &v
	}
	obj := Round(sol.Objective)
	res.ObjectiveValue = &obj
	return res
}

// maxFractional is the magnitude above which every float64 is a whole number.
const maxFractional = 1 << 52

// Round rounds to two decimals and folds negative zero into zero.
func Round(v float64) float64 {
	if math.Abs(v) >= maxFractional {
		return v
	}
	r := math.Round(v*displayPrecision) / displayPrecision
	if r == 0 {
		return 0
	}
	return r
}

func failureMessage(sol lp.Solution) string {
	switch sol.Status {
	case lp.StatusInfeasible:
		return "no production plan satisfies every machine capacity constraint"
	case lp.StatusUnbounded:
		return "revenue can grow without limit: at least one priced product needs no measurable capacity on any machine"
	default:
		if sol.Message == "" {
			return "the solver failed without reporting a reason"
		}
		return fmt.Sprintf("the solver failed: %s", sol.Message)
	}
}

// MarshalJSON writes status, each variable, the objective value and the error
// message in that order. Absent numbers are written as null.
func (r Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	if err := writeField(&buf, "status", r.Status); err != nil {
		return nil, err
	}
	for _, v := range r.Variables {
		buf.WriteByte(',')
		if err := writeField(&buf, v.Name, v.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte(',')
	if err := writeField(&buf, ObjectiveKey, r.ObjectiveValue); err != nil {
		return nil, err
	}
	if r.Error != "" {
		buf.WriteByte(',')
		if err := writeField(&buf, "error", r.Error); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeField(buf *bytes.Buffer, key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}
