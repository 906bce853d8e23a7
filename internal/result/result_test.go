package result

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/eugenenazirov/production-optimizer/internal/lp"
)

func optimalSolution() lp.Solution {
	return lp.Solution{
		Status:    lp.StatusOptimal,
		Variables: []string{"Product_A", "Product_B"},
		Values:    []float64{33.333333, 0.004},
		Objective: 1000.0049,
	}
}

func TestFormatOptimalRoundsValues(t *testing.T) {
	t.Parallel()

	res := Format(optimalSolution())

	if res.Status != "Optimal" || !res.Optimal() {
		t.Fatalf("expected Optimal status, got %s", res.Status)
	}
	if res.Error != "" {
		t.Fatalf("expected no error, got %q", res.Error)
	}
	if got := *res.Variables[0].Value; got != 33.33 {
		t.Fatalf("expected 33.33, got %v", got)
	}
	if got := *res.Variables[1].Value; got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := *res.ObjectiveValue; got != 1000 {
		t.Fatalf("expected 1000, got %v", got)
	}
}

func TestFormatNonOptimalLeavesNumbersAbsent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status  lp.Status
		message string
		want    string
	}{
		{status: lp.StatusInfeasible, want: "no production plan"},
		{status: lp.StatusUnbounded, want: "needs no measurable capacity"},
		{status: lp.StatusSolverError, message: "simplex iteration limit exceeded", want: "simplex iteration limit exceeded"},
		{status: lp.StatusSolverError, want: "without reporting a reason"},
	}

	for _, tc := range tests {
		res := Format(lp.Solution{Status: tc.status, Variables: []string{"Product_A"}, Message: tc.message})

		if res.Status != tc.status.String() {
			t.Fatalf("expected status %s, got %s", tc.status, res.Status)
		}
		if res.ObjectiveValue != nil || res.Variables[0].Value != nil {
			t.Fatalf("expected absent numbers for %s, got %+v", tc.status, res)
		}
		if !strings.Contains(res.Error, tc.want) {
			t.Fatalf("expected error containing %q, got %q", tc.want, res.Error)
		}
	}
}

func TestMarshalJSONOptimal(t *testing.T) {
	t.Parallel()

	sol := lp.Solution{
		Status:    lp.StatusOptimal,
		Variables: []string{"Product_A", "Product_B"},
		Values:    []float64{60, 0},
		Objective: 1500,
	}
	data, err := json.Marshal(Format(sol))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"status":"Optimal","Product_A":60,"Product_B":0,"objectiveValue":1500}`
	if string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}
}

func TestMarshalJSONFailureUsesNull(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Format(lp.Solution{Status: lp.StatusUnbounded, Variables: []string{"Product_A", "Product_B"}}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"Product_A", "Product_B", ObjectiveKey} {
		v, ok := decoded[key]
		if !ok || v != nil {
			t.Fatalf("expected %s to be null, got %v (present=%v)", key, v, ok)
		}
	}
	if decoded["status"] != "Unbounded" || decoded["error"] == "" {
		t.Fatalf("unexpected payload %s", data)
	}
}

func TestFormatIsDeterministic(t *testing.T) {
	t.Parallel()

	first, err := json.Marshal(Format(optimalSolution()))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := json.Marshal(Format(optimalSolution()))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("expected identical output, got %s and %s", first, again)
		}
	}
}

func TestRound(t *testing.T) {
	t.Parallel()

	tests := map[float64]float64{
		1.005:    1,
		2.675:    2.68,
		-0.001:   0,
		59.99999: 60,
		0:        0,
		1e300:    1e300,
		-1e20:    -1e20,
	}
	for in, want := range tests {
		if got := Round(in); got != want {
			t.Fatalf("Round(%v) = %v, want %v", in, got, want)
		}
	}
}
