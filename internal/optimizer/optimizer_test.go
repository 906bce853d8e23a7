package optimizer

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/eugenenazirov/production-optimizer/internal/lp"
	"github.com/eugenenazirov/production-optimizer/internal/params"
)

func scenario(values map[string]string) params.Input {
	rec := params.Record{
		"ProcessingTime_A_Machine_1": "10",
		"ProcessingTime_B_Machine_1": "15",
		"Capacity_Machine_1":         "600",
		"ProcessingTime_A_Machine_2": "5",
		"ProcessingTime_B_Machine_2": "8",
		"Capacity_Machine_2":         "480",
		"Price_A":                    "25",
		"Price_B":                    "30",
	}
	for k, v := range values {
		rec[k] = v
	}
	return params.Input{Records: []params.Record{rec}}
}

func TestOptimizeScenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		overrides map[string]string
		wantA     float64
		wantB     float64
		wantObj   float64
	}{
		{name: "ScenarioA", wantA: 60, wantB: 0, wantObj: 1500},
		{
			name: "ScenarioB",
			overrides: map[string]string{
				"Price_A": "10", "Price_B": "50",
				"ProcessingTime_A_Machine_1": "10", "ProcessingTime_B_Machine_1": "5", "Capacity_Machine_1": "300",
				"ProcessingTime_A_Machine_2": "5", "ProcessingTime_B_Machine_2": "10", "Capacity_Machine_2": "600",
			},
			wantA: 0, wantB: 60, wantObj: 3000,
		},
		{
			name:      "ScenarioC",
			overrides: map[string]string{"Capacity_Machine_1": "0", "Capacity_Machine_2": "0"},
			wantA:     0, wantB: 0, wantObj: 0,
		},
	}

	svc := New(lp.New(), zaptest.NewLogger(t))
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			res, err := svc.Optimize(context.Background(), params.DefaultLayout(), scenario(tc.overrides))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Status != "Optimal" {
				t.Fatalf("expected Optimal, got %s (%s)", res.Status, res.Error)
			}
			if got := *res.Variables[0].Value; got != tc.wantA {
				t.Fatalf("expected A=%v, got %v", tc.wantA, got)
			}
			if got := *res.Variables[1].Value; got != tc.wantB {
				t.Fatalf("expected B=%v, got %v", tc.wantB, got)
			}
			if got := *res.ObjectiveValue; got != tc.wantObj {
				t.Fatalf("expected objective %v, got %v", tc.wantObj, got)
			}
		})
	}
}

type recordingSolver struct {
	calls int
}

func (r *recordingSolver) Solve(context.Context, *lp.Model) lp.Solution {
	r.calls++
	return lp.Solution{Status: lp.StatusSolverError, Message: "boom"}
}

func TestOptimizeStopsOnValidationFailure(t *testing.T) {
	t.Parallel()

	solver := &recordingSolver{}
	svc := New(solver, zaptest.NewLogger(t))

	_, err := svc.Optimize(context.Background(), params.DefaultLayout(), scenario(map[string]string{"Price_A": "-1"}))
	if !errors.Is(err, params.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if solver.calls != 0 {
		t.Fatalf("expected solver not to run, got %d calls", solver.calls)
	}
}

func TestOptimizeLogsSolverErrors(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	svc := New(&recordingSolver{}, zap.New(core))

	res, err := svc.Optimize(context.Background(), params.DefaultLayout(), scenario(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != "SolverError" || res.ObjectiveValue != nil {
		t.Fatalf("unexpected result %+v", res)
	}
	if logs.FilterMessage("solver failed").Len() != 1 {
		t.Fatalf("expected one warning, got %v", logs.All())
	}
}

type deadlineSolver struct {
	hasDeadline bool
}

func (d *deadlineSolver) Solve(ctx context.Context, m *lp.Model) lp.Solution {
	_, d.hasDeadline = ctx.Deadline()
	return lp.New().Solve(ctx, m)
}

func TestOptimizeAppliesSolveTimeout(t *testing.T) {
	t.Parallel()

	solver := &deadlineSolver{}
	svc := New(solver, nil, WithSolveTimeout(time.Second))

	if _, err := svc.Optimize(context.Background(), params.DefaultLayout(), scenario(nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !solver.hasDeadline {
		t.Fatalf("expected solve context to carry a deadline")
	}
}
