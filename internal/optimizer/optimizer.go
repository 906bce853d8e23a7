// Package optimizer runs the validate, build, solve and format pipeline.
package optimizer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/production-optimizer/internal/lp"
	"github.com/eugenenazirov/production-optimizer/internal/model"
	"github.com/eugenenazirov/production-optimizer/internal/params"
	"github.com/eugenenazirov/production-optimizer/internal/result"
)

// Service computes revenue-maximizing production plans.
type Service struct {
	solver  lp.Solver
	logger  *zap.Logger
	timeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithSolveTimeout bounds each solve with a deadline. Zero disables it.
func WithSolveTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

// New constructs a Service around the given solver.
func New(solver lp.Solver, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{solver: solver, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Optimize validates the input against layout and solves the resulting model.
// Validation failures are returned as errors wrapping params.ErrValidation and
// stop the pipeline before a model is built. Every solver outcome, including
// infeasible and unbounded models, comes back as a Result.
func (s *Service) Optimize(ctx context.Context, layout params.Layout, in params.Input) (result.Result, error) {
	ps, err := params.Validate(layout, in)
	if err != nil {
		return result.Result{}, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	sol := s.solver.Solve(ctx, model.Build(ps))
	elapsed := time.Since(start)

	fields := []zap.Field{
		zap.String("status", sol.Status.String()),
		zap.Int("products", len(layout.Products)),
		zap.Int("machines", len(layout.Machines)),
		zap.Int("iterations", sol.Iterations),
		zap.Duration("duration", elapsed),
	}
	if sol.Status == lp.StatusSolverError {
		s.logger.Warn("solver failed", append(fields, zap.String("reason", sol.Message))...)
	} else {
		s.logger.Debug("model solved", fields...)
	}

	return result.Format(sol), nil
}
