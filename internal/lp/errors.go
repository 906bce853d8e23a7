package lp

import "errors"

var (
	// ErrMalformedModel is reported when a model's shape or entries cannot be solved.
	ErrMalformedModel = errors.New("malformed model")
	// ErrIterationLimit is reported when the simplex iteration budget runs out.
	ErrIterationLimit = errors.New("simplex iteration limit exceeded")
	// ErrNumericBreakdown is reported when the tableau drifts into an inconsistent state.
	ErrNumericBreakdown = errors.New("numeric breakdown")
)
