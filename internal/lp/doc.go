// Package lp holds linear program models of the form
//
//	maximize c·x subject to Ax <= b, x >= 0
//
// and a two-phase simplex solver for them. Solver outcomes, including
// infeasibility and unboundedness, are reported as Solution values.
package lp
