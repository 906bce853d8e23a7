// Package model translates a validated parameter set into a linear program.
package model

import (
	"github.com/eugenenazirov/production-optimizer/internal/lp"
	"github.com/eugenenazirov/production-optimizer/internal/params"
)

// VariableName names the decision variable holding units of a product.
func VariableName(product string) string {
	return "Product_" + product
}

// ConstraintLabel names the capacity constraint of a machine.
func ConstraintLabel(machine string) string {
	return "Machine_" + machine
}

// Build creates one variable per product, one capacity constraint per machine
// and a revenue objective from unit prices.
func Build(ps params.ParameterSet) *lp.Model {
	products := ps.Layout.Products
	machines := ps.Layout.Machines

	variables := make([]lp.Variable, len(products))
	for i, p := range products {
		variables[i] = lp.Variable{Name: VariableName(p)}
	}

	constraints := make([]lp.Constraint, len(machines))
	for j, m := range machines {
		coeffs := make([]float64, len(products))
		for i := range products {
			coeffs[i] = ps.ProcessingTime[i][j]
		}
		constraints[j] = lp.Constraint{
			Label:        ConstraintLabel(m),
			Coefficients: coeffs,
			Bound:        ps.Capacity[j],
		}
	}

	return lp.NewModel(variables, lp.Objective{Coefficients: ps.Price}, constraints...)
}
