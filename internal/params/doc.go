// Package params turns raw tabular production data into a typed, sanity-checked
// ParameterSet. Field names follow the pattern ProcessingTime_<product>_Machine_<machine>,
// Capacity_Machine_<machine> and Price_<product> for the products and machines
// declared by a Layout.
package params
