package params

import (
	"math"
	"strconv"
	"strings"
)

// Record is one raw row of named values.
type Record map[string]string

// Input is a raw parameter table. Header lists the available columns when the
// source exposes them; when nil, a field counts as present only if every
// record carries it.
type Input struct {
	Header  []string
	Records []Record
}

// ParameterSet is a validated problem instance. ProcessingTime is indexed
// [product][machine] following the order of Layout.
type ParameterSet struct {
	Layout         Layout
	ProcessingTime [][]float64
	Capacity       []float64
	Price          []float64
}

// Validate checks the input against the layout and returns the typed parameter set.
// Checks run in a fixed order: missing fields, non-numeric values, negative
// values, then row count. Input with neither a header nor records has nothing
// to inspect and fails the row count check straight away.
func Validate(layout Layout, in Input) (ParameterSet, error) {
	if err := layout.Validate(); err != nil {
		return ParameterSet{}, err
	}
	if in.Header == nil && len(in.Records) == 0 {
		return ParameterSet{}, &RowCountError{Count: 0}
	}

	required := layout.RequiredFields()

	available := availableFields(in)
	var missing []string
	for _, field := range required {
		if _, ok := available[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return ParameterSet{}, &MissingFieldsError{Fields: missing}
	}

	parsed := make([]map[string]float64, len(in.Records))
	nonNumeric := make(map[string]struct{})
	for i, rec := range in.Records {
		parsed[i] = make(map[string]float64, len(required))
		for _, field := range required {
			value, ok := parseValue(rec[field])
			if !ok {
				nonNumeric[field] = struct{}{}
				continue
			}
			parsed[i][field] = value
		}
	}
	if len(nonNumeric) > 0 {
		return ParameterSet{}, &NonNumericError{Fields: inOrder(required, nonNumeric)}
	}

	negative := make(map[string]struct{})
	for _, values := range parsed {
		for _, field := range required {
			if values[field] < 0 {
				negative[field] = struct{}{}
			}
		}
	}
	if len(negative) > 0 {
		return ParameterSet{}, &NegativeValueError{Fields: inOrder(required, negative)}
	}

	if len(in.Records) != 1 {
		return ParameterSet{}, &RowCountError{Count: len(in.Records)}
	}

	return newParameterSet(layout, parsed[0]), nil
}

func newParameterSet(layout Layout, values map[string]float64) ParameterSet {
	ps := ParameterSet{
		Layout:         layout.Clone(),
		ProcessingTime: make([][]float64, len(layout.Products)),
		Capacity:       make([]float64, len(layout.Machines)),
		Price:          make([]float64, len(layout.Products)),
	}
	for i, p := range layout.Products {
		ps.ProcessingTime[i] = make([]float64, len(layout.Machines))
		for j, m := range layout.Machines {
			ps.ProcessingTime[i][j] = values[ProcessingTimeField(p, m)]
		}
		ps.Price[i] = values[PriceField(p)]
	}
	for j, m := range layout.Machines {
		ps.Capacity[j] = values[CapacityField(m)]
	}
	return ps
}

func availableFields(in Input) map[string]struct{} {
	available := make(map[string]struct{})
	if in.Header != nil {
		for _, name := range in.Header {
			available[name] = struct{}{}
		}
		return available
	}

	for name := range in.Records[0] {
		available[name] = struct{}{}
	}
	for _, rec := range in.Records[1:] {
		for name := range available {
			if _, ok := rec[name]; !ok {
				delete(available, name)
			}
		}
	}
	return available
}

func parseValue(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

func inOrder(fields []string, set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for _, field := range fields {
		if _, ok := set[field]; ok {
			out = append(out, field)
		}
	}
	return out
}
