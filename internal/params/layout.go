package params

import (
	"fmt"
	"regexp"
	"slices"
)

const maxLayoutEntries = 50

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Layout declares the products and machines of a problem instance.
type Layout struct {
	Products []string `json:"products" yaml:"products"`
	Machines []string `json:"machines" yaml:"machines"`
}

// DefaultLayout returns the two-product, two-machine layout.
func DefaultLayout() Layout {
	return Layout{
		Products: []string{"A", "B"},
		Machines: []string{"1", "2"},
	}
}

// Clone returns a deep copy of the layout.
func (l Layout) Clone() Layout {
	return Layout{
		Products: slices.Clone(l.Products),
		Machines: slices.Clone(l.Machines),
	}
}

// Validate checks that products and machines are non-empty, unique and alphanumeric.
func (l Layout) Validate() error {
	for _, ids := range [][]string{l.Products, l.Machines} {
		if len(ids) == 0 || len(ids) > maxLayoutEntries {
			return ErrInvalidLayout
		}
		seen := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			if !identifierPattern.MatchString(id) {
				return fmt.Errorf("%w: invalid identifier %q", ErrInvalidLayout, id)
			}
			if _, dup := seen[id]; dup {
				return fmt.Errorf("%w: duplicate identifier %q", ErrInvalidLayout, id)
			}
			seen[id] = struct{}{}
		}
	}
	return nil
}

// RequiredFields lists the field names an input must carry for this layout:
// processing times (machine-major), then capacities, then prices.
func (l Layout) RequiredFields() []string {
	fields := make([]string, 0, len(l.Products)*len(l.Machines)+len(l.Machines)+len(l.Products))
	for _, m := range l.Machines {
		for _, p := range l.Products {
			fields = append(fields, ProcessingTimeField(p, m))
		}
	}
	for _, m := range l.Machines {
		fields = append(fields, CapacityField(m))
	}
	for _, p := range l.Products {
		fields = append(fields, PriceField(p))
	}
	return fields
}

// ProcessingTimeField names the time product p needs on machine m.
func ProcessingTimeField(product, machine string) string {
	return "ProcessingTime_" + product + "_Machine_" + machine
}

// CapacityField names the available capacity of machine m.
func CapacityField(machine string) string {
	return "Capacity_Machine_" + machine
}

// PriceField names the unit price of product p.
func PriceField(product string) string {
	return "Price_" + product
}

var legacyFields = []struct {
	pattern *regexp.Regexp
	rewrite func(groups []string) string
}{
	{
		pattern: regexp.MustCompile(`^Product_([A-Za-z0-9]+)_Production_Time_Machine_([A-Za-z0-9]+)$`),
		rewrite: func(g []string) string { return ProcessingTimeField(g[1], g[2]) },
	},
	{
		pattern: regexp.MustCompile(`^Machine_([A-Za-z0-9]+)_Available_Hours$`),
		rewrite: func(g []string) string { return CapacityField(g[1]) },
	},
	{
		pattern: regexp.MustCompile(`^Price_Product_([A-Za-z0-9]+)$`),
		rewrite: func(g []string) string { return PriceField(g[1]) },
	},
}

// CanonicalField maps legacy column names such as Product_A_Production_Time_Machine_1,
// Machine_1_Available_Hours and Price_Product_A onto the current naming.
// Any other name is returned unchanged.
func CanonicalField(name string) string {
	for _, lf := range legacyFields {
		if groups := lf.pattern.FindStringSubmatch(name); groups != nil {
			return lf.rewrite(groups)
		}
	}
	return name
}
