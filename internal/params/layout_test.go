package params

import (
	"errors"
	"slices"
	"strconv"
	"testing"
)

func TestDefaultLayoutRequiredFields(t *testing.T) {
	t.Parallel()

	want := []string{
		"ProcessingTime_A_Machine_1",
		"ProcessingTime_B_Machine_1",
		"ProcessingTime_A_Machine_2",
		"ProcessingTime_B_Machine_2",
		"Capacity_Machine_1",
		"Capacity_Machine_2",
		"Price_A",
		"Price_B",
	}
	if got := DefaultLayout().RequiredFields(); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestLayoutValidate(t *testing.T) {
	t.Parallel()

	tooMany := make([]string, maxLayoutEntries+1)
	for i := range tooMany {
		tooMany[i] = "P" + strconv.Itoa(i)
	}

	invalid := []Layout{
		{},
		{Products: []string{"A"}},
		{Products: []string{"A", "A"}, Machines: []string{"1"}},
		{Products: []string{"A"}, Machines: []string{"machine one"}},
		{Products: []string{""}, Machines: []string{"1"}},
		{Products: tooMany, Machines: []string{"1"}},
	}
	for i, layout := range invalid {
		if err := layout.Validate(); !errors.Is(err, ErrInvalidLayout) {
			t.Fatalf("case %d: expected ErrInvalidLayout for %+v, got %v", i, layout, err)
		}
	}

	if err := DefaultLayout().Validate(); err != nil {
		t.Fatalf("default layout should be valid: %v", err)
	}
}

func TestLayoutCloneIsIndependent(t *testing.T) {
	t.Parallel()

	original := DefaultLayout()
	clone := original.Clone()
	clone.Products[0] = "Z"
	if original.Products[0] != "A" {
		t.Fatalf("expected clone mutation not to leak, got %v", original.Products)
	}
}

func TestCanonicalField(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Product_A_Production_Time_Machine_1": "ProcessingTime_A_Machine_1",
		"Product_B_Production_Time_Machine_2": "ProcessingTime_B_Machine_2",
		"Machine_1_Available_Hours":           "Capacity_Machine_1",
		"Price_Product_B":                     "Price_B",
		"Price_B":                             "Price_B",
		"Unrelated":                           "Unrelated",
	}
	for in, want := range tests {
		if got := CanonicalField(in); got != want {
			t.Fatalf("CanonicalField(%q) = %q, want %q", in, got, want)
		}
	}
}
