package params

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation is wrapped by every error returned from Validate and ReadCSV.
	ErrValidation = errors.New("invalid production parameters")
	// ErrInvalidLayout is returned when a layout declares unusable products or machines.
	ErrInvalidLayout = errors.New("layout must declare between 1 and 50 unique alphanumeric products and machines")
)

// MissingFieldsError lists every required field absent from the input.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

func (e *MissingFieldsError) Unwrap() error { return ErrValidation }

// NonNumericError lists every required field holding a value that is not a finite number.
type NonNumericError struct {
	Fields []string
}

func (e *NonNumericError) Error() string {
	return fmt.Sprintf("non-numeric values in required fields: %s", strings.Join(e.Fields, ", "))
}

func (e *NonNumericError) Unwrap() error { return ErrValidation }

// NegativeValueError lists every required field holding a negative value.
type NegativeValueError struct {
	Fields []string
}

func (e *NegativeValueError) Error() string {
	return fmt.Sprintf("negative values in required fields: %s", strings.Join(e.Fields, ", "))
}

func (e *NegativeValueError) Unwrap() error { return ErrValidation }

// RowCountError reports input that does not hold exactly one row of parameters.
type RowCountError struct {
	Count int
}

func (e *RowCountError) Error() string {
	return fmt.Sprintf("expected exactly one row of parameters, got %d", e.Count)
}

func (e *RowCountError) Unwrap() error { return ErrValidation }

// ReadError reports input that could not be read as a table at all.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("unable to read parameter table: %v", e.Err)
}

func (e *ReadError) Unwrap() []error { return []error{ErrValidation, e.Err} }
