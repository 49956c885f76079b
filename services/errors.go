package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// ErrMissingParameters is returned when a quotation is calculated
	// without pricing parameters.
	ErrMissingParameters = errors.New("quotation has no pricing parameters")

	// ErrNotCalculated is returned when statistics are requested before the
	// quotation totals were calculated.
	ErrNotCalculated = errors.New("quotation has not been calculated")

	// ErrNotFound is returned when a quotation, item, assembly or component
	// record does not exist.
	ErrNotFound = errors.New("record not found")
)

// InvalidRateError reports a non-positive exchange rate.
type InvalidRateError struct {
	Field string
	Value float64
}

func (e *InvalidRateError) Error() string {
	return fmt.Sprintf("invalid exchange rate %s=%v: must be greater than zero", e.Field, e.Value)
}

// InvalidParameterError reports a quotation parameter outside its domain,
// such as a non-positive markup coefficient or a negative VAT rate.
type InvalidParameterError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Field, e.Value, e.Reason)
}

// ValidationError carries field-level messages for an item, system or
// parameter set.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// fromOzzo converts ozzo-validation output into a *ValidationError. Internal
// rule errors are returned unchanged.
func fromOzzo(err error) error {
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for field, fe := range verrs {
		if fe != nil {
			out.Fields[field] = fe.Error()
		}
	}
	if len(out.Fields) == 0 {
		return nil
	}
	return out
}
