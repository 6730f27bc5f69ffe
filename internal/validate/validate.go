// Package validate provides the shared invalid-parameter error kind used by
// the numeric entry points of the genetics engine.
package validate

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is the sentinel matched by every *ParameterError.
var ErrInvalidParameter = errors.New("invalid parameter")

// ParameterError reports a numeric input outside its documented domain.
type ParameterError struct {
	Name   string // parameter name, e.g. "initialP"
	Value  any    // offending value
	Reason string // e.g. "must be in [0, 1]"
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Name, e.Value, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalidParameter) match.
func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// Closed checks lo <= v <= hi. NaN is always rejected.
func Closed(name string, v, lo, hi float64) error {
	if v != v || v < lo || v > hi {
		return &ParameterError{Name: name, Value: v, Reason: fmt.Sprintf("must be in [%g, %g]", lo, hi)}
	}
	return nil
}

// HalfOpen checks lo <= v < hi. NaN is always rejected.
func HalfOpen(name string, v, lo, hi float64) error {
	if v != v || v < lo || v >= hi {
		return &ParameterError{Name: name, Value: v, Reason: fmt.Sprintf("must be in [%g, %g)", lo, hi)}
	}
	return nil
}

// AtLeast checks v >= min.
func AtLeast[T int | int64](name string, v, lo T) error {
	if v < lo {
		return &ParameterError{Name: name, Value: v, Reason: fmt.Sprintf("must be >= %d", lo)}
	}
	return nil
}
