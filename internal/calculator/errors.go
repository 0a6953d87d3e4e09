package calculator

import "fmt"

// InvalidRateError is returned when an expected-goal rate is not a positive
// finite number.
type InvalidRateError struct {
	Side string
	Rate float64
}

func (e *InvalidRateError) Error() string {
	return fmt.Sprintf("invalid %s rate %v: must be positive and finite", e.Side, e.Rate)
}

// InvalidRangeError is returned when max goals, a goal line or the half-time
// share falls outside its accepted range.
type InvalidRangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("%s %v is out of range [%v, %v]", e.Field, e.Value, e.Min, e.Max)
}

// InvariantViolationError is returned when a distribution handed to the
// calculator does not sum to 1.
type InvariantViolationError struct {
	What string
	Sum  float64
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("%s sums to %.12f, want 1", e.What, e.Sum)
}
