package game

import (
	"errors"
	"fmt"
	"math"
)

// Run control failures, wrapped in a RunError.
var (
	ErrNegativeYears      = errors.New("number of years must be non-negative")
	ErrFractionalYears    = errors.New("number of years must be a whole number")
	ErrIntervalExceedsRun = errors.New("snapshot interval exceeds number of years")
	ErrInvalidInterval    = errors.New("snapshot interval must be positive")
)

// Deployment failures, wrapped in a DeploymentError.
var (
	ErrLocation     = errors.New("invalid location")
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidValue = errors.New("invalid value")
)

// RunError reports invalid run control input.
type RunError struct {
	Years float64
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run %v years: %v", e.Years, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// DeploymentError reports an invalid entry in a deployment request. Index is
// the 0-based position of the entry in the request.
type DeploymentError struct {
	Index  int
	Detail string
	Err    error
}

func (e *DeploymentError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("deployment %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("deployment %d: %v: %s", e.Index, e.Err, e.Detail)
}

func (e *DeploymentError) Unwrap() error { return e.Err }

// YearsFromFloat converts a year count read from configuration or flags,
// rejecting negative and fractional values.
func YearsFromFloat(years float64) (int, error) {
	if math.IsNaN(years) || math.IsInf(years, 0) || years != math.Trunc(years) {
		return 0, &RunError{Years: years, Err: ErrFractionalYears}
	}
	if years < 0 {
		return 0, &RunError{Years: years, Err: ErrNegativeYears}
	}
	return int(years), nil
}
