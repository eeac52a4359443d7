package valuation

import (
	"errors"
	"fmt"
)

// Step identifies the stage of a computation that failed.
type Step string

const (
	StepParse         Step = "parse"
	StepIntrinsicPE   Step = "intrinsic PE"
	StepOvervaluation Step = "degree of overvaluation"
)

// ParseError means a snapshot field is neither a decimal number nor "N/A".
type ParseError struct {
	Field string
	Text  string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %q is not a number", e.Field, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DivisionByZeroError means the assumptions (or an unavailable FY23 PE) make
// a denominator zero.
type DivisionByZeroError struct {
	Step Step
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("%s: division by zero", e.Step)
}

// NonFiniteError means a step produced an infinite or NaN result, which
// happens with extreme but finite inputs.
type NonFiniteError struct {
	Step Step
}

func (e *NonFiniteError) Error() string {
	return fmt.Sprintf("%s: result is not a finite number", e.Step)
}

// RangeError means an assumption lies outside its allowed domain.
type RangeError struct {
	Field   string
	Value   int
	Allowed []int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %d is not one of %v", e.Field, e.Value, e.Allowed)
}

// FailedStep returns the step an error from Compute belongs to, or "" when
// err is not a valuation error.
func FailedStep(err error) Step {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return StepParse
	}
	var divErr *DivisionByZeroError
	if errors.As(err, &divErr) {
		return divErr.Step
	}
	var nfErr *NonFiniteError
	if errors.As(err, &nfErr) {
		return nfErr.Step
	}
	return ""
}
