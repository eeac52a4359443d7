package valuation

import (
	"fmt"
	"math"

	"intrinsicpe/finance"
)

// Policy decides what happens to the overvaluation step when the intrinsic
// PE comes out as zero.
type Policy string

const (
	// PolicyStrict divides anyway and reports a DivisionByZeroError.
	PolicyStrict Policy = "strict"
	// PolicyZeroOnUnavailable reports an overvaluation of 0 instead.
	PolicyZeroOnUnavailable Policy = "zero"
)

// ParsePolicy maps a config string to a Policy. Empty means PolicyStrict.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyStrict:
		return PolicyStrict, nil
	case PolicyZeroOnUnavailable:
		return PolicyZeroOnUnavailable, nil
	}
	return "", fmt.Errorf("unknown overvaluation policy %q", s)
}

// Result is the output of one valuation.
type Result struct {
	IntrinsicPE           float64 `json:"intrinsic_pe"`
	DegreeOfOvervaluation float64 `json:"degree_of_overvaluation"`
}

// Engine computes valuations. The zero value uses PolicyStrict.
type Engine struct {
	Policy Policy
}

// NewEngine creates an engine with the given policy
func NewEngine(policy Policy) *Engine {
	return &Engine{Policy: policy}
}

// ComputeValuation runs a strict engine.
func ComputeValuation(s finance.FinancialSnapshot, a Assumptions) (Result, error) {
	return Engine{}.Compute(s, a)
}

// Compute derives the intrinsic PE from the FY23 PE with a single-stage
// growth formula and compares the current PE against it:
//
//	intrinsic     = fy23 * (1 + g) / (k - g)
//	overvaluation = (current - intrinsic) / intrinsic * 100
//
// k is CostOfCapital and g is TerminalGrowthRate, used as given.
func (e Engine) Compute(s finance.FinancialSnapshot, a Assumptions) (Result, error) {
	fy23, err := ParseValue("fy23_pe", s.FY23PE)
	if err != nil {
		return Result{}, err
	}
	current, err := ParseValue("current_pe", s.CurrentPE)
	if err != nil {
		return Result{}, err
	}

	intrinsic, err := intrinsicPE(fy23, a)
	if err != nil {
		return Result{}, err
	}

	// intrinsic is always numeric at this point, so there is no N/A guard.
	// A zero intrinsic PE (from an N/A or zero FY23 PE) goes to the policy.
	if intrinsic == 0 {
		if e.Policy == PolicyZeroOnUnavailable {
			return Result{IntrinsicPE: intrinsic}, nil
		}
		return Result{}, &DivisionByZeroError{Step: StepOvervaluation}
	}

	over := (current.Float() - intrinsic) / intrinsic * 100
	if !isFinite(over) {
		return Result{}, &NonFiniteError{Step: StepOvervaluation}
	}
	return Result{
		IntrinsicPE:           intrinsic,
		DegreeOfOvervaluation: over,
	}, nil
}

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

func intrinsicPE(fy23 Value, a Assumptions) (float64, error) {
	if !fy23.Available() {
		return 0, nil
	}

	k := float64(a.CostOfCapital)
	g := float64(a.TerminalGrowthRate)
	if k == g {
		return 0, &DivisionByZeroError{Step: StepIntrinsicPE}
	}
	intrinsic := fy23.Float() * (1 + g) / (k - g)
	if !isFinite(intrinsic) {
		return 0, &NonFiniteError{Step: StepIntrinsicPE}
	}
	return intrinsic, nil
}
