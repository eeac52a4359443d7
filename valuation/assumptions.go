package valuation

import "golang.org/x/exp/slices"

// Assumptions are the user-chosen model parameters, in whole percentage
// points or years. No unit conversion is applied anywhere.
//
// Only CostOfCapital and TerminalGrowthRate feed the formula. ROCE,
// GrowthHighPeriod, HighGrowthYears and FadeYears are accepted and echoed
// back but currently unused; wiring them in is a model change, not a fix.
type Assumptions struct {
	CostOfCapital      int `json:"cost_of_capital"`
	ROCE               int `json:"roce"`
	GrowthHighPeriod   int `json:"growth_high_period"`
	HighGrowthYears    int `json:"high_growth_years"`
	FadeYears          int `json:"fade_years"`
	TerminalGrowthRate int `json:"terminal_growth_rate"`
}

// Allowed values for each assumption.
var (
	CostOfCapitalDomain      = steps(8, 16, 2)
	ROCEDomain               = steps(10, 100, 10)
	GrowthHighPeriodDomain   = steps(8, 20, 2)
	HighGrowthYearsDomain    = steps(8, 24, 2)
	FadeYearsDomain          = steps(5, 20, 5)
	TerminalGrowthRateDomain = steps(1, 7, 1)
)

// DefaultAssumptions returns the lowest value of every domain, which is what
// the form starts with.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		CostOfCapital:      CostOfCapitalDomain[0],
		ROCE:               ROCEDomain[0],
		GrowthHighPeriod:   GrowthHighPeriodDomain[0],
		HighGrowthYears:    HighGrowthYearsDomain[0],
		FadeYears:          FadeYearsDomain[0],
		TerminalGrowthRate: TerminalGrowthRateDomain[0],
	}
}

// Validate checks every field against its domain and returns a *RangeError
// for the first one outside it.
func (a Assumptions) Validate() error {
	checks := []struct {
		field   string
		value   int
		allowed []int
	}{
		{"cost_of_capital", a.CostOfCapital, CostOfCapitalDomain},
		{"roce", a.ROCE, ROCEDomain},
		{"growth_high_period", a.GrowthHighPeriod, GrowthHighPeriodDomain},
		{"high_growth_years", a.HighGrowthYears, HighGrowthYearsDomain},
		{"fade_years", a.FadeYears, FadeYearsDomain},
		{"terminal_growth_rate", a.TerminalGrowthRate, TerminalGrowthRateDomain},
	}

	for _, c := range checks {
		if !slices.Contains(c.allowed, c.value) {
			return &RangeError{Field: c.field, Value: c.value, Allowed: c.allowed}
		}
	}
	return nil
}

// steps returns from, from+step, ... up to and including to.
func steps(from, to, step int) []int {
	out := make([]int, 0, (to-from)/step+1)
	for v := from; v <= to; v += step {
		out = append(out, v)
	}
	return out
}
