package finance

// Labels as they appear on the company page.
const (
	LabelCurrentPE       = "Current PE"
	LabelFY23PE          = "FY23 PE"
	LabelMedianROCE      = "Median RoCE"
	LabelSalesGrowthTTM  = "Sales Growth (TTM)"
	LabelSalesGrowth3Yr  = "Sales Growth (3Yr)"
	LabelSalesGrowth5Yr  = "Sales Growth (5Yr)"
	LabelSalesGrowth10Yr = "Sales Growth (10Yr)"
)

// DefaultValue is substituted for any label missing from the page.
const DefaultValue = "1"

// KnownLabels lists every label Extract looks for, in display order.
var KnownLabels = []string{
	LabelCurrentPE,
	LabelFY23PE,
	LabelMedianROCE,
	LabelSalesGrowthTTM,
	LabelSalesGrowth3Yr,
	LabelSalesGrowth5Yr,
	LabelSalesGrowth10Yr,
}

// FinancialSnapshot holds the unparsed figures for one symbol. Every field is
// either the text found next to its label or DefaultValue.
type FinancialSnapshot struct {
	CurrentPE       string `json:"current_pe"`
	FY23PE          string `json:"fy23_pe"`
	MedianROCE      string `json:"median_roce"`
	SalesGrowthTTM  string `json:"sales_growth_ttm"`
	SalesGrowth3Yr  string `json:"sales_growth_3yr"`
	SalesGrowth5Yr  string `json:"sales_growth_5yr"`
	SalesGrowth10Yr string `json:"sales_growth_10yr"`
}

// Extract builds a snapshot from a label -> text mapping. It never fails: a
// label absent from the mapping (or a nil mapping) yields DefaultValue.
func Extract(labels map[string]string) FinancialSnapshot {
	lookup := func(label string) string {
		if v, ok := labels[label]; ok {
			return v
		}
		return DefaultValue
	}

	return FinancialSnapshot{
		CurrentPE:       lookup(LabelCurrentPE),
		FY23PE:          lookup(LabelFY23PE),
		MedianROCE:      lookup(LabelMedianROCE),
		SalesGrowthTTM:  lookup(LabelSalesGrowthTTM),
		SalesGrowth3Yr:  lookup(LabelSalesGrowth3Yr),
		SalesGrowth5Yr:  lookup(LabelSalesGrowth5Yr),
		SalesGrowth10Yr: lookup(LabelSalesGrowth10Yr),
	}
}

// isKnownLabel reports whether label is one of KnownLabels.
func isKnownLabel(label string) bool {
	switch label {
	case LabelCurrentPE, LabelFY23PE, LabelMedianROCE,
		LabelSalesGrowthTTM, LabelSalesGrowth3Yr, LabelSalesGrowth5Yr, LabelSalesGrowth10Yr:
		return true
	}
	return false
}
