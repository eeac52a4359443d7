// Package render formats a snapshot and its valuation for display.
package render

import (
	"strconv"

	"intrinsicpe/finance"
	"intrinsicpe/valuation"
)

// Line is one labelled output value.
type Line struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func (l Line) String() string {
	return l.Label + ": " + l.Value
}

// Display labels, in output order.
const (
	LabelCurrentPE       = "Current PE"
	LabelFY23PE          = "FY23 PE"
	LabelMedianROCE      = "5-yr Median RoCE"
	LabelSalesGrowthTTM  = "Compounded Sales Growth (TTM)"
	LabelSalesGrowth3Yr  = "Compounded Sales Growth (3yr)"
	LabelSalesGrowth5Yr  = "Compounded Sales Growth (5yr)"
	LabelSalesGrowth10Yr = "Compounded Sales Growth (10yr)"
	LabelIntrinsicPE     = "Intrinsic PE"
	LabelOvervaluation   = "Degree of Overvaluation"
	LabelError           = "Error"
)

// SnapshotLines echoes the seven raw snapshot fields.
func SnapshotLines(s finance.FinancialSnapshot) []Line {
	return []Line{
		{LabelCurrentPE, s.CurrentPE},
		{LabelFY23PE, s.FY23PE},
		{LabelMedianROCE, s.MedianROCE},
		{LabelSalesGrowthTTM, s.SalesGrowthTTM},
		{LabelSalesGrowth3Yr, s.SalesGrowth3Yr},
		{LabelSalesGrowth5Yr, s.SalesGrowth5Yr},
		{LabelSalesGrowth10Yr, s.SalesGrowth10Yr},
	}
}

// Lines returns the nine output lines for a successful valuation.
func Lines(s finance.FinancialSnapshot, r valuation.Result) []Line {
	return append(SnapshotLines(s),
		Line{LabelIntrinsicPE, FormatNumber(r.IntrinsicPE)},
		Line{LabelOvervaluation, FormatNumber(r.DegreeOfOvervaluation) + "%"},
	)
}

// ErrorLines returns the snapshot lines followed by an error line in place of
// the two computed values.
func ErrorLines(s finance.FinancialSnapshot, err error) []Line {
	return append(SnapshotLines(s), Line{LabelError, err.Error()})
}

// FormatNumber prints f with the fewest digits that round-trip.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
