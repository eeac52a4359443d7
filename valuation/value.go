// Package valuation computes the intrinsic PE of a company and how far its
// current PE sits above it.
package valuation

import (
	"math"
	"strconv"
	"strings"
)

// NotAvailableText is the marker the source page uses for a missing figure.
const NotAvailableText = "N/A"

// Value is either a number or "not available".
type Value struct {
	num       float64
	available bool
}

// Numeric returns an available value.
func Numeric(f float64) Value {
	return Value{num: f, available: true}
}

// NotAvailable returns the "not available" value.
func NotAvailable() Value {
	return Value{}
}

// Available reports whether v holds a number.
func (v Value) Available() bool { return v.available }

// Float returns the number held by v. A not-available value reads as 0.
func (v Value) Float() float64 {
	if !v.available {
		return 0
	}
	return v.num
}

func (v Value) String() string {
	if !v.available {
		return NotAvailableText
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}

// ParseValue converts raw snapshot text into a Value. Text exactly equal to
// NotAvailableText is not available; anything else must be a finite decimal
// number, surrounding whitespace allowed. Hex floats, "Inf" and "NaN" are
// rejected. field names the snapshot field for errors.
func ParseValue(field, raw string) (Value, error) {
	if raw == NotAvailableText {
		return NotAvailable(), nil
	}

	text := strings.TrimSpace(raw)
	if !isDecimal(text) {
		return Value{}, &ParseError{Field: field, Text: raw, Err: strconv.ErrSyntax}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Value{}, &ParseError{Field: field, Text: raw, Err: err}
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return Value{}, &ParseError{Field: field, Text: raw, Err: strconv.ErrRange}
	}
	return Numeric(f), nil
}

// isDecimal reports whether s uses only decimal float syntax characters.
// ParseFloat still checks the arrangement.
func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '+', r == '-', r == 'e', r == 'E':
		default:
			return false
		}
	}
	return true
}
