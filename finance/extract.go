// Package finance extracts the fundamental figures used for valuation from a
// company page.
package finance

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LabelMap walks the table cells of doc in document order and maps each known
// label to the text of the next cell. The first occurrence of a label wins and
// the value text is kept exactly as found.
func LabelMap(doc *goquery.Document) map[string]string {
	data := make(map[string]string)

	cells := doc.Find("td")
	cells.Each(func(i int, s *goquery.Selection) {
		label := strings.TrimSpace(s.Text())
		if !isKnownLabel(label) {
			return
		}
		if _, seen := data[label]; seen {
			return
		}

		// Label in the last cell of the page has nothing to pair with
		if i+1 >= cells.Length() {
			return
		}
		data[label] = cells.Eq(i + 1).Text()
	})

	return data
}

// ExtractSnapshot is LabelMap followed by Extract.
func ExtractSnapshot(doc *goquery.Document) FinancialSnapshot {
	return Extract(LabelMap(doc))
}
