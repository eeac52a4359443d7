// Package scraper turns a ticker symbol into a FinancialSnapshot by fetching
// and parsing the company page.
package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Fetcher returns the HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) (string, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// NormalizeSymbol trims and upper-cases a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// BuildURL formats template with the path-escaped symbol.
func BuildURL(template, symbol string) string {
	return fmt.Sprintf(template, url.PathEscape(NormalizeSymbol(symbol)))
}
