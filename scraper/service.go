package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"intrinsicpe/cache"
	"intrinsicpe/finance"
	"intrinsicpe/metrics"
)

// Options configures a Service.
type Options struct {
	URLTemplate string        // fmt template with one %s for the symbol
	FetcherName string        // metrics label, e.g. "browser" or "http"
	CacheTTL    time.Duration // ignored when the cache is nil
}

// Service fetches company pages and extracts snapshots from them.
type Service struct {
	fetcher Fetcher
	cache   *cache.Cache
	opts    Options
	log     *zap.Logger
}

// NewService creates a new scraper service. c may be nil to disable caching.
func NewService(fetcher Fetcher, c *cache.Cache, opts Options, log *zap.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		cache:   c,
		opts:    opts,
		log:     log,
	}
}

// Snapshot returns the figures for symbol, from cache when possible.
func (s *Service) Snapshot(ctx context.Context, symbol string) (finance.FinancialSnapshot, error) {
	key := fmt.Sprintf("snapshot:%s", NormalizeSymbol(symbol))

	return cache.Memoize(ctx, s.cache, key, s.opts.CacheTTL, func() (finance.FinancialSnapshot, error) {
		return s.scrape(ctx, symbol)
	})
}

func (s *Service) scrape(ctx context.Context, symbol string) (finance.FinancialSnapshot, error) {
	url := BuildURL(s.opts.URLTemplate, symbol)
	start := time.Now()
	defer func() {
		metrics.SnapshotFetchDuration.WithLabelValues(s.opts.FetcherName).Observe(time.Since(start).Seconds())
	}()

	htmlContent, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return finance.FinancialSnapshot{}, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return finance.FinancialSnapshot{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	labels := finance.LabelMap(doc)
	s.log.Debug("company page scraped",
		zap.String("symbol", symbol),
		zap.String("url", url),
		zap.Int("labels_found", len(labels)),
		zap.Duration("elapsed", time.Since(start)))
	if len(labels) < len(finance.KnownLabels) {
		s.log.Info("some labels missing, using defaults",
			zap.String("symbol", symbol),
			zap.Int("found", len(labels)),
			zap.Int("expected", len(finance.KnownLabels)))
	}

	return finance.Extract(labels), nil
}
