package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"intrinsicpe/cache"
	"intrinsicpe/finance"
)

const companyPage = `
<html><body>
<ul id="top-ratios"><li>Market Cap 1,000</li></ul>
<table>
  <tr><td>Current PE</td><td>30.0</td></tr>
  <tr><td>FY23 PE</td><td>25.0</td></tr>
  <tr><td>Median RoCE</td><td>110 %</td></tr>
  <tr><td>Sales Growth (3Yr)</td><td>9%</td></tr>
</table>
</body></html>`

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "https://www.screener.in/company/NESTLEIND/",
		BuildURL("https://www.screener.in/company/%s/", "  nestleind "))
	assert.Equal(t, "https://example.com/M&M%2FX",
		BuildURL("https://example.com/%s", "m&m/x"))
}

func TestService_Snapshot(t *testing.T) {
	var gotURL string
	fetcher := FetcherFunc(func(ctx context.Context, url string) (string, error) {
		gotURL = url
		return companyPage, nil
	})

	svc := NewService(fetcher, nil, Options{URLTemplate: "https://example.com/company/%s/", FetcherName: "test"}, zaptest.NewLogger(t))
	got, err := svc.Snapshot(context.Background(), "nestleind")

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/company/NESTLEIND/", gotURL)
	assert.Equal(t, finance.FinancialSnapshot{
		CurrentPE:       "30.0",
		FY23PE:          "25.0",
		MedianROCE:      "110 %",
		SalesGrowthTTM:  finance.DefaultValue,
		SalesGrowth3Yr:  "9%",
		SalesGrowth5Yr:  finance.DefaultValue,
		SalesGrowth10Yr: finance.DefaultValue,
	}, got)
}

func TestService_FetchError(t *testing.T) {
	boom := errors.New("connection refused")
	fetcher := FetcherFunc(func(ctx context.Context, url string) (string, error) {
		return "", boom
	})

	svc := NewService(fetcher, nil, Options{URLTemplate: "https://example.com/%s"}, zaptest.NewLogger(t))
	_, err := svc.Snapshot(context.Background(), "ABC")

	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "failed to fetch https://example.com/ABC")
}

func TestService_CachesPerSymbol(t *testing.T) {
	mr := miniredis.RunT(t)
	log := zaptest.NewLogger(t)
	c := cache.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), log)
	t.Cleanup(func() { _ = c.Close() })

	calls := map[string]int{}
	fetcher := FetcherFunc(func(ctx context.Context, url string) (string, error) {
		calls[url]++
		return companyPage, nil
	})

	svc := NewService(fetcher, c, Options{URLTemplate: "https://example.com/%s", CacheTTL: time.Hour}, log)
	ctx := context.Background()

	first, err := svc.Snapshot(ctx, "abc")
	require.NoError(t, err)
	second, err := svc.Snapshot(ctx, " ABC ")
	require.NoError(t, err)
	_, err = svc.Snapshot(ctx, "XYZ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, map[string]int{
		"https://example.com/ABC": 1,
		"https://example.com/XYZ": 1,
	}, calls)
	assert.True(t, mr.Exists("snapshot:ABC"))
}
