// Package metrics holds the prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for ValuationsTotal.
const (
	OutcomeOK             = "ok"
	OutcomeParseError     = "parse_error"
	OutcomeDivisionByZero = "division_by_zero"
	OutcomeNonFinite      = "non_finite"
	OutcomeInvalidInput   = "invalid_input"
	OutcomeFetchError     = "fetch_error"
)

var (
	ValuationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intrinsicpe_valuations_total",
			Help: "Total number of valuation requests by outcome",
		},
		[]string{"outcome"},
	)

	SnapshotFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intrinsicpe_snapshot_fetch_duration_seconds",
			Help:    "Time spent fetching and parsing a company page",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"fetcher"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intrinsicpe_cache_lookups_total",
			Help: "Snapshot cache lookups by result",
		},
		[]string{"result"},
	)

	BrowserSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "intrinsicpe_browser_sessions",
			Help: "Number of browser tabs currently owned by the pool",
		},
	)
)
