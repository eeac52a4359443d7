package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"intrinsicpe/finance"
	"intrinsicpe/metrics"
	"intrinsicpe/render"
	"intrinsicpe/scraper"
	"intrinsicpe/valuation"
)

// ValuationResponse is the body of a successful valuation.
type ValuationResponse struct {
	Symbol      string                    `json:"symbol"`
	Snapshot    finance.FinancialSnapshot `json:"snapshot"`
	Assumptions valuation.Assumptions     `json:"assumptions"`
	Result      valuation.Result          `json:"result"`
	Lines       []render.Line             `json:"lines"`
}

// ValuationErrorResponse is returned when the figures were scraped but could
// not be valued.
type ValuationErrorResponse struct {
	Symbol   string                    `json:"symbol"`
	Snapshot finance.FinancialSnapshot `json:"snapshot"`
	Lines    []render.Line             `json:"lines"`
	Error    string                    `json:"error"`
	Step     valuation.Step            `json:"step"`
}

// ErrorResponse carries a bare error message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValuationHandler handles valuation queries
func (h *Handler) ValuationHandler(w http.ResponseWriter, r *http.Request) {
	symbol := scraper.NormalizeSymbol(mux.Vars(r)["symbol"])
	if symbol == "" {
		metrics.ValuationsTotal.WithLabelValues(metrics.OutcomeInvalidInput).Inc()
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Symbol parameter is required"})
		return
	}

	assumptions, err := ParseAssumptions(r.URL.Query())
	if err != nil {
		metrics.ValuationsTotal.WithLabelValues(metrics.OutcomeInvalidInput).Inc()
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	snapshot, err := h.source.Snapshot(r.Context(), symbol)
	if err != nil {
		metrics.ValuationsTotal.WithLabelValues(metrics.OutcomeFetchError).Inc()
		h.log.Warn("snapshot fetch failed", zap.String("symbol", symbol), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "Error scraping results"})
		return
	}

	result, err := h.engine.Compute(snapshot, assumptions)
	if err != nil {
		metrics.ValuationsTotal.WithLabelValues(outcome(err)).Inc()
		h.log.Info("valuation failed",
			zap.String("symbol", symbol),
			zap.Any("assumptions", assumptions),
			zap.Error(err))
		writeJSON(w, http.StatusUnprocessableEntity, ValuationErrorResponse{
			Symbol:   symbol,
			Snapshot: snapshot,
			Lines:    render.ErrorLines(snapshot, err),
			Error:    err.Error(),
			Step:     valuation.FailedStep(err),
		})
		return
	}

	metrics.ValuationsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	writeJSON(w, http.StatusOK, ValuationResponse{
		Symbol:      symbol,
		Snapshot:    snapshot,
		Assumptions: assumptions,
		Result:      result,
		Lines:       render.Lines(snapshot, result),
	})
}

// ParseAssumptions reads the six assumptions from query parameters. Missing
// parameters keep their defaults; the result is validated against the
// allowed domains.
func ParseAssumptions(q url.Values) (valuation.Assumptions, error) {
	a := valuation.DefaultAssumptions()
	fields := []struct {
		name string
		dst  *int
	}{
		{"cost_of_capital", &a.CostOfCapital},
		{"roce", &a.ROCE},
		{"growth_high_period", &a.GrowthHighPeriod},
		{"high_growth_years", &a.HighGrowthYears},
		{"fade_years", &a.FadeYears},
		{"terminal_growth_rate", &a.TerminalGrowthRate},
	}

	for _, f := range fields {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return valuation.Assumptions{}, fmt.Errorf("%s must be an integer, got %q", f.name, raw)
		}
		*f.dst = v
	}

	if err := a.Validate(); err != nil {
		return valuation.Assumptions{}, err
	}
	return a, nil
}

func outcome(err error) string {
	var divErr *valuation.DivisionByZeroError
	if errors.As(err, &divErr) {
		return metrics.OutcomeDivisionByZero
	}
	var nfErr *valuation.NonFiniteError
	if errors.As(err, &nfErr) {
		return metrics.OutcomeNonFinite
	}
	return metrics.OutcomeParseError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	jsonData, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		http.Error(w, "Error marshaling to JSON", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(jsonData)
}
