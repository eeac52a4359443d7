// Package web serves the valuation form and its JSON API.
package web

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"intrinsicpe/finance"
	"intrinsicpe/valuation"
)

// SnapshotSource returns the scraped figures for a symbol.
type SnapshotSource interface {
	Snapshot(ctx context.Context, symbol string) (finance.FinancialSnapshot, error)
}

// Handler holds the dependencies shared by all routes.
type Handler struct {
	source SnapshotSource
	engine *valuation.Engine
	page   *PageHandler
	log    *zap.Logger
}

// NewHandler creates a new Handler.
func NewHandler(source SnapshotSource, engine *valuation.Engine, log *zap.Logger) *Handler {
	return &Handler{
		source: source,
		engine: engine,
		page:   NewPageHandler(log),
		log:    log,
	}
}

// NewRouter wires every route and wraps them in recovery, compression and
// access logging.
func NewRouter(h *Handler) http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/", h.page.ServeIndex).Methods("GET")
	router.HandleFunc("/api/valuation/{symbol}", h.ValuationHandler).Methods("GET")
	router.HandleFunc("/healthz", HealthHandler).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	var handler http.Handler = router
	handler = handlers.CompressHandler(handler)
	handler = handlers.CustomLoggingHandler(io.Discard, handler, accessLog(h.log))
	handler = handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(h.log)),
		handlers.PrintRecoveryStack(true),
	)(handler)
	return handler
}

// HealthHandler reports liveness.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func accessLog(log *zap.Logger) handlers.LogFormatter {
	return func(_ io.Writer, p handlers.LogFormatterParams) {
		log.Info("request",
			zap.String("method", p.Request.Method),
			zap.String("path", p.URL.Path),
			zap.String("query", p.URL.RawQuery),
			zap.Int("status", p.StatusCode),
			zap.Int("size", p.Size),
			zap.String("remote", p.Request.RemoteAddr),
			zap.Duration("elapsed", time.Since(p.TimeStamp)))
	}
}
