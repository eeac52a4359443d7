package web

import (
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"intrinsicpe/valuation"
)

//go:embed pages/*.html
var pages embed.FS

// DefaultSymbol is the company the form opens with.
const DefaultSymbol = "NESTLEIND"

// Slider describes one discrete assumption control.
type Slider struct {
	Name   string
	Label  string
	Values []int
	Value  int
}

func (s Slider) Min() int { return s.Values[0] }

func (s Slider) Max() int { return s.Values[len(s.Values)-1] }

// Step assumes evenly spaced values.
func (s Slider) Step() int {
	if len(s.Values) < 2 {
		return 1
	}
	return s.Values[1] - s.Values[0]
}

// PageHandler renders the valuation form.
type PageHandler struct {
	log       *zap.Logger
	templates *template.Template
}

// NewPageHandler parses the embedded templates.
func NewPageHandler(log *zap.Logger) *PageHandler {
	return &PageHandler{
		log:       log,
		templates: template.Must(template.ParseFS(pages, "pages/*.html")),
	}
}

// Sliders returns the form controls, each starting at its default value.
func Sliders() []Slider {
	d := valuation.DefaultAssumptions()
	return []Slider{
		{"cost_of_capital", "Cost of Capital (%)", valuation.CostOfCapitalDomain, d.CostOfCapital},
		{"roce", "RoCE (%)", valuation.ROCEDomain, d.ROCE},
		{"growth_high_period", "Growth during high growth period (%)", valuation.GrowthHighPeriodDomain, d.GrowthHighPeriod},
		{"high_growth_years", "High growth period (years)", valuation.HighGrowthYearsDomain, d.HighGrowthYears},
		{"fade_years", "Fade period (years)", valuation.FadeYearsDomain, d.FadeYears},
		{"terminal_growth_rate", "Terminal growth rate (%)", valuation.TerminalGrowthRateDomain, d.TerminalGrowthRate},
	}
}

// ServeIndex renders the form.
func (h *PageHandler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Symbol":  DefaultSymbol,
		"Sliders": Sliders(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		h.log.Error("failed to render page", zap.String("template", "index.html"), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
