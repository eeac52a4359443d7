package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"intrinsicpe/render"
	"intrinsicpe/scraper"
	"intrinsicpe/valuation"
	"intrinsicpe/web"
)

func newValueCmd(configPath *string) *cobra.Command {
	var (
		a       = valuation.DefaultAssumptions()
		policy  string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "value [SYMBOL]",
		Short: "Fetch one company and print its valuation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := web.DefaultSymbol
			if len(args) == 1 {
				symbol = args[0]
			}
			symbol = scraper.NormalizeSymbol(symbol)

			if err := a.Validate(); err != nil {
				return err
			}

			app, err := newApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			p := app.cfg.Policy()
			if cmd.Flags().Changed("policy") {
				if p, err = valuation.ParsePolicy(policy); err != nil {
					return err
				}
			}

			snapshot, err := app.service.Snapshot(cmd.Context(), symbol)
			if err != nil {
				return err
			}

			opts := render.TableOptions{Title: symbol, Color: useColor(noColor)}
			result, err := valuation.NewEngine(p).Compute(snapshot, a)
			if err != nil {
				render.WriteTable(cmd.OutOrStdout(), render.ErrorLines(snapshot, err), opts)
				return err
			}
			render.WriteTable(cmd.OutOrStdout(), render.Lines(snapshot, result), opts)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&a.CostOfCapital, "cost-of-capital", a.CostOfCapital, "cost of capital in percent")
	f.IntVar(&a.ROCE, "roce", a.ROCE, "return on capital employed in percent")
	f.IntVar(&a.GrowthHighPeriod, "growth-high-period", a.GrowthHighPeriod, "growth during the high growth period in percent")
	f.IntVar(&a.HighGrowthYears, "high-growth-years", a.HighGrowthYears, "length of the high growth period in years")
	f.IntVar(&a.FadeYears, "fade-years", a.FadeYears, "length of the fade period in years")
	f.IntVar(&a.TerminalGrowthRate, "terminal-growth-rate", a.TerminalGrowthRate, "terminal growth rate in percent")
	f.StringVar(&policy, "policy", string(valuation.PolicyStrict), "overvaluation policy when intrinsic PE is zero: strict or zero")
	f.BoolVar(&noColor, "no-color", false, "disable coloured output")
	return cmd
}

func useColor(noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return !strings.EqualFold(os.Getenv("TERM"), "dumb")
}
