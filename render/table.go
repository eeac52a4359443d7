package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TableOptions controls WriteTable.
type TableOptions struct {
	Title string
	Color bool
}

// WriteTable renders lines as a two-column table. With Color set, a positive
// overvaluation is red, a negative one green, and an error line red.
func WriteTable(w io.Writer, lines []Line, opts TableOptions) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if opts.Color {
		tw.SetStyle(table.StyleColoredDark)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false
	if opts.Title != "" {
		tw.SetTitle(strings.ToUpper(opts.Title))
	}

	tw.AppendHeader(table.Row{"METRIC", "VALUE"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignRight},
	})

	for _, l := range lines {
		value := l.Value
		if opts.Color {
			value = colorize(l)
		}
		tw.AppendRow(table.Row{l.Label, value})
	}

	tw.Render()
}

func colorize(l Line) string {
	switch l.Label {
	case LabelError:
		return text.Colors{text.FgRed}.Sprint(l.Value)
	case LabelOvervaluation:
		if strings.HasPrefix(l.Value, "-") {
			return text.Colors{text.FgGreen}.Sprint(l.Value)
		} else if l.Value != "0%" {
			return text.Colors{text.FgRed}.Sprint(l.Value)
		}
	}
	return l.Value
}

// WritePlain writes one "Label: value" line per entry.
func WritePlain(w io.Writer, lines []Line) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l.String()); err != nil {
			return err
		}
	}
	return nil
}
