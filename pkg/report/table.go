package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/blockberries/wirebench/pkg/bench"
)

type palette struct {
	title  *color.Color
	winner *color.Color
	dim    *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		title:  color.New(color.Bold),
		winner: color.New(color.FgGreen, color.Bold),
		dim:    color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.title, p.winner, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// renderTable writes an aligned table. Colour codes are only applied to the
// last column so they never disturb the alignment.
func renderTable(w io.Writer, res *bench.Results, s settings) error {
	pal := newPalette(s.color)
	nums := newNumbers(s.lang)

	if _, err := fmt.Fprintf(w, "%s\n%s\n\n", pal.title.Sprint("Benchmark results"), pal.dim.Sprint(header(res))); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "METRIC\tUNIT\t%s\t%s\tRATIO\tWINNER\n", bench.FormatText, bench.FormatBinary)
	for _, e := range res.Entries() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Label,
			e.Unit,
			nums.value(e.Metric.Text, e.Unit),
			nums.value(e.Metric.Binary, e.Unit),
			nums.ratio(e.Metric.RatioPercent),
			pal.winner.Sprint(e.Metric.Winner),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if se := res.SchemaEvolution; se != nil {
		if _, err := fmt.Fprintf(w, "\n%s backward %s ms/op, forward %s ms/op, native %s ms/op\n",
			pal.dim.Sprint("Protobuf schema evolution:"),
			nums.value(se.Backward, "ms/op"),
			nums.value(se.Forward, "ms/op"),
			nums.value(se.Native, "ms/op"),
		); err != nil {
			return err
		}
	}

	if note := payloadNote(res); note != "" {
		if _, err := fmt.Fprintf(w, "\n%s\n", pal.dim.Sprint(note)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\n%s\n", pal.title.Sprint(res.Verdict))
	return err
}
