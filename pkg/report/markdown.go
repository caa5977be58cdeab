package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/blockberries/wirebench/pkg/bench"
)

func renderMarkdown(w io.Writer, res *bench.Results, s settings) error {
	nums := newNumbers(s.lang)
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "## Benchmark results\n\n_%s_\n\n", header(res))
	fmt.Fprintf(bw, "| Metric | Unit | %s | %s | Ratio | Winner |\n", bench.FormatText, bench.FormatBinary)
	fmt.Fprintln(bw, "|---|---|---:|---:|---:|---|")
	for _, e := range res.Entries() {
		fmt.Fprintf(bw, "| %s | %s | %s | %s | %s | %s |\n",
			e.Label,
			e.Unit,
			nums.value(e.Metric.Text, e.Unit),
			nums.value(e.Metric.Binary, e.Unit),
			nums.ratio(e.Metric.RatioPercent),
			e.Metric.Winner,
		)
	}
	if se := res.SchemaEvolution; se != nil {
		fmt.Fprintf(bw, "\nProtobuf schema evolution: backward %s ms/op, forward %s ms/op, native %s ms/op\n",
			nums.value(se.Backward, "ms/op"),
			nums.value(se.Forward, "ms/op"),
			nums.value(se.Native, "ms/op"),
		)
	}
	if note := payloadNote(res); note != "" {
		fmt.Fprintf(bw, "\n_%s_\n", note)
	}
	fmt.Fprintf(bw, "\n**%s**\n", res.Verdict)
	return bw.Flush()
}
