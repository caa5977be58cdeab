package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/blockberries/wirebench/pkg/bench"
)

var csvHeader = []string{"metric", "unit", "json", "protobuf", "ratio_percent", "winner"}

// renderCSV writes one row per vote and a final overall row holding the
// vote counts. Numbers are unformatted.
func renderCSV(w io.Writer, res *bench.Results) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range res.Entries() {
		row := []string{
			e.Key,
			e.Unit,
			formatFloat(e.Metric.Text),
			formatFloat(e.Metric.Binary),
			formatFloat(e.Metric.RatioPercent),
			e.Metric.Winner.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	text, binary := res.Verdict.LoserVotes, res.Verdict.WinnerVotes
	if res.Verdict.Winner == bench.FormatText {
		text, binary = binary, text
	}
	overall := []string{"overall", "votes", strconv.Itoa(text), strconv.Itoa(binary), "", res.Verdict.Winner.String()}
	if err := cw.Write(overall); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
