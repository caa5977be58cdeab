package report

import (
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/blockberries/wirebench/pkg/bench"
)

type jsonEntry struct {
	Key          string       `json:"key"`
	Trial        bench.Trial  `json:"trial"`
	Unit         string       `json:"unit"`
	Text         float64      `json:"json"`
	Binary       float64      `json:"protobuf"`
	RatioPercent float64      `json:"ratio_percent"`
	Winner       bench.Format `json:"winner"`
}

type jsonDocument struct {
	*bench.Results
	Entries []jsonEntry `json:"entries"`
}

func renderJSON(w io.Writer, res *bench.Results) error {
	doc := jsonDocument{Results: res}
	for _, e := range res.Entries() {
		doc.Entries = append(doc.Entries, jsonEntry{
			Key:          e.Key,
			Trial:        e.Trial,
			Unit:         e.Unit,
			Text:         e.Metric.Text,
			Binary:       e.Metric.Binary,
			RatioPercent: e.Metric.RatioPercent,
			Winner:       e.Metric.Winner,
		})
	}

	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
