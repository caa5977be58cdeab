package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/blockberries/wirebench/pkg/bench"
)

func metric(text, binary float64) *bench.Metric {
	m := bench.NewMetric(text, binary, bench.LowerIsBetter)
	return &m
}

func sampleResults() *bench.Results {
	throughput := bench.NewMetric(40000, 90000, bench.HigherIsBetter)
	res := &bench.Results{
		RunID:            uuid.MustParse("6f1c2d3e-4b5a-4c6d-8e7f-0a1b2c3d4e5f"),
		StartedAt:        time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Duration:         3 * time.Second,
		Size:             20,
		Iterations:       1000,
		TextCodec:        "jsoniter",
		BinaryCodec:      "protowire",
		Compressor:       "gzip",
		Trials:           bench.AllTrials(),
		Serialization:    metric(0.75, 0.25),
		Deserialization:  metric(0.02, 0.01),
		PayloadSize:      &bench.PayloadMetric{Uncompressed: *metric(1234, 456), Compressed: *metric(400, 300)},
		CPU:              metric(120, 40),
		Memory:           metric(30, 35),
		Network:          metric(50.9, 50.3),
		LatencyUnderLoad: metric(12, 11.5),
		ParserInit:       metric(0.01, 5),
		Throughput:       &throughput,
		SchemaEvolution: &bench.SchemaEvolutionMetric{
			Metric:   *metric(0.03, 0.005),
			Backward: 0.004,
			Forward:  0.006,
			Native:   0.0045,
		},
	}
	res.Verdict = bench.Tally(res.Votes())
	return res
}

func render(t *testing.T, style Style, opts ...Option) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleResults(), style, opts...))
	return buf.String()
}

func TestParseStyle(t *testing.T) {
	for _, name := range Styles() {
		s, err := ParseStyle(name)
		require.NoError(t, err)
		assert.Equal(t, Style(name), s)
	}

	s, err := ParseStyle(" Markdown")
	require.NoError(t, err)
	assert.Equal(t, StyleMarkdown, s)

	_, err = ParseStyle("yaml")
	assert.True(t, errors.Is(err, ErrUnknownStyle))
}

func TestRenderErrors(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Render(&buf, nil, StyleTable))
	assert.True(t, errors.Is(Render(&buf, sampleResults(), Style("html")), ErrUnknownStyle))
}

func TestTable(t *testing.T) {
	out := render(t, StyleTable)

	assert.NotContains(t, out, "\x1b[")
	assert.Contains(t, out, "size 20, 1000 iterations, jsoniter vs protowire, gzip compression")
	assert.Contains(t, out, "METRIC")
	assert.Contains(t, out, "0.7500")
	assert.Contains(t, out, "300.0%")
	assert.Contains(t, out, "1,234")
	assert.Contains(t, out, "Payload size (compressed)")
	assert.Contains(t, out, "backward 0.0040 ms/op, forward 0.0060 ms/op, native 0.0045 ms/op")
	assert.True(t, strings.HasSuffix(out, "Overall winner: Protocol Buffers (9 wins vs 2 wins)\n"))

	lines := strings.Split(out, "\n")
	var rows int
	for _, l := range lines {
		if strings.HasSuffix(l, "Protobuf") || strings.HasSuffix(l, "JSON") {
			rows++
		}
	}
	// One row per vote.
	assert.Equal(t, 11, rows)
	assert.Contains(t, out, "a payload gzip does not shrink is counted uncompressed.")
}

func TestTableColor(t *testing.T) {
	out := render(t, StyleTable, WithColor(true))
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "Overall winner: Protocol Buffers")
}

func TestTableLanguage(t *testing.T) {
	out := render(t, StyleTable, WithLanguage(language.German))
	assert.Contains(t, out, "1.234")
	assert.Contains(t, out, "0,7500")
}

func TestMarkdown(t *testing.T) {
	out := render(t, StyleMarkdown)
	assert.Contains(t, out, "| Metric | Unit | JSON | Protobuf | Ratio | Winner |")
	assert.Contains(t, out, "| Serialization | ms/op | 0.7500 | 0.2500 | 300.0% | Protobuf |")
	assert.Contains(t, out, "| Memory | ms | 30.0000 | 35.0000 | 85.7% | JSON |")
	assert.Contains(t, out, "**Overall winner: Protocol Buffers (9 wins vs 2 wins)**")
	assert.Contains(t, out, "_Compressed sizes are capped at the raw size: a payload gzip does not shrink is counted uncompressed._")
}

func TestCSV(t *testing.T) {
	out := render(t, StyleCSV)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 13)

	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{"serialization", "ms/op", "0.75", "0.25", "300", "Protobuf"}, records[1])
	assert.Equal(t, "throughput", records[10][0])
	assert.Equal(t, []string{"overall", "votes", "2", "9", "", "Protobuf"}, records[12])
}

func TestJSON(t *testing.T) {
	out := render(t, StyleJSON)

	var doc map[string]any
	require.NoError(t, jsoniter.Unmarshal([]byte(out), &doc))

	assert.Equal(t, "6f1c2d3e-4b5a-4c6d-8e7f-0a1b2c3d4e5f", doc["run_id"])
	assert.Equal(t, "jsoniter", doc["text_codec"])
	assert.Len(t, doc["trials"], 10)
	assert.Equal(t, "serialization", doc["trials"].([]any)[0])
	assert.Len(t, doc["entries"], 11)

	verdict := doc["verdict"].(map[string]any)
	assert.Equal(t, "Protobuf", verdict["winner"])
	assert.EqualValues(t, 9, verdict["winner_votes"])

	schema := doc["schema_evolution"].(map[string]any)
	assert.EqualValues(t, 0.0045, schema["binary_native"])
	assert.EqualValues(t, 0.005, schema["binary"])
}

func TestPrometheus(t *testing.T) {
	out := render(t, StylePrometheus)

	assert.Contains(t, out, "# TYPE wirebench_measurement gauge")
	assert.Contains(t, out, `wirebench_measurement{format="JSON",metric="payload_uncompressed",unit="bytes"} 1234`)
	assert.Contains(t, out, `wirebench_winner{format="Protobuf",metric="cpu"} 1`)
	assert.Contains(t, out, `wirebench_winner{format="JSON",metric="cpu"} 0`)
	assert.Contains(t, out, `wirebench_votes{format="Protobuf"} 9`)
	assert.Contains(t, out, `wirebench_votes{format="JSON"} 2`)
	assert.Contains(t, out, `wirebench_schema_evolution_ms{mode="native"} 0.0045`)
	assert.Contains(t, out, `run_id="6f1c2d3e-4b5a-4c6d-8e7f-0a1b2c3d4e5f"`)
}

func TestPartialResults(t *testing.T) {
	res := &bench.Results{Network: metric(50.9, 50.3), Trials: []bench.Trial{bench.TrialNetwork}}
	res.Verdict = bench.Tally(res.Votes())

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, res, StyleTable))
	assert.NotContains(t, buf.String(), "schema evolution")
	assert.NotContains(t, buf.String(), "Compressed sizes")
	assert.Contains(t, buf.String(), "Overall winner: Protocol Buffers (1 wins vs 0 wins)")
}
