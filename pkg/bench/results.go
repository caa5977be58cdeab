package bench

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Results collects the metrics of one run. Metrics of trials that were not
// executed are nil.
type Results struct {
	RunID     uuid.UUID     `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`

	Size        int    `json:"size"`
	Iterations  int    `json:"iterations"`
	TextCodec   string `json:"text_codec"`
	BinaryCodec string `json:"binary_codec"`
	Compressor  string `json:"compressor"`

	// Trials lists the executed trials in execution order.
	Trials []Trial `json:"trials"`

	Serialization    *Metric                `json:"serialization,omitempty"`
	Deserialization  *Metric                `json:"deserialization,omitempty"`
	PayloadSize      *PayloadMetric         `json:"payload_size,omitempty"`
	CPU              *Metric                `json:"cpu,omitempty"`
	Memory           *Metric                `json:"memory,omitempty"`
	Network          *Metric                `json:"network,omitempty"`
	LatencyUnderLoad *Metric                `json:"latency_under_load,omitempty"`
	ParserInit       *Metric                `json:"parser_init,omitempty"`
	Throughput       *Metric                `json:"throughput,omitempty"`
	SchemaEvolution  *SchemaEvolutionMetric `json:"schema_evolution,omitempty"`

	Verdict Verdict `json:"verdict"`
}

// Entry is one voting row of a result set.
type Entry struct {
	Trial Trial
	// Key distinguishes rows of the same trial.
	Key   string
	Label string
	Unit  string
	// HigherIsBetter is set for rate metrics.
	HigherIsBetter bool
	Metric         Metric
}

// Entries returns one row per vote, in execution order. A full run yields
// eleven rows because the payload trial contributes two.
func (r *Results) Entries() []Entry {
	var out []Entry
	add := func(t Trial, key, label, unit string, m *Metric) {
		if m != nil {
			out = append(out, Entry{Trial: t, Key: key, Label: label, Unit: unit, Metric: *m})
		}
	}
	add(TrialSerialization, "serialization", "Serialization", "ms/op", r.Serialization)
	add(TrialDeserialization, "deserialization", "Deserialization", "ms/op", r.Deserialization)
	if r.PayloadSize != nil {
		add(TrialPayloadSize, "payload_uncompressed", "Payload size", "bytes", &r.PayloadSize.Uncompressed)
		add(TrialPayloadSize, "payload_compressed", "Payload size (compressed)", "bytes", &r.PayloadSize.Compressed)
	}
	add(TrialCPU, "cpu", "CPU", "ms", r.CPU)
	add(TrialMemory, "memory", "Memory", "ms", r.Memory)
	add(TrialNetwork, "network", "Network transfer", "ms", r.Network)
	add(TrialLatencyUnderLoad, "latency", "Latency under load", "ms", r.LatencyUnderLoad)
	add(TrialParserInit, "init", "Parser init", "ms", r.ParserInit)
	if r.Throughput != nil {
		out = append(out, Entry{
			Trial:          TrialThroughput,
			Key:            "throughput",
			Label:          "Throughput",
			Unit:           "ops/s",
			HigherIsBetter: true,
			Metric:         *r.Throughput,
		})
	}
	if r.SchemaEvolution != nil {
		add(TrialSchemaEvolution, "schema", "Schema evolution", "ms/op", &r.SchemaEvolution.Metric)
	}
	return out
}

// Votes returns the winner of every entry.
func (r *Results) Votes() []Format {
	entries := r.Entries()
	votes := make([]Format, len(entries))
	for i, e := range entries {
		votes[i] = e.Metric.Winner
	}
	return votes
}

// Verdict is the outcome of the majority vote.
type Verdict struct {
	Winner      Format `json:"winner"`
	WinnerVotes int    `json:"winner_votes"`
	LoserVotes  int    `json:"loser_votes"`
}

// String renders the verdict line.
func (v Verdict) String() string {
	return fmt.Sprintf("Overall winner: %s (%d wins vs %d wins)", v.Winner.LongName(), v.WinnerVotes, v.LoserVotes)
}

// Tally counts votes. The text format wins only with strictly more votes;
// an even split, including no votes at all, goes to the binary format.
func Tally(votes []Format) Verdict {
	var text, binary int
	for _, v := range votes {
		switch v {
		case FormatText:
			text++
		case FormatBinary:
			binary++
		}
	}
	if text > binary {
		return Verdict{Winner: FormatText, WinnerVotes: text, LoserVotes: binary}
	}
	return Verdict{Winner: FormatBinary, WinnerVotes: binary, LoserVotes: text}
}
