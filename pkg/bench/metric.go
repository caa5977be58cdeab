// Package bench runs the comparison trials between the text and binary
// formats and aggregates their outcomes into an overall verdict.
//
// Every trial produces a Metric holding one measurement per format, the
// ratio between them and the winning format. Trials are independent: each
// generates its own fixtures and never shares mutable state with another.
package bench

import (
	"fmt"
)

// Format identifies one side of a comparison.
type Format int

const (
	// FormatText is the JSON text format.
	FormatText Format = iota + 1
	// FormatBinary is the Protocol Buffers binary format.
	FormatBinary
)

// String returns the short display name of the format.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "JSON"
	case FormatBinary:
		return "Protobuf"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// LongName returns the name used in the overall verdict.
func (f Format) LongName() string {
	if f == FormatBinary {
		return "Protocol Buffers"
	}
	return f.String()
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Direction tells which measurement is better.
type Direction int

const (
	// LowerIsBetter applies to costs: time, bytes.
	LowerIsBetter Direction = iota
	// HigherIsBetter applies to rates.
	HigherIsBetter
)

// Metric is the outcome of one comparison.
type Metric struct {
	Text   float64 `json:"text"`
	Binary float64 `json:"binary"`

	// RatioPercent is Text / Binary * 100, or 0 when Binary is 0.
	RatioPercent float64 `json:"ratio_percent"`

	Winner Format `json:"winner"`
}

// NewMetric builds a metric from the two measurements. Ties go to the
// binary format in both directions.
func NewMetric(text, binary float64, dir Direction) Metric {
	m := Metric{
		Text:   text,
		Binary: binary,
		Winner: FormatBinary,
	}
	if binary != 0 {
		m.RatioPercent = text / binary * 100
	}
	switch dir {
	case LowerIsBetter:
		if text < binary {
			m.Winner = FormatText
		}
	case HigherIsBetter:
		if text > binary {
			m.Winner = FormatText
		}
	}
	return m
}

// Value returns the measurement of format f.
func (m Metric) Value(f Format) float64 {
	if f == FormatText {
		return m.Text
	}
	return m.Binary
}

// PayloadMetric holds the two payload size comparisons. Each casts its own vote.
type PayloadMetric struct {
	Uncompressed Metric `json:"uncompressed"`
	Compressed   Metric `json:"compressed"`
}

// SchemaEvolutionMetric compares the cost of reading data across schema
// versions. The embedded Metric compares the text filter cost against the
// mean of Backward and Forward.
type SchemaEvolutionMetric struct {
	Metric

	// Backward is the binary cost of a new reader consuming old data.
	Backward float64 `json:"binary_backward"`
	// Forward is the binary cost of an old reader consuming new data.
	Forward float64 `json:"binary_forward"`
	// Native is the binary cost of decoding new data with the old decoder
	// directly, relying on unknown-field skipping. Informational only.
	Native float64 `json:"binary_native"`
}
