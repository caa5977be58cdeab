// Package report renders benchmark results for people and for machines.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/blockberries/wirebench/pkg/bench"
)

// Style selects an output format.
type Style string

const (
	StyleTable      Style = "table"
	StyleMarkdown   Style = "markdown"
	StyleCSV        Style = "csv"
	StyleJSON       Style = "json"
	StylePrometheus Style = "prometheus"
)

// ErrUnknownStyle is returned for unsupported output styles.
var ErrUnknownStyle = errors.New("report: unknown style")

var styles = []Style{StyleTable, StyleMarkdown, StyleCSV, StyleJSON, StylePrometheus}

// Styles returns the supported style names.
func Styles() []string {
	out := make([]string, len(styles))
	for i, s := range styles {
		out[i] = string(s)
	}
	return out
}

// ParseStyle validates a style name.
func ParseStyle(name string) (Style, error) {
	s := Style(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range styles {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q (available: %s)", ErrUnknownStyle, name, strings.Join(Styles(), ", "))
}

type settings struct {
	color bool
	lang  language.Tag
}

// Option adjusts rendering.
type Option func(*settings)

// WithColor enables ANSI colours in the table style.
func WithColor(enabled bool) Option {
	return func(s *settings) { s.color = enabled }
}

// WithLanguage sets the locale used to format numbers in human-readable
// styles. The default is English.
func WithLanguage(tag language.Tag) Option {
	return func(s *settings) { s.lang = tag }
}

// Render writes res to w in the given style.
func Render(w io.Writer, res *bench.Results, style Style, opts ...Option) error {
	if res == nil {
		return errors.New("report: nil results")
	}
	s := settings{lang: language.English}
	for _, o := range opts {
		o(&s)
	}

	switch style {
	case StyleTable:
		return renderTable(w, res, s)
	case StyleMarkdown:
		return renderMarkdown(w, res, s)
	case StyleCSV:
		return renderCSV(w, res)
	case StyleJSON:
		return renderJSON(w, res)
	case StylePrometheus:
		return renderPrometheus(w, res)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}
}

// numbers formats measurements for people.
type numbers struct {
	p *message.Printer
}

func newNumbers(tag language.Tag) numbers {
	return numbers{p: message.NewPrinter(tag)}
}

// value formats a measurement: whole numbers for sizes and rates, four
// fraction digits for times.
func (n numbers) value(v float64, unit string) string {
	digits := 4
	if unit == "bytes" || unit == "ops/s" {
		digits = 0
	}
	return n.p.Sprintf("%v", number.Decimal(v, number.MinFractionDigits(digits), number.MaxFractionDigits(digits)))
}

func (n numbers) ratio(v float64) string {
	return n.p.Sprintf("%v%%", number.Decimal(v, number.MinFractionDigits(1), number.MaxFractionDigits(1)))
}

// payloadNote explains the compressed payload row, or returns "" when the
// payload trial did not run.
func payloadNote(res *bench.Results) string {
	if res.PayloadSize == nil {
		return ""
	}
	return fmt.Sprintf("Compressed sizes are capped at the raw size: a payload %s does not shrink is counted uncompressed.", res.Compressor)
}

func header(res *bench.Results) string {
	return fmt.Sprintf("size %d, %d iterations, %s vs %s, %s compression",
		res.Size, res.Iterations, res.TextCodec, res.BinaryCodec, res.Compressor)
}
