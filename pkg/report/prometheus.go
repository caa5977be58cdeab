package report

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/blockberries/wirebench/pkg/bench"
)

const namespace = "wirebench"

// renderPrometheus writes the results in the Prometheus text exposition
// format, suitable for a node exporter textfile collector or a pushgateway.
func renderPrometheus(w io.Writer, res *bench.Results) error {
	reg := prometheus.NewRegistry()

	info := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "run_info",
		Help:      "Run identity and configuration.",
	}, []string{"run_id", "text_codec", "binary_codec", "compressor", "size", "iterations"})
	measurement := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "measurement",
		Help:      "Measured value per metric and format.",
	}, []string{"metric", "unit", "format"})
	ratio := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ratio_percent",
		Help:      "JSON value as a percentage of the Protobuf value.",
	}, []string{"metric"})
	winner := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "winner",
		Help:      "1 for the format that won the metric, 0 otherwise.",
	}, []string{"metric", "format"})
	votes := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "votes",
		Help:      "Metrics won per format.",
	}, []string{"format"})
	evolution := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "schema_evolution_ms",
		Help:      "Protobuf cross-version read cost per operation.",
	}, []string{"mode"})

	for _, c := range []prometheus.Collector{info, measurement, ratio, winner, votes, evolution} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}

	info.WithLabelValues(
		res.RunID.String(),
		res.TextCodec,
		res.BinaryCodec,
		res.Compressor,
		formatFloat(float64(res.Size)),
		formatFloat(float64(res.Iterations)),
	).Set(1)

	formats := []bench.Format{bench.FormatText, bench.FormatBinary}
	tally := map[bench.Format]int{}
	for _, e := range res.Entries() {
		ratio.WithLabelValues(e.Key).Set(e.Metric.RatioPercent)
		for _, f := range formats {
			measurement.WithLabelValues(e.Key, e.Unit, f.String()).Set(e.Metric.Value(f))
			won := 0.0
			if e.Metric.Winner == f {
				won = 1
			}
			winner.WithLabelValues(e.Key, f.String()).Set(won)
		}
		tally[e.Metric.Winner]++
	}
	for _, f := range formats {
		votes.WithLabelValues(f.String()).Set(float64(tally[f]))
	}
	if se := res.SchemaEvolution; se != nil {
		evolution.WithLabelValues("backward").Set(se.Backward)
		evolution.WithLabelValues("forward").Set(se.Forward)
		evolution.WithLabelValues("native").Set(se.Native)
	}

	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
