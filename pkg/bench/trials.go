package bench

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/valyala/fastjson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/blockberries/wirebench/pkg/compress"
	"github.com/blockberries/wirebench/pkg/evolution"
	"github.com/blockberries/wirebench/pkg/fixture"
	"github.com/blockberries/wirebench/pkg/model"
	"github.com/blockberries/wirebench/pkg/schema"
)

// ctxCheckInterval is how many loop iterations pass between context checks.
const ctxCheckInterval = 256

// baseFixtures generates a fresh pair of base records.
func (t *Tester) baseFixtures(trial Trial) (model.JSONPerson, *model.Person, error) {
	text, bin, err := fixture.GenerateBase(t.opts.Size)
	if err != nil {
		return model.JSONPerson{}, nil, fixtureError(trial, err)
	}
	return text, bin, nil
}

// encodeBoth encodes a fresh pair of base records once per format.
func (t *Tester) encodeBoth(trial Trial) (textData, binData []byte, err error) {
	text, bin, err := t.baseFixtures(trial)
	if err != nil {
		return nil, nil, err
	}
	if textData, err = t.opts.Text.Marshal(text); err != nil {
		return nil, nil, codecError(trial, FormatText, "encode", err)
	}
	if binData, err = t.opts.Binary.Marshal(bin); err != nil {
		return nil, nil, codecError(trial, FormatBinary, "encode", err)
	}
	return textData, binData, nil
}

// timed runs fn n times and returns the total elapsed time.
func (t *Tester) timed(ctx context.Context, n int, fn func() error) (time.Duration, error) {
	start := t.clock.Now()
	for i := range n {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		if err := fn(); err != nil {
			return 0, err
		}
	}
	return t.clock.Since(start), nil
}

// measurePair times a text and a binary operation n times each and
// converts the durations with conv.
func (t *Tester) measurePair(ctx context.Context, trial Trial, op string, n int, conv func(time.Duration) float64, textFn, binFn func() error) (float64, float64, error) {
	textDur, err := t.timed(ctx, n, textFn)
	if err != nil {
		return 0, 0, t.loopError(ctx, trial, FormatText, op, err)
	}
	binDur, err := t.timed(ctx, n, binFn)
	if err != nil {
		return 0, 0, t.loopError(ctx, trial, FormatBinary, op, err)
	}
	return conv(textDur), conv(binDur), nil
}

// loopError passes context errors through and classifies the rest as codec
// failures.
func (t *Tester) loopError(ctx context.Context, trial Trial, f Format, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return err
	}
	return codecError(trial, f, op, err)
}

func perOp(n int) func(time.Duration) float64 {
	return func(d time.Duration) float64 { return millisPerOp(d, n) }
}

// Serialization measures the mean encode time per operation.
func (t *Tester) Serialization(ctx context.Context) (Metric, error) {
	const trial = TrialSerialization
	text, bin, err := t.baseFixtures(trial)
	if err != nil {
		return Metric{}, err
	}
	n := t.opts.Iterations
	textMs, binMs, err := t.measurePair(ctx, trial, "encode", n, perOp(n),
		func() error {
			_, err := t.opts.Text.Marshal(text)
			return err
		},
		func() error {
			_, err := t.opts.Binary.Marshal(bin)
			return err
		},
	)
	if err != nil {
		return Metric{}, err
	}
	m := NewMetric(textMs, binMs, LowerIsBetter)
	t.logMetric(trial, "ms/op", m)
	return m, nil
}

// Deserialization measures the mean decode time per operation of data
// produced by each format's own encoder.
func (t *Tester) Deserialization(ctx context.Context) (Metric, error) {
	const trial = TrialDeserialization
	textData, binData, err := t.encodeBoth(trial)
	if err != nil {
		return Metric{}, err
	}
	n := t.opts.Iterations
	textMs, binMs, err := t.measurePair(ctx, trial, "decode", n, perOp(n),
		func() error {
			var p model.JSONPerson
			return t.opts.Text.Unmarshal(textData, &p)
		},
		func() error {
			var p model.Person
			return t.opts.Binary.Unmarshal(binData, &p)
		},
	)
	if err != nil {
		return Metric{}, err
	}
	m := NewMetric(textMs, binMs, LowerIsBetter)
	t.logMetric(trial, "ms/op", m)
	return m, nil
}

// PayloadSize compares encoded sizes, raw and after compression. The
// result is deterministic for a given size factor.
func (t *Tester) PayloadSize(ctx context.Context) (PayloadMetric, error) {
	const trial = TrialPayloadSize
	if err := ctx.Err(); err != nil {
		return PayloadMetric{}, err
	}
	textData, binData, err := t.encodeBoth(trial)
	if err != nil {
		return PayloadMetric{}, err
	}
	textZ, err := compressedSize(t, textData)
	if err != nil {
		return PayloadMetric{}, codecError(trial, FormatText, "compress", err)
	}
	binZ, err := compressedSize(t, binData)
	if err != nil {
		return PayloadMetric{}, codecError(trial, FormatBinary, "compress", err)
	}
	pm := PayloadMetric{
		Uncompressed: NewMetric(float64(len(textData)), float64(len(binData)), LowerIsBetter),
		Compressed:   NewMetric(float64(textZ), float64(binZ), LowerIsBetter),
	}
	t.logMetric(trial, "bytes", pm.Uncompressed)
	t.logMetric(trial, "bytes compressed", pm.Compressed)
	return pm, nil
}

func compressedSize(t *Tester, data []byte) (int, error) {
	n, err := compress.EffectiveSize(t.opts.Compressor, data)
	if err != nil {
		return 0, err
	}
	t.log.Debug("compressed payload",
		zap.String("compressor", t.opts.Compressor.Name()),
		zap.Int("raw", len(data)),
		zap.Int("effective", n),
	)
	return n, nil
}

// CPU measures the total time of Iterations*CPUMultiplier encode and
// decode round trips.
func (t *Tester) CPU(ctx context.Context) (Metric, error) {
	const trial = TrialCPU
	text, bin, err := t.baseFixtures(trial)
	if err != nil {
		return Metric{}, err
	}
	n := t.opts.Iterations * t.opts.CPUMultiplier
	textMs, binMs, err := t.measurePair(ctx, trial, "round trip", n, millis,
		func() error {
			data, err := t.opts.Text.Marshal(text)
			if err != nil {
				return err
			}
			var p model.JSONPerson
			return t.opts.Text.Unmarshal(data, &p)
		},
		func() error {
			data, err := t.opts.Binary.Marshal(bin)
			if err != nil {
				return err
			}
			var p model.Person
			return t.opts.Binary.Unmarshal(data, &p)
		},
	)
	if err != nil {
		return Metric{}, err
	}
	m := NewMetric(textMs, binMs, LowerIsBetter)
	t.logMetric(trial, "ms", m)
	return m, nil
}

// Memory measures the total time to decode Iterations records and keep
// every one of them live in a pre-sized collection, which is released
// after the timed section.
func (t *Tester) Memory(ctx context.Context) (Metric, error) {
	const trial = TrialMemory
	text, bin, err := t.baseFixtures(trial)
	if err != nil {
		return Metric{}, err
	}
	n := t.opts.Iterations

	textKept := make([]model.JSONPerson, 0, n)
	binKept := make([]*model.Person, 0, n)
	textMs, binMs, err := t.measurePair(ctx, trial, "round trip", n, millis,
		func() error {
			data, err := t.opts.Text.Marshal(text)
			if err != nil {
				return err
			}
			var p model.JSONPerson
			if err := t.opts.Text.Unmarshal(data, &p); err != nil {
				return err
			}
			textKept = append(textKept, p)
			return nil
		},
		func() error {
			data, err := t.opts.Binary.Marshal(bin)
			if err != nil {
				return err
			}
			p := new(model.Person)
			if err := t.opts.Binary.Unmarshal(data, p); err != nil {
				return err
			}
			binKept = append(binKept, p)
			return nil
		},
	)
	t.log.Debug("released records", zap.Int("text", len(textKept)), zap.Int("binary", len(binKept)))
	clear(textKept)
	clear(binKept)
	if err != nil {
		return Metric{}, err
	}
	m := NewMetric(textMs, binMs, LowerIsBetter)
	t.logMetric(trial, "ms", m)
	return m, nil
}

// Network models the time to send one encoded record over the configured
// link. No real I/O takes place.
func (t *Tester) Network(ctx context.Context) (Metric, error) {
	const trial = TrialNetwork
	if err := ctx.Err(); err != nil {
		return Metric{}, err
	}
	textData, binData, err := t.encodeBoth(trial)
	if err != nil {
		return Metric{}, err
	}
	m := NewMetric(
		t.opts.Network.TransferMillis(len(textData)),
		t.opts.Network.TransferMillis(len(binData)),
		LowerIsBetter,
	)
	t.logMetric(trial, "ms", m)
	return m, nil
}

// LatencyUnderLoad runs concurrent decoders, each on its own copy of the
// payload, and reports the wall time until all of them have finished. The
// first decode failure cancels the other workers.
func (t *Tester) LatencyUnderLoad(ctx context.Context) (Metric, error) {
	const trial = TrialLatencyUnderLoad
	textData, binData, err := t.encodeBoth(trial)
	if err != nil {
		return Metric{}, err
	}

	textDur, err := t.underLoad(ctx, textData, func(data []byte) error {
		var p model.JSONPerson
		return t.opts.Text.Unmarshal(data, &p)
	})
	if err != nil {
		return Metric{}, t.loopError(ctx, trial, FormatText, "decode", err)
	}
	binDur, err := t.underLoad(ctx, binData, func(data []byte) error {
		var p model.Person
		return t.opts.Binary.Unmarshal(data, &p)
	})
	if err != nil {
		return Metric{}, t.loopError(ctx, trial, FormatBinary, "decode", err)
	}

	m := NewMetric(millis(textDur), millis(binDur), LowerIsBetter)
	t.logMetric(trial, "ms", m)
	return m, nil
}

func (t *Tester) underLoad(ctx context.Context, payload []byte, decode func([]byte) error) (time.Duration, error) {
	load := t.opts.Load
	start := t.clock.Now()
	g, gctx := errgroup.WithContext(ctx)
	for range load.Workers {
		data := bytes.Clone(payload)
		g.Go(func() error {
			for range load.OpsPerWorker {
				if err := decode(data); err != nil {
					return err
				}
				if err := sleep(gctx, load.Delay); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return t.clock.Since(start), nil
}

// ParserInit reports the configured parser initialization costs.
func (t *Tester) ParserInit(ctx context.Context) (Metric, error) {
	if err := ctx.Err(); err != nil {
		return Metric{}, err
	}
	p := t.opts.ParserInit
	m := NewMetric(p.TextMillis, p.BinaryMillis, LowerIsBetter)
	t.logMetric(TrialParserInit, "ms", m)
	return m, nil
}

// Throughput runs encode and decode round trips back to back for
// ThroughputWindow per format and reports operations per second.
func (t *Tester) Throughput(ctx context.Context) (Metric, error) {
	const trial = TrialThroughput
	text, bin, err := t.baseFixtures(trial)
	if err != nil {
		return Metric{}, err
	}

	textRate, err := t.rate(ctx, func() error {
		data, err := t.opts.Text.Marshal(text)
		if err != nil {
			return err
		}
		var p model.JSONPerson
		return t.opts.Text.Unmarshal(data, &p)
	})
	if err != nil {
		return Metric{}, t.loopError(ctx, trial, FormatText, "round trip", err)
	}
	binRate, err := t.rate(ctx, func() error {
		data, err := t.opts.Binary.Marshal(bin)
		if err != nil {
			return err
		}
		var p model.Person
		return t.opts.Binary.Unmarshal(data, &p)
	})
	if err != nil {
		return Metric{}, t.loopError(ctx, trial, FormatBinary, "round trip", err)
	}

	m := NewMetric(textRate, binRate, HigherIsBetter)
	t.logMetric(trial, "ops/s", m)
	return m, nil
}

func (t *Tester) rate(ctx context.Context, fn func() error) (float64, error) {
	window := t.opts.ThroughputWindow
	start := t.clock.Now()
	ops := 0
	for t.clock.Since(start) < window {
		if ops%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		if err := fn(); err != nil {
			return 0, err
		}
		ops++
	}
	elapsed := t.clock.Since(start).Seconds()
	if elapsed <= 0 {
		return 0, nil
	}
	return float64(ops) / elapsed, nil
}

// SchemaEvolution measures the cost of reading data across schema versions.
//
// The binary side decodes base bytes into the evolved shape (backward) and
// evolved bytes into the base shape (forward) through the record mapper;
// its vote uses the mean of the two. The text side parses an evolved
// document untyped and keeps only the base keys. Decoding evolved bytes with
// the base decoder is recorded as Native.
func (t *Tester) SchemaEvolution(ctx context.Context) (SchemaEvolutionMetric, error) {
	const trial = TrialSchemaEvolution
	var zero SchemaEvolutionMetric

	report := schema.CheckCompatibility(schema.BaseDescriptor(), schema.EvolvedDescriptor())
	if !report.IsCompatible() {
		return zero, &TrialError{Trial: trial, Op: "check", Kind: ErrIncompatibleSchema, Err: report.Err()}
	}

	_, base, err := fixture.GenerateBase(t.opts.Size)
	if err != nil {
		return zero, fixtureError(trial, err)
	}
	evText, evolved, err := fixture.GenerateEvolved(t.opts.Size)
	if err != nil {
		return zero, fixtureError(trial, err)
	}
	baseData, err := t.opts.Binary.Marshal(base)
	if err != nil {
		return zero, codecError(trial, FormatBinary, "encode", err)
	}
	evolvedData, err := t.opts.Binary.Marshal(evolved)
	if err != nil {
		return zero, codecError(trial, FormatBinary, "encode", err)
	}
	evolvedDoc, err := t.opts.Text.Marshal(evText)
	if err != nil {
		return zero, codecError(trial, FormatText, "encode", err)
	}

	n := t.opts.Iterations
	var kept int

	backward, err := t.timed(ctx, n, func() error {
		var p model.Person
		if err := t.opts.Binary.Unmarshal(baseData, &p); err != nil {
			return err
		}
		kept += len(evolution.Widen(&p).Phones)
		return nil
	})
	if err != nil {
		return zero, t.loopError(ctx, trial, FormatBinary, "decode", err)
	}
	forward, err := t.timed(ctx, n, func() error {
		var p model.EvolvedPerson
		if err := t.opts.Binary.Unmarshal(evolvedData, &p); err != nil {
			return err
		}
		kept += len(evolution.Narrow(&p).Phones)
		return nil
	})
	if err != nil {
		return zero, t.loopError(ctx, trial, FormatBinary, "decode", err)
	}
	native, err := t.timed(ctx, n, func() error {
		var p model.Person
		return t.opts.Binary.Unmarshal(evolvedData, &p)
	})
	if err != nil {
		return zero, t.loopError(ctx, trial, FormatBinary, "decode", err)
	}

	parser := t.opts.Text.NewDocumentParser()
	var (
		arena fastjson.Arena
		out   []byte
	)
	filtered, err := t.timed(ctx, n, func() error {
		doc, err := parser.Parse(evolvedDoc)
		if err != nil {
			return err
		}
		arena.Reset()
		v, err := evolution.FilterDocument(&arena, doc)
		if err != nil {
			return err
		}
		out = v.MarshalTo(out[:0])
		return nil
	})
	if err != nil {
		return zero, t.loopError(ctx, trial, FormatText, "filter", err)
	}
	t.log.Debug("schema evolution outputs", zap.Int("phones_mapped", kept), zap.Int("filtered_bytes", len(out)))

	backwardMs := millisPerOp(backward, n)
	forwardMs := millisPerOp(forward, n)
	m := SchemaEvolutionMetric{
		Metric:   NewMetric(millisPerOp(filtered, n), (backwardMs+forwardMs)/2, LowerIsBetter),
		Backward: backwardMs,
		Forward:  forwardMs,
		Native:   millisPerOp(native, n),
	}
	t.logMetric(trial, "ms/op", m.Metric)
	return m, nil
}
