package bench

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tester runs trials with a fixed set of options. A Tester holds no state
// between trials and may be reused, but trials of one Tester must not run
// concurrently with each other.
type Tester struct {
	opts  Options
	clock Clock
	log   *zap.Logger
}

// NewTester returns a Tester for opts. Unset fields take their defaults.
func NewTester(opts Options) (*Tester, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Tester{
		opts:  opts,
		clock: opts.Clock,
		log:   opts.Logger.Named("bench"),
	}, nil
}

// Options returns the effective options.
func (t *Tester) Options() Options {
	return t.opts
}

// RunAll runs every trial.
func (t *Tester) RunAll(ctx context.Context) (*Results, error) {
	return t.Run(ctx, AllTrials()...)
}

// Run executes the given trials in their fixed order, ignoring duplicates.
// With no trials it runs all of them. The first error aborts the run.
func (t *Tester) Run(ctx context.Context, trials ...Trial) (*Results, error) {
	selected, err := normalize(trials)
	if err != nil {
		return nil, err
	}

	res := &Results{
		RunID:       uuid.New(),
		StartedAt:   t.clock.Now(),
		Size:        t.opts.Size,
		Iterations:  t.opts.Iterations,
		TextCodec:   t.opts.Text.Name(),
		BinaryCodec: t.opts.Binary.Name(),
		Compressor:  t.opts.Compressor.Name(),
	}
	log := t.log.With(zap.Stringer("run", res.RunID))

	for _, trial := range selected {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		log.Info("running trial", zap.Stringer("trial", trial))
		if err := t.runTrial(ctx, trial, res); err != nil {
			log.Error("trial failed", zap.Stringer("trial", trial), zap.Error(err))
			return nil, err
		}
		res.Trials = append(res.Trials, trial)
	}

	res.Verdict = Tally(res.Votes())
	res.Duration = t.clock.Since(res.StartedAt)
	log.Info("run complete",
		zap.Stringer("winner", res.Verdict.Winner),
		zap.Int("winner_votes", res.Verdict.WinnerVotes),
		zap.Int("loser_votes", res.Verdict.LoserVotes),
		zap.Duration("elapsed", res.Duration),
	)
	return res, nil
}

func (t *Tester) runTrial(ctx context.Context, trial Trial, res *Results) error {
	var err error
	switch trial {
	case TrialSerialization:
		res.Serialization, err = keep(t.Serialization(ctx))
	case TrialDeserialization:
		res.Deserialization, err = keep(t.Deserialization(ctx))
	case TrialPayloadSize:
		res.PayloadSize, err = keep(t.PayloadSize(ctx))
	case TrialCPU:
		res.CPU, err = keep(t.CPU(ctx))
	case TrialMemory:
		res.Memory, err = keep(t.Memory(ctx))
	case TrialNetwork:
		res.Network, err = keep(t.Network(ctx))
	case TrialLatencyUnderLoad:
		res.LatencyUnderLoad, err = keep(t.LatencyUnderLoad(ctx))
	case TrialParserInit:
		res.ParserInit, err = keep(t.ParserInit(ctx))
	case TrialThroughput:
		res.Throughput, err = keep(t.Throughput(ctx))
	case TrialSchemaEvolution:
		res.SchemaEvolution, err = keep(t.SchemaEvolution(ctx))
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownTrial, trial)
	}
	return err
}

func keep[M any](m M, err error) (*M, error) {
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func normalize(trials []Trial) ([]Trial, error) {
	if len(trials) == 0 {
		return AllTrials(), nil
	}
	out := make([]Trial, 0, len(trials))
	for _, tr := range trials {
		if !tr.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTrial, tr)
		}
		out = append(out, tr)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// logMetric records the measurements of a finished trial.
func (t *Tester) logMetric(trial Trial, unit string, m Metric) {
	t.log.Debug("trial measured",
		zap.Stringer("trial", trial),
		zap.String("unit", unit),
		zap.Float64("text", m.Text),
		zap.Float64("binary", m.Binary),
		zap.Float64("ratio_percent", m.RatioPercent),
		zap.Stringer("winner", m.Winner),
	)
}
