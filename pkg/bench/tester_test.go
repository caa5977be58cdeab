package bench

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/blockberries/wirebench/pkg/codec"
	"github.com/blockberries/wirebench/pkg/fixture"
)

// stepClock advances by step every time Since is called.
type stepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newStepClock(step time.Duration) *stepClock {
	return &stepClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), step: step}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Since(t time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now.Sub(t)
}

var errBroken = errors.New("broken decoder")

type brokenBinary struct {
	codec.BinaryCodec
}

func (brokenBinary) Unmarshal([]byte, any) error { return errBroken }

// countingBinary records which encode path the trials take.
type countingBinary struct {
	codec.BinaryCodec
	marshals atomic.Int64
	appends  atomic.Int64
}

func (c *countingBinary) Marshal(v any) ([]byte, error) {
	c.marshals.Add(1)
	return c.BinaryCodec.Marshal(v)
}

func (c *countingBinary) AppendMarshal(b []byte, v any) ([]byte, error) {
	c.appends.Add(1)
	data, err := c.BinaryCodec.Marshal(v)
	return append(b, data...), err
}

func newTester(t *testing.T, mutate func(*Options)) *Tester {
	t.Helper()
	opts := DefaultOptions()
	opts.Iterations = 100
	opts.Logger = zaptest.NewLogger(t)
	if mutate != nil {
		mutate(&opts)
	}
	tester, err := NewTester(opts)
	require.NoError(t, err)
	return tester
}

func TestNewTesterDefaults(t *testing.T) {
	tester, err := NewTester(Options{Size: 3})
	require.NoError(t, err)

	opts := tester.Options()
	assert.Equal(t, 3, opts.Size)
	assert.Equal(t, DefaultIterations, opts.Iterations)
	assert.Equal(t, codec.DefaultText, opts.Text.Name())
	assert.Equal(t, codec.DefaultBinary, opts.Binary.Name())
	assert.Equal(t, "gzip", opts.Compressor.Name())
	assert.Equal(t, DefaultOptions().Load, opts.Load)
	assert.Equal(t, DefaultOptions().Network, opts.Network)
	assert.Equal(t, 10, opts.CPUMultiplier)
	assert.Equal(t, time.Second, opts.ThroughputWindow)
	assert.IsType(t, SystemClock{}, opts.Clock)
}

func TestNewTesterInvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"negative iterations", func(o *Options) { o.Iterations = -1 }},
		{"no workers", func(o *Options) { o.Load.Workers = -1 }},
		{"negative delay", func(o *Options) { o.Load.Delay = -time.Millisecond }},
		{"negative bandwidth", func(o *Options) { o.Network.BandwidthMbps = -1 }},
		{"negative window", func(o *Options) { o.ThroughputWindow = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			_, err := NewTester(opts)
			assert.True(t, errors.Is(err, ErrInvalidOptions), "got %v", err)
		})
	}
}

func TestSerialization(t *testing.T) {
	tester := newTester(t, func(o *Options) { o.Iterations = DefaultIterations })

	m, err := tester.Serialization(context.Background())
	require.NoError(t, err)
	assert.Positive(t, m.Text)
	assert.Positive(t, m.Binary)
	if m.Text < m.Binary {
		assert.Equal(t, FormatText, m.Winner)
	} else {
		assert.Equal(t, FormatBinary, m.Winner)
	}
	assert.InDelta(t, m.Text/m.Binary*100, m.RatioPercent, 1e-6)
}

func TestTimedTrialsWithFixedClock(t *testing.T) {
	// Every timed section lasts exactly one step, so both formats tie.
	tester := newTester(t, func(o *Options) {
		o.Iterations = 50
		o.Clock = newStepClock(time.Millisecond)
	})
	ctx := context.Background()

	ser, err := tester.Serialization(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/50, ser.Text, 1e-12)
	assert.Equal(t, ser.Text, ser.Binary)
	assert.Equal(t, FormatBinary, ser.Winner)
	assert.InDelta(t, 100, ser.RatioPercent, 1e-9)

	cpu, err := tester.CPU(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, cpu.Text, 1e-12)
	assert.Equal(t, FormatBinary, cpu.Winner)

	mem, err := tester.Memory(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, mem.Binary, 1e-12)
}

func TestDeserialization(t *testing.T) {
	tester := newTester(t, nil)
	m, err := tester.Deserialization(context.Background())
	require.NoError(t, err)
	assert.Positive(t, m.Text)
	assert.Positive(t, m.Binary)
}

func TestPayloadSize(t *testing.T) {
	tester := newTester(t, nil)
	ctx := context.Background()

	first, err := tester.PayloadSize(ctx)
	require.NoError(t, err)
	second, err := tester.PayloadSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, FormatBinary, first.Uncompressed.Winner)
	assert.Greater(t, first.Uncompressed.RatioPercent, 100.0)
	assert.LessOrEqual(t, first.Compressed.Text, first.Uncompressed.Text)
	assert.LessOrEqual(t, first.Compressed.Binary, first.Uncompressed.Binary)
}

func TestPayloadSizeGrowsWithSize(t *testing.T) {
	small, err := newTester(t, func(o *Options) { o.Size = 1 }).PayloadSize(context.Background())
	require.NoError(t, err)
	large, err := newTester(t, func(o *Options) { o.Size = 40 }).PayloadSize(context.Background())
	require.NoError(t, err)

	assert.Greater(t, large.Uncompressed.Text, small.Uncompressed.Text)
	assert.Greater(t, large.Uncompressed.Binary, small.Uncompressed.Binary)
}

func TestNetwork(t *testing.T) {
	tester := newTester(t, nil)
	m, err := tester.Network(context.Background())
	require.NoError(t, err)

	text, bin, err := fixture.GenerateBase(DefaultSize)
	require.NoError(t, err)
	textData, err := tester.Options().Text.Marshal(text)
	require.NoError(t, err)
	binData, err := tester.Options().Binary.Marshal(bin)
	require.NoError(t, err)

	model := func(n int) float64 { return 50 + float64(n)*8/(10*1024*1024)*1000 }
	assert.InDelta(t, model(len(textData)), m.Text, 1e-9)
	assert.InDelta(t, model(len(binData)), m.Binary, 1e-9)
	assert.Equal(t, FormatBinary, m.Winner)
}

func TestNetworkProfileTransferMillis(t *testing.T) {
	p := NetworkProfile{BaseLatency: 50 * time.Millisecond, BandwidthMbps: 10}
	assert.InDelta(t, 50, p.TransferMillis(0), 1e-12)
	// 1.25 MiB is one second on a 10 Mb/s link.
	assert.InDelta(t, 1050, p.TransferMillis(10*1024*1024/8), 1e-9)
}

func TestLatencyUnderLoad(t *testing.T) {
	tester := newTester(t, nil)
	m, err := tester.LatencyUnderLoad(context.Background())
	require.NoError(t, err)

	// Each worker sleeps 10 times for 1ms, so neither format can finish
	// sooner than 10ms. Running the 10 workers one after another would take
	// at least 100ms; staying below that shows they overlap.
	for _, f := range []Format{FormatText, FormatBinary} {
		assert.GreaterOrEqual(t, m.Value(f), 10.0, f.String())
		assert.Less(t, m.Value(f), 100.0, f.String())
	}
}

func TestParserInit(t *testing.T) {
	tester := newTester(t, nil)
	m, err := tester.ParserInit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.01, m.Text)
	assert.Equal(t, 5.0, m.Binary)
	assert.Equal(t, FormatText, m.Winner)
	assert.InDelta(t, 0.2, m.RatioPercent, 1e-9)
}

func TestThroughputWithFixedClock(t *testing.T) {
	tester := newTester(t, func(o *Options) {
		o.Clock = newStepClock(time.Millisecond)
		o.ThroughputWindow = time.Second
	})

	m, err := tester.Throughput(context.Background())
	require.NoError(t, err)
	// 999 loop checks fall inside the window; the final reading is 1.001s.
	assert.InDelta(t, 999/1.001, m.Text, 1e-9)
	assert.Equal(t, m.Text, m.Binary)
	assert.Equal(t, FormatBinary, m.Winner)
}

func TestThroughput(t *testing.T) {
	tester := newTester(t, func(o *Options) { o.ThroughputWindow = 20 * time.Millisecond })
	m, err := tester.Throughput(context.Background())
	require.NoError(t, err)
	assert.Positive(t, m.Text)
	assert.Positive(t, m.Binary)
	if m.Text > m.Binary {
		assert.Equal(t, FormatText, m.Winner)
	} else {
		assert.Equal(t, FormatBinary, m.Winner)
	}
}

func TestSchemaEvolution(t *testing.T) {
	tester := newTester(t, func(o *Options) { o.Iterations = 200 })
	m, err := tester.SchemaEvolution(context.Background())
	require.NoError(t, err)

	assert.Positive(t, m.Text)
	assert.Positive(t, m.Backward)
	assert.Positive(t, m.Forward)
	assert.Positive(t, m.Native)
	assert.InDelta(t, (m.Backward+m.Forward)/2, m.Binary, 1e-12)
}

func TestRunAll(t *testing.T) {
	tester := newTester(t, func(o *Options) {
		o.Iterations = 20
		o.Clock = newStepClock(time.Microsecond)
		o.ThroughputWindow = time.Millisecond
	})

	res, err := tester.RunAll(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, res.RunID)
	assert.Equal(t, AllTrials(), res.Trials)
	assert.Equal(t, DefaultSize, res.Size)
	assert.Equal(t, 20, res.Iterations)
	assert.Equal(t, "jsoniter", res.TextCodec)
	assert.Equal(t, "protowire", res.BinaryCodec)
	assert.Equal(t, "gzip", res.Compressor)

	require.NotNil(t, res.Serialization)
	require.NotNil(t, res.PayloadSize)
	require.NotNil(t, res.SchemaEvolution)
	require.NotNil(t, res.Throughput)

	votes := res.Votes()
	assert.Len(t, votes, 11)
	assert.Equal(t, 11, res.Verdict.WinnerVotes+res.Verdict.LoserVotes)
	assert.Equal(t, Tally(votes), res.Verdict)
	assert.Positive(t, res.Duration)
}

func TestRunSubsetInFixedOrder(t *testing.T) {
	tester := newTester(t, nil)

	res, err := tester.Run(context.Background(), TrialNetwork, TrialSerialization, TrialNetwork)
	require.NoError(t, err)

	assert.Equal(t, []Trial{TrialSerialization, TrialNetwork}, res.Trials)
	assert.NotNil(t, res.Serialization)
	assert.NotNil(t, res.Network)
	assert.Nil(t, res.Deserialization)
	assert.Nil(t, res.PayloadSize)
	assert.Nil(t, res.SchemaEvolution)
	assert.Len(t, res.Votes(), 2)
}

func TestRunUnknownTrial(t *testing.T) {
	tester := newTester(t, nil)
	_, err := tester.Run(context.Background(), TrialCPU, Trial(99))
	assert.True(t, errors.Is(err, ErrUnknownTrial))
}

func TestRunCanceled(t *testing.T) {
	tester := newTester(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tester.RunAll(ctx)
	assert.True(t, errors.Is(err, context.Canceled))

	_, err = tester.LatencyUnderLoad(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, ErrCodec))
}

func TestFixtureErrorAbortsRun(t *testing.T) {
	tester := newTester(t, func(o *Options) { o.Size = -1 })

	_, err := tester.RunAll(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFixture))

	var te *TrialError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, TrialSerialization, te.Trial)

	var fe *fixture.Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, -1, fe.Size)
}

func TestCodecFailureAbortsRun(t *testing.T) {
	binary, err := codec.GetBinary(codec.DefaultBinary)
	require.NoError(t, err)
	tester := newTester(t, func(o *Options) { o.Binary = brokenBinary{binary} })

	for _, trial := range []Trial{TrialDeserialization, TrialLatencyUnderLoad, TrialSchemaEvolution} {
		t.Run(trial.String(), func(t *testing.T) {
			_, err := tester.Run(context.Background(), trial)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCodec))
			assert.True(t, errors.Is(err, errBroken))

			var te *TrialError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, trial, te.Trial)
			assert.Equal(t, FormatBinary, te.Format)
			assert.Equal(t, "decode", te.Op)
		})
	}

	// Encoding still works, so trials that never decode succeed.
	_, err = tester.Run(context.Background(), TrialPayloadSize, TrialNetwork, TrialParserInit)
	assert.NoError(t, err)
}

func TestSerializationAllocatesPerOp(t *testing.T) {
	binary, err := codec.GetBinary(codec.DefaultBinary)
	require.NoError(t, err)
	counting := &countingBinary{BinaryCodec: binary}
	tester := newTester(t, func(o *Options) {
		o.Size = 2
		o.Iterations = 40
		o.Binary = counting
	})

	_, err = tester.Serialization(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 40, counting.marshals.Load())
	assert.Zero(t, counting.appends.Load(), "both formats encode into fresh buffers")
}
