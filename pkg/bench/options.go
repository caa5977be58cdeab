package bench

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/blockberries/wirebench/pkg/codec"
	"github.com/blockberries/wirebench/pkg/compress"
)

// LoadProfile shapes the latency-under-load trial: Workers concurrent
// decoders each perform OpsPerWorker decodes, pausing Delay after every one.
type LoadProfile struct {
	Workers      int
	OpsPerWorker int
	Delay        time.Duration
}

// NetworkProfile models a link with a fixed base latency and a bandwidth in
// megabits per second (1 Mb = 1024*1024 bits).
type NetworkProfile struct {
	BaseLatency   time.Duration
	BandwidthMbps float64
}

// TransferMillis returns the modelled time to send n bytes.
func (p NetworkProfile) TransferMillis(n int) float64 {
	transfer := float64(n) * 8 / (p.BandwidthMbps * 1024 * 1024) * 1000
	return millis(p.BaseLatency) + transfer
}

// ParserInitProfile holds the reported parser initialization costs in
// milliseconds. Schema-driven decoders pay a one-time setup that reflection
// based JSON decoders do not; the values are modelled, not measured.
type ParserInitProfile struct {
	TextMillis   float64
	BinaryMillis float64
}

// Options configures a Tester. Zero-valued fields take their defaults.
type Options struct {
	// Size is the fixture size factor.
	Size int
	// Iterations is the repetition count of the timed loops.
	Iterations int

	Text       codec.TextCodec
	Binary     codec.BinaryCodec
	Compressor compress.Compressor

	Clock  Clock
	Logger *zap.Logger

	Load       LoadProfile
	Network    NetworkProfile
	ParserInit ParserInitProfile

	// CPUMultiplier scales Iterations in the CPU trial.
	CPUMultiplier int
	// ThroughputWindow is how long each format runs in the throughput trial.
	ThroughputWindow time.Duration
}

const (
	DefaultSize       = 20
	DefaultIterations = 1000
)

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Size:       DefaultSize,
		Iterations: DefaultIterations,
		Load: LoadProfile{
			Workers:      10,
			OpsPerWorker: 10,
			Delay:        time.Millisecond,
		},
		Network: NetworkProfile{
			BaseLatency:   50 * time.Millisecond,
			BandwidthMbps: 10,
		},
		ParserInit: ParserInitProfile{
			TextMillis:   0.01,
			BinaryMillis: 5.0,
		},
		CPUMultiplier:    10,
		ThroughputWindow: time.Second,
	}
}

// withDefaults fills unset fields. Size is left alone: zero is a valid size
// and negative sizes are reported by the fixture generator.
func (o Options) withDefaults() (Options, error) {
	def := DefaultOptions()
	if o.Iterations == 0 {
		o.Iterations = def.Iterations
	}
	if o.Text == nil {
		c, err := codec.GetText(codec.DefaultText)
		if err != nil {
			return o, err
		}
		o.Text = c
	}
	if o.Binary == nil {
		c, err := codec.GetBinary(codec.DefaultBinary)
		if err != nil {
			return o, err
		}
		o.Binary = c
	}
	if o.Compressor == nil {
		c, err := compress.Get(compress.Default)
		if err != nil {
			return o, err
		}
		o.Compressor = c
	}
	if o.Clock == nil {
		o.Clock = SystemClock{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Load == (LoadProfile{}) {
		o.Load = def.Load
	}
	if o.Network == (NetworkProfile{}) {
		o.Network = def.Network
	}
	if o.ParserInit == (ParserInitProfile{}) {
		o.ParserInit = def.ParserInit
	}
	if o.CPUMultiplier == 0 {
		o.CPUMultiplier = def.CPUMultiplier
	}
	if o.ThroughputWindow == 0 {
		o.ThroughputWindow = def.ThroughputWindow
	}
	return o, nil
}

func (o Options) validate() error {
	switch {
	case o.Iterations < 1:
		return fmt.Errorf("%w: iterations must be at least 1, got %d", ErrInvalidOptions, o.Iterations)
	case o.Load.Workers < 1 || o.Load.OpsPerWorker < 1:
		return fmt.Errorf("%w: load profile needs at least one worker and one op", ErrInvalidOptions)
	case o.Load.Delay < 0:
		return fmt.Errorf("%w: negative load delay", ErrInvalidOptions)
	case o.Network.BandwidthMbps <= 0:
		return fmt.Errorf("%w: bandwidth must be positive", ErrInvalidOptions)
	case o.CPUMultiplier < 1:
		return fmt.Errorf("%w: cpu multiplier must be at least 1", ErrInvalidOptions)
	case o.ThroughputWindow < 0:
		return fmt.Errorf("%w: negative throughput window", ErrInvalidOptions)
	}
	return nil
}
