// Package config loads the wirebench run configuration from defaults, an
// optional YAML file, WIREBENCH_* environment variables and command-line
// flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/blockberries/wirebench/pkg/bench"
	"github.com/blockberries/wirebench/pkg/codec"
	"github.com/blockberries/wirebench/pkg/compress"
	"github.com/blockberries/wirebench/pkg/fixture"
	"github.com/blockberries/wirebench/pkg/report"
)

// EnvPrefix prefixes every environment variable, e.g. WIREBENCH_SIZE.
const EnvPrefix = "WIREBENCH"

// ErrInvalid is returned when the merged configuration fails validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the merged run configuration.
type Config struct {
	Size       int      `mapstructure:"size" validate:"gte=0,fixture_size"`
	Iterations int      `mapstructure:"iterations" validate:"gte=1"`
	Tests      []string `mapstructure:"tests" validate:"dive,trial"`

	TextCodec   string `mapstructure:"text_codec" validate:"required,text_codec"`
	BinaryCodec string `mapstructure:"binary_codec" validate:"required,binary_codec"`
	Compressor  string `mapstructure:"compressor" validate:"required,compressor"`

	Output   string `mapstructure:"output" validate:"required,report_style"`
	Language string `mapstructure:"language" validate:"required,language_tag"`
	NoColor  bool   `mapstructure:"no_color"`
	Verbose  bool   `mapstructure:"verbose"`

	Load             LoadProfile    `mapstructure:"load"`
	Network          NetworkProfile `mapstructure:"network"`
	ThroughputWindow time.Duration  `mapstructure:"throughput_window" validate:"gt=0"`
}

// LoadProfile shapes the latency-under-load trial.
type LoadProfile struct {
	Workers      int           `mapstructure:"workers" validate:"gte=1"`
	OpsPerWorker int           `mapstructure:"ops_per_worker" validate:"gte=1"`
	Delay        time.Duration `mapstructure:"delay" validate:"gte=0"`
}

// NetworkProfile is the modelled link of the network trial.
type NetworkProfile struct {
	BaseLatency   time.Duration `mapstructure:"base_latency" validate:"gte=0"`
	BandwidthMbps float64       `mapstructure:"bandwidth_mbps" validate:"gt=0"`
}

// SetDefaults registers the default of every key. Keys must be known to
// viper for environment variables to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	def := bench.DefaultOptions()
	v.SetDefault("size", def.Size)
	v.SetDefault("iterations", def.Iterations)
	v.SetDefault("tests", []string{})
	v.SetDefault("text_codec", codec.DefaultText)
	v.SetDefault("binary_codec", codec.DefaultBinary)
	v.SetDefault("compressor", compress.Default)
	v.SetDefault("output", string(report.StyleTable))
	v.SetDefault("language", "en")
	v.SetDefault("no_color", false)
	v.SetDefault("verbose", false)
	v.SetDefault("load.workers", def.Load.Workers)
	v.SetDefault("load.ops_per_worker", def.Load.OpsPerWorker)
	v.SetDefault("load.delay", def.Load.Delay)
	v.SetDefault("network.base_latency", def.Network.BaseLatency)
	v.SetDefault("network.bandwidth_mbps", def.Network.BandwidthMbps)
	v.SetDefault("throughput_window", def.ThroughputWindow)
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"size":         "size",
	"iterations":   "iterations",
	"test":         "tests",
	"text-codec":   "text_codec",
	"binary-codec": "binary_codec",
	"compressor":   "compressor",
	"output":       "output",
	"language":     "language",
	"no-color":     "no_color",
	"verbose":      "verbose",
}

// BindFlags binds every known flag present in fs. Flags only override the
// other sources when set explicitly.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("config: bind flag %q: %w", name, err)
		}
	}
	return nil
}

// Load merges the configuration sources held by v and validates the
// result. An empty path skips the configuration file.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and that every named codec, compressor, trial and
// output style exists.
func (c Config) Validate() error {
	err := newValidator().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "gte", "gt":
		return fmt.Sprintf("%s must be %s %s, got %v", field, map[string]string{"gte": ">=", "gt": ">"}[fe.Tag()], fe.Param(), fe.Value())
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "fixture_size":
		return fmt.Sprintf("%s exceeds %d", field, fixture.MaxSize)
	case "text_codec":
		return fmt.Sprintf("%s: unknown text codec %q (available: %s)", field, fe.Value(), strings.Join(codec.TextNames(), ", "))
	case "binary_codec":
		return fmt.Sprintf("%s: unknown binary codec %q (available: %s)", field, fe.Value(), strings.Join(codec.BinaryNames(), ", "))
	case "compressor":
		return fmt.Sprintf("%s: unknown compressor %q (available: %s)", field, fe.Value(), strings.Join(compress.Names(), ", "))
	case "trial":
		return fmt.Sprintf("%s: unknown trial %q (available: %s)", field, fe.Value(), strings.Join(bench.TrialNames(), ", "))
	case "report_style":
		return fmt.Sprintf("%s: unknown output %q (available: %s)", field, fe.Value(), strings.Join(report.Styles(), ", "))
	case "language_tag":
		return fmt.Sprintf("%s: invalid language tag %q", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	register := func(tag string, ok func(string) bool) {
		// Registration only fails for empty tags or nil functions.
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return ok(fl.Field().String())
		})
	}
	register("text_codec", func(s string) bool {
		_, err := codec.GetText(s)
		return err == nil
	})
	register("binary_codec", func(s string) bool {
		_, err := codec.GetBinary(s)
		return err == nil
	})
	register("compressor", func(s string) bool {
		_, err := compress.Get(s)
		return err == nil
	})
	register("trial", func(s string) bool {
		_, err := bench.ParseTrial(s)
		return err == nil
	})
	register("report_style", func(s string) bool {
		_, err := report.ParseStyle(s)
		return err == nil
	})
	register("language_tag", func(s string) bool {
		_, err := language.Parse(s)
		return err == nil
	})
	_ = v.RegisterValidation("fixture_size", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= fixture.MaxSize
	})
	return v
}

// Trials returns the selected trials, or nil for all of them.
func (c Config) Trials() ([]bench.Trial, error) {
	var out []bench.Trial
	for _, name := range c.Tests {
		t, err := bench.ParseTrial(name)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Style returns the parsed output style.
func (c Config) Style() (report.Style, error) {
	return report.ParseStyle(c.Output)
}

// Tag returns the parsed report language.
func (c Config) Tag() (language.Tag, error) {
	return language.Parse(c.Language)
}

// BenchOptions resolves the configured names into tester options.
func (c Config) BenchOptions(log *zap.Logger) (bench.Options, error) {
	opts := bench.DefaultOptions()
	opts.Size = c.Size
	opts.Iterations = c.Iterations
	opts.Logger = log
	opts.Load = bench.LoadProfile{
		Workers:      c.Load.Workers,
		OpsPerWorker: c.Load.OpsPerWorker,
		Delay:        c.Load.Delay,
	}
	opts.Network = bench.NetworkProfile{
		BaseLatency:   c.Network.BaseLatency,
		BandwidthMbps: c.Network.BandwidthMbps,
	}
	opts.ThroughputWindow = c.ThroughputWindow

	var err error
	if opts.Text, err = codec.GetText(c.TextCodec); err != nil {
		return bench.Options{}, err
	}
	if opts.Binary, err = codec.GetBinary(c.BinaryCodec); err != nil {
		return bench.Options{}, err
	}
	if opts.Compressor, err = compress.Get(c.Compressor); err != nil {
		return bench.Options{}, err
	}
	return opts, nil
}
