package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"google.golang.org/protobuf/encoding/prototext"

	"github.com/blockberries/wirebench/internal/config"
	"github.com/blockberries/wirebench/internal/logger"
	"github.com/blockberries/wirebench/pkg/bench"
	"github.com/blockberries/wirebench/pkg/codec"
	"github.com/blockberries/wirebench/pkg/compress"
	"github.com/blockberries/wirebench/pkg/report"
	"github.com/blockberries/wirebench/pkg/schema"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "wirebench",
		Short:         "Compare JSON and Protocol Buffers on the same records",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runBench,
	}
	addRunFlags(root.Flags())

	run := &cobra.Command{
		Use:   "run",
		Short: "Run the comparison trials and print a report",
		Long: "Run the comparison trials and print a report.\n\nTrials: " +
			strings.Join(bench.TrialNames(), ", "),
		Args: cobra.NoArgs,
		RunE: runBench,
	}
	addRunFlags(run.Flags())

	root.AddCommand(run, newSchemaCommand(), newVersionCommand())
	return root
}

func addRunFlags(fs *pflag.FlagSet) {
	def := bench.DefaultOptions()
	fs.Int("size", def.Size, "fixture size factor")
	fs.Int("iterations", def.Iterations, "repetitions per timed loop")
	fs.StringSliceP("test", "t", nil, "run only the named trials ("+strings.Join(bench.TrialNames(), ", ")+")")
	fs.String("text-codec", codec.DefaultText, "JSON backend ("+strings.Join(codec.TextNames(), ", ")+")")
	fs.String("binary-codec", codec.DefaultBinary, "Protobuf backend ("+strings.Join(codec.BinaryNames(), ", ")+")")
	fs.String("compressor", compress.Default, "payload compressor ("+strings.Join(compress.Names(), ", ")+")")
	fs.StringP("output", "o", string(report.StyleTable), "output style ("+strings.Join(report.Styles(), ", ")+")")
	fs.String("language", "en", "locale for number formatting")
	fs.BoolP("verbose", "v", false, "log per-format measurements")
	fs.Bool("no-color", false, "disable colours")
	fs.StringP("config", "c", "", "YAML configuration file")
}

func runBench(cmd *cobra.Command, _ []string) error {
	v := viper.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	cfg, err := config.Load(v, path)
	if err != nil {
		return err
	}

	level := "info"
	if cfg.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Config{Level: level})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	opts, err := cfg.BenchOptions(log)
	if err != nil {
		return err
	}
	trials, err := cfg.Trials()
	if err != nil {
		return err
	}
	style, err := cfg.Style()
	if err != nil {
		return err
	}
	tag, err := cfg.Tag()
	if err != nil {
		return err
	}

	tester, err := bench.NewTester(opts)
	if err != nil {
		return err
	}
	res, err := tester.Run(cmd.Context(), trials...)
	if err != nil {
		return err
	}

	return report.Render(cmd.OutOrStdout(), res, style,
		report.WithColor(!cfg.NoColor && !color.NoColor),
		report.WithLanguage(tag),
	)
}

func newSchemaCommand() *cobra.Command {
	var descriptor string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Check wire compatibility between the base and evolved record schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if descriptor != "" {
				return printDescriptor(out, descriptor)
			}
			base, evolved := schema.BaseDescriptor(), schema.EvolvedDescriptor()
			printReport(out, base.FullName(), evolved.FullName(), schema.CheckCompatibility(base, evolved))
			fmt.Fprintln(out)
			printReport(out, evolved.FullName(), base.FullName(), schema.CheckCompatibility(evolved, base))
			return nil
		},
	}
	cmd.Flags().StringVar(&descriptor, "descriptor", "", "print the descriptor of a schema version (base, evolved) as text")
	return cmd
}

func printDescriptor(w io.Writer, name string) error {
	var v schema.Version
	switch name {
	case "base":
		v = schema.Base
	case "evolved":
		v = schema.Evolved
	default:
		return fmt.Errorf("unknown schema version %q (available: base, evolved)", name)
	}
	b, err := prototext.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(schema.FileProto(v))
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func printReport(w io.Writer, from, to fmt.Stringer, r *schema.CompatibilityReport) {
	verdict := "compatible"
	if !r.IsCompatible() {
		verdict = "NOT compatible"
	}
	fmt.Fprintf(w, "%s -> %s: %s\n", from, to, verdict)
	for _, b := range r.Breaking {
		fmt.Fprintf(w, "  ! %s\n", b.Error())
	}
	for _, msg := range r.Warnings {
		fmt.Fprintf(w, "  ~ %s\n", msg)
	}
	for _, msg := range r.Additions {
		fmt.Fprintf(w, "  + %s\n", msg)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wirebench version %s\n", versionInfo())
		},
	}
}
