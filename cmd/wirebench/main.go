// Command wirebench compares JSON and Protocol Buffers on the same records.
//
// Usage:
//
//	wirebench [run] [flags]
//	wirebench schema [--descriptor base|evolved]
//	wirebench version
//
// Run Command:
//
//	Run the comparison trials and print a report. This is the default.
//
//	Flags:
//	  --size int              Fixture size factor (default 20)
//	  --iterations int        Repetitions per timed loop (default 1000)
//	  -t, --test strings      Run only the named trials (can be repeated)
//	  --text-codec string     JSON backend (default "jsoniter")
//	  --binary-codec string   Protobuf backend (default "protowire")
//	  --compressor string     Payload compressor (default "gzip")
//	  -o, --output string     table, markdown, csv, json or prometheus
//	  --language string       Locale for number formatting (default "en")
//	  -v, --verbose           Log per-format measurements
//	  --no-color              Disable colours
//	  -c, --config string     YAML configuration file
//
// Every flag can also be set in the configuration file or through a
// WIREBENCH_* environment variable, e.g. WIREBENCH_ITERATIONS=5000.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/blockberries/wirebench/pkg/bench"
)

// Version information, set by ldflags at build time.
var (
	// Version is the semantic version of the tool.
	Version = "dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

func versionInfo() string {
	return Version + " (" + GitCommit + ", " + BuildDate + ")"
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode separates bad input from failed runs.
func exitCode(err error) int {
	var te *bench.TrialError
	switch {
	case errors.As(err, &te):
		return 3
	case errors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}
