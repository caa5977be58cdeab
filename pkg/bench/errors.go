package bench

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. A TrialError matches exactly one of ErrCodec, ErrFixture
// and ErrIncompatibleSchema under errors.Is, as well as its underlying cause.
var (
	// ErrCodec indicates an encode, decode or compression failure on data the
	// run produced itself. It always points at a broken codec or fixture.
	ErrCodec = errors.New("bench: codec failure")

	// ErrFixture indicates the fixture generator rejected the size factor.
	ErrFixture = errors.New("bench: fixture generation failed")

	// ErrIncompatibleSchema indicates the evolved schema cannot read base data.
	ErrIncompatibleSchema = errors.New("bench: schema versions are not wire compatible")

	// ErrUnknownTrial is returned by ParseTrial and Run for unknown trials.
	ErrUnknownTrial = errors.New("bench: unknown trial")

	// ErrInvalidOptions is returned by NewTester.
	ErrInvalidOptions = errors.New("bench: invalid options")
)

// TrialError reports which trial failed, on which format and while doing what.
type TrialError struct {
	// Trial is the failing trial.
	Trial Trial

	// Format is the format being measured, or zero when the failure is not
	// specific to one format.
	Format Format

	// Op names the failing operation: generate, encode, decode, compress,
	// filter or check.
	Op string

	// Kind is one of ErrCodec, ErrFixture or ErrIncompatibleSchema.
	Kind error

	// Err is the underlying cause.
	Err error
}

// Error returns a formatted error message.
func (e *TrialError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "bench: %s trial: ", e.Trial)
	if e.Format != 0 {
		fmt.Fprintf(&b, "%s ", e.Format)
	}
	fmt.Fprintf(&b, "%s: %v", e.Op, e.Err)
	return b.String()
}

// Unwrap returns the error kind and the underlying cause.
func (e *TrialError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func codecError(t Trial, f Format, op string, err error) error {
	return &TrialError{Trial: t, Format: f, Op: op, Kind: ErrCodec, Err: err}
}

func fixtureError(t Trial, err error) error {
	return &TrialError{Trial: t, Op: "generate", Kind: ErrFixture, Err: err}
}
