package bench

import (
	"fmt"
	"strings"
)

// Trial identifies one measured dimension. Trials always run in the order
// of their values.
type Trial int

const (
	TrialSerialization Trial = iota + 1
	TrialDeserialization
	TrialPayloadSize
	TrialCPU
	TrialMemory
	TrialNetwork
	TrialLatencyUnderLoad
	TrialParserInit
	TrialThroughput
	TrialSchemaEvolution
)

var trialNames = map[Trial]string{
	TrialSerialization:    "serialization",
	TrialDeserialization:  "deserialization",
	TrialPayloadSize:      "payload",
	TrialCPU:              "cpu",
	TrialMemory:           "memory",
	TrialNetwork:          "network",
	TrialLatencyUnderLoad: "latency",
	TrialParserInit:       "init",
	TrialThroughput:       "throughput",
	TrialSchemaEvolution:  "schema",
}

// String returns the command-line name of the trial.
func (t Trial) String() string {
	if name, ok := trialNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Trial(%d)", int(t))
}

// Valid reports whether t is a known trial.
func (t Trial) Valid() bool {
	_, ok := trialNames[t]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (t Trial) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// AllTrials returns every trial in execution order.
func AllTrials() []Trial {
	out := make([]Trial, 0, len(trialNames))
	for t := TrialSerialization; t <= TrialSchemaEvolution; t++ {
		out = append(out, t)
	}
	return out
}

// TrialNames returns the command-line names of all trials in execution order.
func TrialNames() []string {
	out := make([]string, 0, len(trialNames))
	for _, t := range AllTrials() {
		out = append(out, t.String())
	}
	return out
}

// ParseTrial returns the trial with the given command-line name.
func ParseTrial(name string) (Trial, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range trialNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (available: %s)", ErrUnknownTrial, name, strings.Join(TrialNames(), ", "))
}
