package supervisor

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/hoststat/internal/errors"
	"github.com/rileyhilliard/hoststat/internal/sample"
)

// Config holds the run parameters the orchestrator needs.
type Config struct {
	Samples      int           // Number of cycles (N)
	Delay        time.Duration // Pause after the baseline and between cycles
	CycleTimeout time.Duration // Bound on waiting for one cycle's results (0 = unbounded)
	Graphics     bool          // Workers append graphics to their rows

	// ShutdownGrace is how long workers get to exit after Shutdown
	// before they are killed.
	ShutdownGrace time.Duration
}

// DefaultConfig returns a Config with the command-line defaults.
func DefaultConfig() Config {
	return Config{
		Samples:       10,
		Delay:         time.Second,
		CycleTimeout:  0,
		ShutdownGrace: 2 * time.Second,
	}
}

// Validate checks the configuration before anything is spawned.
func (c Config) Validate() error {
	if c.Samples < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Number of samples must be at least 1, got %d", c.Samples),
			"Pass a positive --samples value.")
	}
	if c.Delay < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Delay between samples can't be negative, got %s", c.Delay),
			"Pass --tdelay 0 or more.")
	}
	if c.CycleTimeout < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Cycle timeout can't be negative, got %s", c.CycleTimeout),
			"Use --timeout 0 to wait without a bound.")
	}
	return nil
}

// Result summarizes a run. It is returned alongside any error so callers can
// see how far the run got.
type Result struct {
	History    *sample.History
	Processors int32
	Cores      int32
	Duration   time.Duration

	// ExitStatuses holds the exit status of every worker that was reaped.
	// A worker killed after the shutdown grace period reports -1.
	ExitStatuses map[sample.Kind]int
}

// Completed returns the number of cycles fully recorded.
func (r *Result) Completed() int {
	if r == nil || r.History == nil {
		return 0
	}
	return r.History.Recorded()
}

// State is the orchestrator's position in its run.
type State int

const (
	StateInit State = iota
	StateBaselineCaptured
	StateWorkersSpawned
	StateAwaitingResults
	StateRendering
	StateSleeping
	StateDraining
	StateTerminated
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateBaselineCaptured:
		return "baseline-captured"
	case StateWorkersSpawned:
		return "workers-spawned"
	case StateAwaitingResults:
		return "awaiting-results"
	case StateRendering:
		return "rendering"
	case StateSleeping:
		return "sleeping"
	case StateDraining:
		return "draining"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}
