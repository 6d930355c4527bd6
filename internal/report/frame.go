// Package report turns sampling results into the refreshing text report.
//
// The supervisor builds a Frame after every cycle and hands it to a Sink.
// Rendering is a pure function of the frame and the Options, so the same
// frame always produces the same bytes; sinks only decide where those bytes
// go and whether the screen is cleared first.
package report

import (
	"time"

	"github.com/rileyhilliard/hoststat/internal/probe"
	"github.com/rileyhilliard/hoststat/internal/sample"
)

// Frame is a snapshot of the report after one cycle.
type Frame struct {
	Cycle   sample.CycleIndex
	Samples int
	Delay   time.Duration

	// SelfKB is the supervisor's resident memory in kilobytes.
	SelfKB int64

	// MemoryRows and CPURows have one entry per cycle; cycles not yet
	// sampled are empty strings and render as blank lines.
	MemoryRows   []string
	CPURows      []string
	Utilizations []float64

	Sessions   string
	Processors int32
	Cores      int32
	Average    string

	Elapsed time.Duration
}

// InfoFrame is the trailing frame emitted once after the last cycle.
type InfoFrame struct {
	Info    probe.SystemInfo
	Elapsed time.Duration
}

// Sink receives frames as the run progresses. Cycle is called once per
// cycle in order; Info is called once at the end of a successful run.
type Sink interface {
	Cycle(f Frame) error
	Info(f InfoFrame) error
}

// Progress is optionally implemented by sinks that show a cycle as pending
// before its frame arrives.
type Progress interface {
	Awaiting(cycle sample.CycleIndex)
}

// Sections selects which report sections are shown. System covers memory
// and CPU; User covers sessions. Selecting both or neither shows everything.
type Sections struct {
	System bool
	User   bool
}

// ShowSystem reports whether the memory and CPU sections are shown.
func (s Sections) ShowSystem() bool {
	return s.System || !s.User
}

// ShowUser reports whether the sessions section is shown.
func (s Sections) ShowUser() bool {
	return s.User || !s.System
}

// Options control rendering.
type Options struct {
	Sections   Sections
	Graphics   bool
	Sequential bool
	Color      bool
}
