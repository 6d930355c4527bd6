// Package sample defines the raw records exchanged between the supervisor and
// its workers, and the per-run history the supervisor keeps of them.
//
// CPU and Memory are fixed-layout value types: every field is a fixed-width
// integer, so they can be written to a pipe with encoding/binary as-is.
package sample

import "fmt"

// Kind identifies one of the three workers.
type Kind int32

const (
	KindMemory Kind = iota
	KindCPU
	KindSessions
)

// Kinds lists every worker kind in spawn order.
var Kinds = []Kind{KindMemory, KindCPU, KindSessions}

// String returns the lowercase name of the worker kind.
func (k Kind) String() string {
	switch k {
	case KindMemory:
		return "memory"
	case KindCPU:
		return "cpu"
	case KindSessions:
		return "sessions"
	default:
		return fmt.Sprintf("kind(%d)", int32(k))
	}
}

// Valid reports whether k is one of the known worker kinds.
func (k Kind) Valid() bool {
	return k >= KindMemory && k <= KindSessions
}

// CycleIndex identifies a sample within a run, 0..N-1.
type CycleIndex int32

// CPU holds cumulative time-in-state counters in hundredths of a second,
// read at one instant. It is only ever used as a delta basis.
type CPU struct {
	User    uint64
	Nice    uint64
	System  uint64
	Idle    uint64
	IOWait  uint64
	IRQ     uint64
	SoftIRQ uint64
	Steal   uint64
}

// Total returns the sum of all counters.
func (c CPU) Total() uint64 {
	return c.User + c.Nice + c.System + c.Idle + c.IOWait + c.IRQ + c.SoftIRQ + c.Steal
}

// Busy returns the counters spent doing work (everything except idle and iowait).
func (c CPU) Busy() uint64 {
	return c.Total() - c.Idle - c.IOWait
}

// Memory holds physical and virtual (physical + swap) usage in bytes.
type Memory struct {
	PhysicalUsed  uint64
	PhysicalTotal uint64
	VirtualUsed   uint64
	VirtualTotal  uint64
}
