// Package wire implements the framed messages exchanged over the supervisor's
// pipes: commands (supervisor to worker), results (worker to supervisor) and
// doorbell signals (worker to supervisor, shared by all workers).
//
// Every frame starts with an int32 tag. All integers use the host's native
// byte order and fixed widths; the pipes never leave the machine.
package wire

import (
	"fmt"

	"github.com/rileyhilliard/hoststat/internal/sample"
)

// Tag discriminates frames on the wire.
type Tag int32

const (
	// TagShutdown is the reserved out-of-range sentinel telling a worker to exit.
	TagShutdown Tag = -1

	TagStartMemory   Tag = 1
	TagStartCPU      Tag = 2
	TagStartSessions Tag = 3

	TagMemoryResult   Tag = 11
	TagCPUResult      Tag = 12
	TagSessionsResult Tag = 13
	TagErrorResult    Tag = 14
)

// String returns a readable name for the tag.
func (t Tag) String() string {
	switch t {
	case TagShutdown:
		return "shutdown"
	case TagStartMemory:
		return "start-memory"
	case TagStartCPU:
		return "start-cpu"
	case TagStartSessions:
		return "start-sessions"
	case TagMemoryResult:
		return "memory-result"
	case TagCPUResult:
		return "cpu-result"
	case TagSessionsResult:
		return "sessions-result"
	case TagErrorResult:
		return "error-result"
	default:
		return fmt.Sprintf("tag(%d)", int32(t))
	}
}

// StartTag returns the command tag that starts a cycle on a worker of kind k.
func StartTag(k sample.Kind) Tag {
	return TagStartMemory + Tag(k)
}

// ResultTag returns the result tag a worker of kind k reports with. It is
// also the value that worker writes on the doorbell.
func ResultTag(k sample.Kind) Tag {
	return TagMemoryResult + Tag(k)
}

// kindOfStart maps a start tag back to its worker kind.
func kindOfStart(t Tag) (sample.Kind, bool) {
	k := sample.Kind(t - TagStartMemory)
	return k, k.Valid()
}

// kindOfResult maps a result tag back to its worker kind.
func kindOfResult(t Tag) (sample.Kind, bool) {
	k := sample.Kind(t - TagMemoryResult)
	return k, k.Valid()
}

// Message is implemented by every frame type.
type Message interface {
	Tag() Tag
}

// StartCycle asks a worker to compute the sample for Index.
type StartCycle struct {
	Worker sample.Kind
	Index  sample.CycleIndex
	Prior  sample.Prior
}

// Shutdown asks a worker to exit without further I/O.
type Shutdown struct{}

// MemoryResult is the memory worker's report for one cycle.
type MemoryResult struct {
	Index  sample.CycleIndex
	Sample sample.Memory
	Row    string
}

// CPUResult is the CPU worker's report for one cycle.
type CPUResult struct {
	Index       sample.CycleIndex
	Sample      sample.CPU
	Utilization float64
	Processors  int32
	Cores       int32
	Average     string
	Row         string
}

// SessionsResult is the sessions worker's report for one cycle.
type SessionsResult struct {
	Index   sample.CycleIndex
	Listing string
}

// ErrorResult is sent in place of a result when a worker's probe failed.
type ErrorResult struct {
	Index   sample.CycleIndex
	Worker  sample.Kind
	Message string
}

// Doorbell tells the supervisor which worker just finished writing a result.
type Doorbell struct {
	Worker sample.Kind
	Index  sample.CycleIndex
}

// Tag implements Message.
func (m StartCycle) Tag() Tag { return StartTag(m.Worker) }

// Tag implements Message.
func (Shutdown) Tag() Tag { return TagShutdown }

// Tag implements Message.
func (MemoryResult) Tag() Tag { return TagMemoryResult }

// Tag implements Message.
func (CPUResult) Tag() Tag { return TagCPUResult }

// Tag implements Message.
func (SessionsResult) Tag() Tag { return TagSessionsResult }

// Tag implements Message.
func (ErrorResult) Tag() Tag { return TagErrorResult }

// Tag implements Message. A doorbell carries the result tag of its worker.
func (m Doorbell) Tag() Tag { return ResultTag(m.Worker) }

// Cycle implements Result.
func (m MemoryResult) Cycle() sample.CycleIndex { return m.Index }

// Cycle implements Result.
func (m CPUResult) Cycle() sample.CycleIndex { return m.Index }

// Cycle implements Result.
func (m SessionsResult) Cycle() sample.CycleIndex { return m.Index }

// Cycle implements Result.
func (m ErrorResult) Cycle() sample.CycleIndex { return m.Index }

// Result is implemented by the frames a worker writes on its result channel.
type Result interface {
	Message
	Cycle() sample.CycleIndex
}
