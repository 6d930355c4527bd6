// Package probe reads host state and formats it for the report.
//
// The probes are the collaborators each worker calls once per cycle; the
// formatters are pure functions of their arguments. Nothing here knows about
// pipes or cycles.
package probe

import (
	"time"

	"github.com/rileyhilliard/hoststat/internal/sample"
)

// CPUProbe reads cumulative CPU counters and processor counts.
type CPUProbe interface {
	CaptureCPU() (sample.CPU, error)
	// Counts returns the logical processor count and the physical core count.
	Counts() (logical, physical int, err error)
}

// MemoryProbe reads physical and virtual memory usage.
type MemoryProbe interface {
	CaptureMemory() (sample.Memory, error)
}

// SessionProbe lists logged-in sessions.
type SessionProbe interface {
	Sessions() ([]Session, error)
}

// Session is one logged-in user session.
type Session struct {
	User     string
	Terminal string
	Host     string
}

// SystemInfo describes the host for the closing frame of a run.
type SystemInfo struct {
	SystemName   string
	MachineName  string
	Version      string
	Release      string
	Architecture string
	Uptime       time.Duration
}

// SelfProbe reports facts about the supervisor process and its host.
type SelfProbe interface {
	// SelfMemoryKB returns the resident set size of the calling process in kilobytes.
	SelfMemoryKB() (int64, error)
	SystemInfo() (SystemInfo, error)
}
