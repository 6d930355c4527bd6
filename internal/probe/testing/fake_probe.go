// Package testing provides test doubles for the probe package.
package testing

import (
	"sync"

	"github.com/rileyhilliard/hoststat/internal/probe"
	"github.com/rileyhilliard/hoststat/internal/sample"
)

// FakeProbe implements every probe interface from scripted values.
// CPU and memory samples are returned in order; once the script runs out
// the last value repeats.
type FakeProbe struct {
	mu sync.Mutex

	CPUSamples    []sample.CPU
	MemorySamples []sample.Memory
	SessionList   []probe.Session
	Logical       int
	Physical      int
	RSSKB         int64
	Info          probe.SystemInfo

	// Errors returned instead of a value when set.
	CPUErr      error
	MemoryErr   error
	SessionsErr error
	InfoErr     error

	// FailMemoryAt makes CaptureMemory fail on the given call (1-based) with MemoryErr.
	FailMemoryAt int

	cpuCalls    int
	memoryCalls int
	sessionCall int
}

// NewFakeProbe returns a probe with a plausible 4-core host.
func NewFakeProbe() *FakeProbe {
	return &FakeProbe{
		Logical:  8,
		Physical: 4,
		RSSKB:    2048,
		Info: probe.SystemInfo{
			SystemName:   "Linux",
			MachineName:  "testbox",
			Version:      "#1 SMP",
			Release:      "6.1.0",
			Architecture: "x86_64",
		},
	}
}

// CaptureCPU returns the next scripted CPU sample.
func (f *FakeProbe) CaptureCPU() (sample.CPU, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cpuCalls++
	if f.CPUErr != nil {
		return sample.CPU{}, f.CPUErr
	}
	return next(f.CPUSamples, f.cpuCalls), nil
}

// Counts returns the scripted processor counts.
func (f *FakeProbe) Counts() (int, int, error) {
	return f.Logical, f.Physical, nil
}

// CaptureMemory returns the next scripted memory sample.
func (f *FakeProbe) CaptureMemory() (sample.Memory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.memoryCalls++
	if f.MemoryErr != nil && (f.FailMemoryAt == 0 || f.FailMemoryAt == f.memoryCalls) {
		return sample.Memory{}, f.MemoryErr
	}
	return next(f.MemorySamples, f.memoryCalls), nil
}

// Sessions returns the scripted session list.
func (f *FakeProbe) Sessions() ([]probe.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessionCall++
	if f.SessionsErr != nil {
		return nil, f.SessionsErr
	}
	return f.SessionList, nil
}

// SelfMemoryKB returns the scripted resident set size.
func (f *FakeProbe) SelfMemoryKB() (int64, error) {
	return f.RSSKB, nil
}

// SystemInfo returns the scripted system information.
func (f *FakeProbe) SystemInfo() (probe.SystemInfo, error) {
	if f.InfoErr != nil {
		return probe.SystemInfo{}, f.InfoErr
	}
	return f.Info, nil
}

// CPUCalls returns how many times CaptureCPU was called.
func (f *FakeProbe) CPUCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cpuCalls
}

// MemoryCalls returns how many times CaptureMemory was called.
func (f *FakeProbe) MemoryCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.memoryCalls
}

// SessionCalls returns how many times Sessions was called.
func (f *FakeProbe) SessionCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessionCall
}

func next[T any](script []T, call int) T {
	var zero T
	if len(script) == 0 {
		return zero
	}
	if call > len(script) {
		return script[len(script)-1]
	}
	return script[call-1]
}

// RisingCPU builds n CPU samples where each step adds busy and idle ticks.
func RisingCPU(n int, busy, idle uint64) []sample.CPU {
	out := make([]sample.CPU, n)
	for i := range out {
		out[i] = sample.CPU{User: uint64(i) * busy, Idle: uint64(i) * idle}
	}
	return out
}
