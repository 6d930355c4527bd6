package testing

import (
	"errors"
	"testing"

	"github.com/rileyhilliard/hoststat/internal/probe"
	"github.com/rileyhilliard/hoststat/internal/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ probe.CPUProbe     = (*FakeProbe)(nil)
	_ probe.MemoryProbe  = (*FakeProbe)(nil)
	_ probe.SessionProbe = (*FakeProbe)(nil)
	_ probe.SelfProbe    = (*FakeProbe)(nil)
)

func TestFakeProbe_ScriptRepeatsLastValue(t *testing.T) {
	f := NewFakeProbe()
	f.CPUSamples = []sample.CPU{{User: 1}, {User: 2}}

	for _, want := range []uint64{1, 2, 2} {
		c, err := f.CaptureCPU()
		require.NoError(t, err)
		assert.Equal(t, want, c.User)
	}
	assert.Equal(t, 3, f.CPUCalls())
}

func TestFakeProbe_FailMemoryAt(t *testing.T) {
	f := NewFakeProbe()
	f.MemoryErr = errors.New("meminfo gone")
	f.FailMemoryAt = 2

	_, err := f.CaptureMemory()
	require.NoError(t, err)
	_, err = f.CaptureMemory()
	assert.EqualError(t, err, "meminfo gone")
	_, err = f.CaptureMemory()
	assert.NoError(t, err)
}

func TestRisingCPU(t *testing.T) {
	s := RisingCPU(3, 10, 30)

	require.Len(t, s, 3)
	assert.Equal(t, sample.CPU{User: 20, Idle: 60}, s[2])
	assert.InDelta(t, 25.0, probe.Utilization(s[0], s[1]), 0.0001)
}
