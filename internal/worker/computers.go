package worker

import (
	"fmt"

	"github.com/rileyhilliard/hoststat/internal/probe"
	"github.com/rileyhilliard/hoststat/internal/sample"
	"github.com/rileyhilliard/hoststat/internal/wire"
)

// Options tune how workers format their rows.
type Options struct {
	Graphics bool
}

// Probes bundles the collaborators the three workers call.
type Probes struct {
	CPU      probe.CPUProbe
	Memory   probe.MemoryProbe
	Sessions probe.SessionProbe
}

// HostProbes returns Probes backed by a single host probe.
func HostProbes(h *probe.Host) Probes {
	return Probes{CPU: h, Memory: h, Sessions: h}
}

// NewComputer returns the Computer for a worker kind.
func NewComputer(kind sample.Kind, p Probes, opts Options) (Computer, error) {
	switch kind {
	case sample.KindMemory:
		return &memoryComputer{probe: p.Memory, graphics: opts.Graphics}, nil
	case sample.KindCPU:
		return &cpuComputer{probe: p.CPU, graphics: opts.Graphics}, nil
	case sample.KindSessions:
		return &sessionsComputer{probe: p.Sessions}, nil
	default:
		return nil, fmt.Errorf("no worker for %s", kind)
	}
}

type memoryComputer struct {
	probe    probe.MemoryProbe
	graphics bool
}

func (c *memoryComputer) Kind() sample.Kind { return sample.KindMemory }

func (c *memoryComputer) Compute(cmd wire.StartCycle) (wire.Result, error) {
	m, err := c.probe.CaptureMemory()
	if err != nil {
		return nil, err
	}
	return wire.MemoryResult{
		Index:  cmd.Index,
		Sample: m,
		Row:    probe.FormatMemoryRow(m, cmd.Prior.Memory, c.graphics),
	}, nil
}

// cpuComputer remembers the first prior sample it is given (the run's
// baseline) so it can report utilization since the start on every cycle.
type cpuComputer struct {
	probe    probe.CPUProbe
	graphics bool
	baseline *sample.CPU
}

func (c *cpuComputer) Kind() sample.Kind { return sample.KindCPU }

func (c *cpuComputer) Compute(cmd wire.StartCycle) (wire.Result, error) {
	cur, err := c.probe.CaptureCPU()
	if err != nil {
		return nil, err
	}
	logical, physical, err := c.probe.Counts()
	if err != nil {
		return nil, err
	}

	prior := cur
	if cmd.Prior.CPU != nil {
		prior = *cmd.Prior.CPU
	}
	if c.baseline == nil {
		b := prior
		c.baseline = &b
	}

	util := probe.Utilization(prior, cur)
	return wire.CPUResult{
		Index:       cmd.Index,
		Sample:      cur,
		Utilization: util,
		Processors:  int32(logical),
		Cores:       int32(physical),
		Average:     probe.FormatAverage(probe.Utilization(*c.baseline, cur)),
		Row:         probe.FormatCPURow(util, cmd.Prior.Utilization, c.graphics),
	}, nil
}

type sessionsComputer struct {
	probe probe.SessionProbe
}

func (c *sessionsComputer) Kind() sample.Kind { return sample.KindSessions }

func (c *sessionsComputer) Compute(cmd wire.StartCycle) (wire.Result, error) {
	sessions, err := c.probe.Sessions()
	if err != nil {
		return nil, err
	}
	return wire.SessionsResult{Index: cmd.Index, Listing: probe.FormatSessions(sessions)}, nil
}
