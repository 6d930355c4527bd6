package sample

import "fmt"

// Entry is everything recorded for one cycle. A zero Entry has no rows yet.
type Entry struct {
	Memory    Memory
	MemoryRow string
	HasMemory bool

	CPU         CPU
	Utilization float64
	CPURow      string
	HasCPU      bool

	Sessions    string
	HasSessions bool
}

// Complete reports whether all three workers have contributed to the entry.
func (e Entry) Complete() bool {
	return e.HasMemory && e.HasCPU && e.HasSessions
}

// Prior is the context handed to workers for a cycle. Each field is a copy;
// a nil pointer means "no prior sample of this kind".
type Prior struct {
	Memory      *Memory
	CPU         *CPU
	Utilization *float64
}

// History is the append-only record of a run, indexed by CycleIndex.
// It is owned by the supervisor's Run goroutine and is not safe for concurrent use.
type History struct {
	baseline CPU
	entries  []Entry
	recorded int
}

// NewHistory creates a history for a run of n cycles seeded with the
// pre-spawn baseline CPU sample.
func NewHistory(n int, baseline CPU) *History {
	return &History{
		baseline: baseline,
		entries:  make([]Entry, n),
	}
}

// Len returns the number of cycles the history was sized for.
func (h *History) Len() int {
	return len(h.entries)
}

// Recorded returns the number of complete cycles.
func (h *History) Recorded() int {
	return h.recorded
}

// Baseline returns the pre-spawn CPU sample.
func (h *History) Baseline() CPU {
	return h.baseline
}

// Entry returns a copy of the entry at index i.
func (h *History) Entry(i CycleIndex) Entry {
	return h.entries[i]
}

// Prior returns the context workers need to compute cycle i: the samples of
// cycle i-1, or the baseline CPU sample for cycle 0.
func (h *History) Prior(i CycleIndex) Prior {
	if i == 0 {
		cpu := h.baseline
		return Prior{CPU: &cpu}
	}

	prev := h.entries[i-1]
	mem := prev.Memory
	cpu := prev.CPU
	util := prev.Utilization
	return Prior{Memory: &mem, CPU: &cpu, Utilization: &util}
}

// checkAppend guards the append-only invariant: only the next unrecorded
// cycle may be written.
func (h *History) checkAppend(i CycleIndex) error {
	if int(i) != h.recorded {
		return fmt.Errorf("history: cycle %d is not writable (next cycle is %d)", i, h.recorded)
	}
	if int(i) >= len(h.entries) {
		return fmt.Errorf("history: cycle %d out of range (run has %d cycles)", i, len(h.entries))
	}
	return nil
}

// RecordMemory stores the memory result for cycle i.
func (h *History) RecordMemory(i CycleIndex, m Memory, row string) error {
	if err := h.checkAppend(i); err != nil {
		return err
	}
	e := &h.entries[i]
	if e.HasMemory {
		return fmt.Errorf("history: memory already recorded for cycle %d", i)
	}
	e.Memory, e.MemoryRow, e.HasMemory = m, row, true
	h.advance(i)
	return nil
}

// RecordCPU stores the CPU result for cycle i.
func (h *History) RecordCPU(i CycleIndex, c CPU, utilization float64, row string) error {
	if err := h.checkAppend(i); err != nil {
		return err
	}
	e := &h.entries[i]
	if e.HasCPU {
		return fmt.Errorf("history: cpu already recorded for cycle %d", i)
	}
	e.CPU, e.Utilization, e.CPURow, e.HasCPU = c, utilization, row, true
	h.advance(i)
	return nil
}

// RecordSessions stores the sessions listing for cycle i.
func (h *History) RecordSessions(i CycleIndex, listing string) error {
	if err := h.checkAppend(i); err != nil {
		return err
	}
	e := &h.entries[i]
	if e.HasSessions {
		return fmt.Errorf("history: sessions already recorded for cycle %d", i)
	}
	e.Sessions, e.HasSessions = listing, true
	h.advance(i)
	return nil
}

func (h *History) advance(i CycleIndex) {
	if h.entries[i].Complete() {
		h.recorded++
	}
}

// MemoryRows returns the memory rows of every cycle; cycles not yet sampled
// yield an empty string.
func (h *History) MemoryRows() []string {
	rows := make([]string, len(h.entries))
	for i, e := range h.entries {
		rows[i] = e.MemoryRow
	}
	return rows
}

// CPURows returns the CPU rows of every cycle; cycles not yet sampled yield
// an empty string.
func (h *History) CPURows() []string {
	rows := make([]string, len(h.entries))
	for i, e := range h.entries {
		rows[i] = e.CPURow
	}
	return rows
}

// Utilizations returns the CPU utilization of every recorded cycle, oldest first.
func (h *History) Utilizations() []float64 {
	out := make([]float64, 0, h.recorded)
	for _, e := range h.entries[:h.recorded] {
		out = append(out, e.Utilization)
	}
	return out
}
