package dashboard

import "github.com/rileyhilliard/hoststat/internal/sample"

// AwaitingMsg signals that a cycle was started and its results are pending.
type AwaitingMsg struct {
	Cycle sample.CycleIndex
}

// FrameMsg carries a rendered cycle frame.
type FrameMsg struct {
	Cycle       sample.CycleIndex
	Samples     int
	Utilization float64
	Text        string
}

// InfoMsg carries the rendered system information frame.
type InfoMsg struct {
	Text string
}

// runDoneMsg signals the sampling run has finished.
type runDoneMsg struct {
	err error
}
