package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/hoststat/internal/report"
	"github.com/rileyhilliard/hoststat/internal/sample"
)

// sender is the part of *tea.Program the bridge uses.
type sender interface {
	Send(msg tea.Msg)
}

// Bridge is a report.Sink that renders frames and forwards them to the
// Bubble Tea program via Send. This is goroutine-safe.
type Bridge struct {
	program  sender
	renderer *report.Renderer
}

// NewBridge creates a bridge that renders with r and forwards to program.
func NewBridge(program sender, r *report.Renderer) *Bridge {
	return &Bridge{program: program, renderer: r}
}

// Cycle renders a cycle frame and forwards it to the TUI.
func (b *Bridge) Cycle(f report.Frame) error {
	msg := FrameMsg{
		Cycle:   f.Cycle,
		Samples: f.Samples,
		Text:    b.renderer.Render(f),
	}
	if n := len(f.Utilizations); n > 0 {
		msg.Utilization = f.Utilizations[n-1]
	}
	b.program.Send(msg)
	return nil
}

// Info renders the system information frame and forwards it to the TUI.
func (b *Bridge) Info(f report.InfoFrame) error {
	b.program.Send(InfoMsg{Text: b.renderer.RenderInfo(f)})
	return nil
}

// Awaiting forwards that a cycle is in flight.
func (b *Bridge) Awaiting(cycle sample.CycleIndex) {
	b.program.Send(AwaitingMsg{Cycle: cycle})
}

// RunDone signals that the sampling run has finished.
func (b *Bridge) RunDone(err error) {
	b.program.Send(runDoneMsg{err: err})
}
