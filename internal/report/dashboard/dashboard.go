// Package dashboard provides an interactive Bubble Tea view of a sampling
// run. It renders the same frames as the text report into a scrollable
// viewport, with a status header that shows the cycle in flight.
package dashboard

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/hoststat/internal/report"
	"golang.org/x/term"
)

// RunFunc performs a sampling run, reporting frames to sink.
type RunFunc func(ctx context.Context, sink report.Sink) error

// Run starts the dashboard TUI and the sampling run.
// The run executes in a background goroutine while the TUI runs in the
// calling goroutine. When stdout is not a terminal the run reports to the
// plain text sink instead.
func Run(ctx context.Context, opts report.Options, run RunFunc) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return run(ctx, report.NewWriter(os.Stdout, opts))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(
		NewModel(cancel),
		tea.WithAltScreen(),
	)

	// The viewport replaces the terminal refresh.
	opts.Sequential = true
	bridge := NewBridge(program, report.NewRenderer(os.Stdout, opts))

	errCh := make(chan error, 1)
	go func() {
		err := run(ctx, bridge)
		errCh <- err
		bridge.RunDone(err)
	}()

	if _, err := program.Run(); err != nil {
		cancel()
		<-errCh
		return err
	}
	return <-errCh
}
