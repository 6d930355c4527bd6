// Package worker implements the long-lived worker side of the sampling
// protocol. A Harness waits for a command, asks its Computer for one sample,
// writes the result on its private result channel and rings the shared
// doorbell. The three workers differ only in their Computer.
package worker

import (
	"errors"
	"io"
	"strings"

	hserrors "github.com/rileyhilliard/hoststat/internal/errors"
	"github.com/rileyhilliard/hoststat/internal/logger"
	"github.com/rileyhilliard/hoststat/internal/sample"
	"github.com/rileyhilliard/hoststat/internal/wire"
)

// Computer produces one cycle's result for a worker kind.
type Computer interface {
	Kind() sample.Kind
	Compute(cmd wire.StartCycle) (wire.Result, error)
}

// Harness drives a Computer over the worker's three channel endpoints.
type Harness struct {
	computer Computer
	commands io.Reader
	results  io.Writer
	doorbell io.Writer
	log      logger.Logger
}

// NewHarness creates a harness. The harness never closes the endpoints; the
// process (or goroutine) that owns them does.
func NewHarness(c Computer, commands io.Reader, results, doorbell io.Writer, log logger.Logger) *Harness {
	if log == nil {
		log = logger.Noop()
	}
	return &Harness{
		computer: c,
		commands: commands,
		results:  results,
		doorbell: doorbell,
		log:      log,
	}
}

// Serve handles commands until Shutdown (returns nil) or until the protocol
// breaks (returns the error). Blocking on the command read is how the worker
// idles between cycles.
func (h *Harness) Serve() error {
	kind := h.computer.Kind()
	for {
		msg, err := wire.ReadCommand(h.commands)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return hserrors.WrapWithCode(err, hserrors.ErrChannel,
					"Command channel closed without a shutdown",
					"The supervisor exited early; this worker has nothing left to do.")
			}
			return err
		}

		switch cmd := msg.(type) {
		case wire.Shutdown:
			h.log.Debug("shutdown received")
			return nil
		case wire.StartCycle:
			if cmd.Worker != kind {
				return hserrors.Protocolf("%s worker received %s", kind, cmd.Tag())
			}
			if err := h.cycle(cmd); err != nil {
				return err
			}
		default:
			return hserrors.Protocolf("%s worker received %s", kind, msg.Tag())
		}
	}
}

// cycle computes one result, sends it, then rings the doorbell. The doorbell
// goes last so the supervisor never waits on a result that is not fully written.
func (h *Harness) cycle(cmd wire.StartCycle) error {
	kind := h.computer.Kind()
	h.log.Debug("cycle %d started", cmd.Index)

	res, err := h.computer.Compute(cmd)
	if err != nil {
		h.log.Warn("cycle %d failed: %s", cmd.Index, Summarize(err))
		res = wire.ErrorResult{Index: cmd.Index, Worker: kind, Message: Summarize(err)}
	}

	if err := wire.WriteResult(h.results, res); err != nil {
		return err
	}
	return wire.RingDoorbell(h.doorbell, wire.Doorbell{Worker: kind, Index: cmd.Index})
}

// Summarize flattens an error into one line for the wire and for logs.
func Summarize(err error) string {
	var hsErr *hserrors.Error
	if errors.As(err, &hsErr) {
		if hsErr.Cause != nil {
			return hsErr.Message + ": " + Summarize(hsErr.Cause)
		}
		return hsErr.Message
	}
	return strings.TrimSpace(err.Error())
}
