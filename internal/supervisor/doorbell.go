package supervisor

import (
	"io"

	"github.com/rileyhilliard/hoststat/internal/wire"
)

// ring is one decoded doorbell signal, or the error that ended the pump.
type ring struct {
	bell wire.Doorbell
	err  error
}

// pumpDoorbell decodes doorbell frames from r and delivers them on out in
// arrival order. It stops after the first error (io.EOF once every writer
// has closed) or when stop is closed, and closes out on the way out.
func pumpDoorbell(r io.Reader, out chan<- ring, stop <-chan struct{}) {
	defer close(out)
	for {
		d, err := wire.ReadDoorbell(r)
		ev := ring{bell: d, err: err}
		select {
		case out <- ev:
		case <-stop:
			return
		}
		if err != nil {
			return
		}
	}
}

// watchExit reports h on exits once the worker behind it has exited.
func watchExit(h *Handle, exits chan<- *Handle, stop <-chan struct{}) {
	select {
	case <-h.Done():
		select {
		case exits <- h:
		case <-stop:
		}
	case <-stop:
	}
}
