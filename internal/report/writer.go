package report

import (
	"io"
	"os"

	hserrors "github.com/rileyhilliard/hoststat/internal/errors"
	"golang.org/x/term"
)

// Writer is the text Sink. It writes each frame to an io.Writer, clearing
// the screen first unless the report is sequential.
type Writer struct {
	out      io.Writer
	renderer *Renderer
}

// NewWriter creates a text sink on out. Color is only used when out is a
// terminal.
func NewWriter(out io.Writer, opts Options) *Writer {
	if !IsTerminal(out) {
		opts.Color = false
	}
	return &Writer{out: out, renderer: NewRenderer(out, opts)}
}

// Cycle writes one cycle frame.
func (w *Writer) Cycle(f Frame) error {
	s := w.renderer.Render(f)
	if !w.renderer.opts.Sequential {
		s = ClearScreen + s
	}
	return w.write(s)
}

// Info writes the trailing system information frame.
func (w *Writer) Info(f InfoFrame) error {
	return w.write(w.renderer.RenderInfo(f))
}

func (w *Writer) write(s string) error {
	if _, err := io.WriteString(w.out, s); err != nil {
		return hserrors.WrapWithCode(err, hserrors.ErrChannel,
			"Couldn't write the report",
			"Check that standard output is still open.")
	}
	return nil
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
