package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	hserrors "github.com/rileyhilliard/hoststat/internal/errors"
	"github.com/rileyhilliard/hoststat/internal/sample"
)

// MaxTextLen bounds a single text payload. A longer length prefix means the
// reader has lost frame alignment.
const MaxTextLen = 1 << 20

// DoorbellSize is the size of a doorbell frame. It is well below PIPE_BUF, so a
// single write of it is atomic even with several writers on one pipe.
const DoorbellSize = 8

// prior presence flags in a StartCycle frame
const (
	priorMemory int32 = 1 << iota
	priorCPU
	priorUtilization
)

var order = binary.NativeEndian

// frameWriter accumulates a frame so it reaches the pipe in a single write.
type frameWriter struct {
	buf bytes.Buffer
}

func (f *frameWriter) put(v interface{}) {
	// Writes to a bytes.Buffer of fixed-size values cannot fail.
	_ = binary.Write(&f.buf, order, v)
}

func (f *frameWriter) text(s string) {
	f.put(int32(len(s)))
	f.buf.WriteString(s)
}

func (f *frameWriter) flush(w io.Writer, what string) error {
	if _, err := w.Write(f.buf.Bytes()); err != nil {
		return hserrors.WrapWithCode(err, hserrors.ErrChannel,
			"Couldn't write "+what+" frame",
			"The process on the other end of the pipe has probably exited.")
	}
	return nil
}

// frameReader reads the fields of one frame, latching the first error.
type frameReader struct {
	r   io.Reader
	err error
}

func (f *frameReader) get(v interface{}) {
	if f.err != nil {
		return
	}
	if err := binary.Read(f.r, order, v); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		f.err = err
	}
}

func (f *frameReader) text() string {
	var n int32
	f.get(&n)
	if f.err != nil {
		return ""
	}
	if n < 0 || n > MaxTextLen {
		f.err = hserrors.Protocolf("text length %d out of range", n)
		return ""
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(f.r, b); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		f.err = err
		return ""
	}
	return string(b)
}

func (f *frameReader) done(what string) error {
	if f.err == nil {
		return nil
	}
	var hsErr *hserrors.Error
	if errors.As(f.err, &hsErr) {
		return f.err
	}
	return hserrors.WrapWithCode(f.err, hserrors.ErrChannel,
		"Truncated "+what+" frame",
		"The process on the other end of the pipe exited mid-frame.")
}

// readTag reads the leading tag of a frame. A clean EOF before any byte is
// returned as io.EOF so callers can tell a closed pipe from a torn frame.
func readTag(r io.Reader, what string) (Tag, error) {
	var t int32
	if err := binary.Read(r, order, &t); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, io.EOF
		}
		return 0, hserrors.WrapWithCode(err, hserrors.ErrChannel,
			"Couldn't read "+what+" tag", "")
	}
	return Tag(t), nil
}

// WriteCommand writes a StartCycle or Shutdown frame.
func WriteCommand(w io.Writer, m Message) error {
	var f frameWriter
	switch c := m.(type) {
	case Shutdown:
		f.put(int32(TagShutdown))
	case StartCycle:
		if !c.Worker.Valid() {
			return hserrors.Protocolf("cannot start cycle for %s", c.Worker)
		}
		var flags int32
		if c.Prior.Memory != nil {
			flags |= priorMemory
		}
		if c.Prior.CPU != nil {
			flags |= priorCPU
		}
		if c.Prior.Utilization != nil {
			flags |= priorUtilization
		}
		f.put(int32(c.Tag()))
		f.put(int32(c.Index))
		f.put(flags)
		if c.Prior.Memory != nil {
			f.put(*c.Prior.Memory)
		}
		if c.Prior.CPU != nil {
			f.put(*c.Prior.CPU)
		}
		if c.Prior.Utilization != nil {
			f.put(*c.Prior.Utilization)
		}
	default:
		return hserrors.Protocolf("%s is not a command", m.Tag())
	}
	return f.flush(w, "command")
}

// ReadCommand reads one command frame.
func ReadCommand(r io.Reader) (Message, error) {
	tag, err := readTag(r, "command")
	if err != nil {
		return nil, err
	}
	if tag == TagShutdown {
		return Shutdown{}, nil
	}
	kind, ok := kindOfStart(tag)
	if !ok {
		return nil, hserrors.Protocolf("unexpected %s on command channel", tag)
	}

	fr := &frameReader{r: r}
	cmd := StartCycle{Worker: kind}
	var index, flags int32
	fr.get(&index)
	fr.get(&flags)
	cmd.Index = sample.CycleIndex(index)
	if flags&priorMemory != 0 {
		var m sample.Memory
		fr.get(&m)
		cmd.Prior.Memory = &m
	}
	if flags&priorCPU != 0 {
		var c sample.CPU
		fr.get(&c)
		cmd.Prior.CPU = &c
	}
	if flags&priorUtilization != 0 {
		var u float64
		fr.get(&u)
		cmd.Prior.Utilization = &u
	}
	if err := fr.done("command"); err != nil {
		return nil, err
	}
	return cmd, nil
}

// WriteResult writes one result frame.
func WriteResult(w io.Writer, m Result) error {
	var f frameWriter
	f.put(int32(m.Tag()))
	f.put(int32(m.Cycle()))
	switch res := m.(type) {
	case MemoryResult:
		f.put(res.Sample)
		f.text(res.Row)
	case CPUResult:
		f.put(res.Sample)
		f.put(res.Utilization)
		f.put(res.Processors)
		f.put(res.Cores)
		f.text(res.Average)
		f.text(res.Row)
	case SessionsResult:
		f.text(res.Listing)
	case ErrorResult:
		f.put(int32(res.Worker))
		f.text(res.Message)
	default:
		return hserrors.Protocolf("%s is not a result", m.Tag())
	}
	return f.flush(w, "result")
}

// ReadResult reads one result frame.
func ReadResult(r io.Reader) (Result, error) {
	tag, err := readTag(r, "result")
	if err != nil {
		return nil, err
	}

	fr := &frameReader{r: r}
	var index int32
	fr.get(&index)
	idx := sample.CycleIndex(index)

	var res Result
	switch tag {
	case TagMemoryResult:
		m := MemoryResult{Index: idx}
		fr.get(&m.Sample)
		m.Row = fr.text()
		res = m
	case TagCPUResult:
		c := CPUResult{Index: idx}
		fr.get(&c.Sample)
		fr.get(&c.Utilization)
		fr.get(&c.Processors)
		fr.get(&c.Cores)
		c.Average = fr.text()
		c.Row = fr.text()
		res = c
	case TagSessionsResult:
		res = SessionsResult{Index: idx, Listing: fr.text()}
	case TagErrorResult:
		e := ErrorResult{Index: idx}
		var kind int32
		fr.get(&kind)
		e.Worker = sample.Kind(kind)
		e.Message = fr.text()
		if fr.err == nil && !e.Worker.Valid() {
			return nil, hserrors.Protocolf("error result names unknown worker %d", kind)
		}
		res = e
	default:
		return nil, hserrors.Protocolf("unexpected %s on result channel", tag)
	}
	if err := fr.done("result"); err != nil {
		return nil, err
	}
	return res, nil
}

// RingDoorbell writes one doorbell frame in a single write.
func RingDoorbell(w io.Writer, d Doorbell) error {
	if !d.Worker.Valid() {
		return hserrors.Protocolf("cannot ring doorbell for %s", d.Worker)
	}
	var f frameWriter
	f.put(int32(d.Tag()))
	f.put(int32(d.Index))
	return f.flush(w, "doorbell")
}

// ReadDoorbell reads one doorbell frame.
func ReadDoorbell(r io.Reader) (Doorbell, error) {
	tag, err := readTag(r, "doorbell")
	if err != nil {
		return Doorbell{}, err
	}
	kind, ok := kindOfResult(tag)
	if !ok {
		return Doorbell{}, hserrors.Protocolf("unexpected %s on doorbell channel", tag)
	}
	fr := &frameReader{r: r}
	var index int32
	fr.get(&index)
	if err := fr.done("doorbell"); err != nil {
		return Doorbell{}, err
	}
	return Doorbell{Worker: kind, Index: sample.CycleIndex(index)}, nil
}
