package supervisor

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/moby/sys/reexec"
	"github.com/rileyhilliard/hoststat/internal/errors"
	"github.com/rileyhilliard/hoststat/internal/logger"
	"github.com/rileyhilliard/hoststat/internal/sample"
	"github.com/rileyhilliard/hoststat/internal/worker"
	"golang.org/x/sys/unix"
)

// Spawner starts one worker. The worker must write its doorbell signals to
// doorbell; the caller closes its own copy of doorbell after spawning.
type Spawner interface {
	Spawn(kind sample.Kind, doorbell *os.File) (*Handle, error)
}

// Handle is the supervisor's side of one running worker.
type Handle struct {
	Kind     sample.Kind
	Commands io.WriteCloser
	Results  io.ReadCloser

	done   chan struct{}
	once   sync.Once
	status int
	kill   func() error
}

// NewHandle creates a handle. kill forcibly stops the worker; it may be
// called after the worker exited.
func NewHandle(kind sample.Kind, commands io.WriteCloser, results io.ReadCloser, kill func() error) *Handle {
	return &Handle{
		Kind:     kind,
		Commands: commands,
		Results:  results,
		done:     make(chan struct{}),
		kill:     kill,
	}
}

// Exited records the worker's exit status. Only the first call counts.
func (h *Handle) Exited(status int) {
	h.once.Do(func() {
		h.status = status
		close(h.done)
	})
}

// Done is closed once the worker has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Status returns the exit status. It is only meaningful after Done is closed.
func (h *Handle) Status() int {
	<-h.done
	return h.status
}

// Kill forcibly stops the worker.
func (h *Handle) Kill() error {
	if h.kill == nil {
		return nil
	}
	return h.kill()
}

// ProcessSpawner starts each worker as a child process by re-executing the
// current binary under the worker's reexec name.
type ProcessSpawner struct {
	opts   worker.Options
	stderr io.Writer
}

// NewProcessSpawner creates a spawner for real worker processes.
func NewProcessSpawner(opts worker.Options) *ProcessSpawner {
	return &ProcessSpawner{opts: opts, stderr: os.Stderr}
}

// Spawn starts one worker process with its command reader, result writer and
// the doorbell as fds 3, 4 and 5.
func (s *ProcessSpawner) Spawn(kind sample.Kind, doorbell *os.File) (*Handle, error) {
	cmdR, cmdW, resR, resW, err := pipePair()
	if err != nil {
		return nil, spawnError(kind, err)
	}

	args := append([]string{worker.EntryName(kind)}, worker.Args(s.opts)...)
	cmd := reexec.Command(args...)
	cmd.ExtraFiles = []*os.File{cmdR, resW, doorbell}
	cmd.Stderr = s.stderr

	startErr := cmd.Start()
	// The child holds its own copies now.
	cmdR.Close()
	resW.Close()
	if startErr != nil {
		cmdW.Close()
		resR.Close()
		return nil, spawnError(kind, startErr)
	}

	h := NewHandle(kind, cmdW, resR, func() error {
		return cmd.Process.Kill()
	})
	go func() {
		h.Exited(exitStatus(cmd, cmd.Wait()))
	}()
	return h, nil
}

func exitStatus(cmd *exec.Cmd, err error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}

// InProcessSpawner runs each worker harness on a goroutine inside the
// supervisor process. The pipes are real, so the protocol is exercised
// byte for byte; only the process boundary is missing.
type InProcessSpawner struct {
	probes worker.Probes
	opts   worker.Options
	log    logger.Logger
}

// NewInProcessSpawner creates a spawner that runs workers as goroutines.
func NewInProcessSpawner(probes worker.Probes, opts worker.Options, log logger.Logger) *InProcessSpawner {
	if log == nil {
		log = logger.Noop()
	}
	return &InProcessSpawner{probes: probes, opts: opts, log: log}
}

// Spawn starts one worker goroutine. The doorbell is duplicated so the
// worker owns a write end the supervisor can close independently.
func (s *InProcessSpawner) Spawn(kind sample.Kind, doorbell *os.File) (*Handle, error) {
	computer, err := worker.NewComputer(kind, s.probes, s.opts)
	if err != nil {
		return nil, spawnError(kind, err)
	}

	fd, err := unix.Dup(int(doorbell.Fd()))
	if err != nil {
		return nil, spawnError(kind, err)
	}
	unix.CloseOnExec(fd)
	bell := os.NewFile(uintptr(fd), "doorbell")

	cmdR, cmdW, resR, resW, err := pipePair()
	if err != nil {
		bell.Close()
		return nil, spawnError(kind, err)
	}

	// A goroutine can't be killed; closing its ends fails any read or write
	// it is blocked on. A worker stuck inside a probe call stays stuck.
	kill := func() error {
		err := cmdR.Close()
		resW.Close()
		bell.Close()
		return err
	}
	h := NewHandle(kind, cmdW, resR, kill)
	log := s.log
	go func() {
		defer bell.Close()
		defer resW.Close()
		defer cmdR.Close()

		status := 0
		if err := worker.NewHarness(computer, cmdR, resW, bell, log).Serve(); err != nil {
			log.Debug("%s worker stopped: %s", kind, worker.Summarize(err))
			status = 1
		}
		h.Exited(status)
	}()
	return h, nil
}

// pipePair creates the command and result pipes for one worker.
func pipePair() (cmdR, cmdW, resR, resW *os.File, err error) {
	cmdR, cmdW, err = os.Pipe()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	resR, resW, err = os.Pipe()
	if err != nil {
		cmdR.Close()
		cmdW.Close()
		return nil, nil, nil, nil, err
	}
	return cmdR, cmdW, resR, resW, nil
}

func spawnError(kind sample.Kind, err error) error {
	return errors.WrapWithCode(err, errors.ErrProcess,
		fmt.Sprintf("Couldn't start the %s worker", kind),
		"Check the process limit (ulimit -u) and open file limit (ulimit -n).")
}
