// Package supervisor runs the sampling loop. It spawns the three workers,
// drives them through the configured number of cycles, multiplexes their
// completions through the shared doorbell, and hands a frame to the report
// sink after every cycle.
//
// All run state is owned by the goroutine calling Run. The only other
// goroutines turn blocking reads into channel events: one pumps the doorbell
// pipe and one per worker waits for the worker to exit.
package supervisor

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rileyhilliard/hoststat/internal/errors"
	"github.com/rileyhilliard/hoststat/internal/logger"
	"github.com/rileyhilliard/hoststat/internal/probe"
	"github.com/rileyhilliard/hoststat/internal/report"
	"github.com/rileyhilliard/hoststat/internal/sample"
	"github.com/rileyhilliard/hoststat/internal/wire"
	"github.com/rileyhilliard/hoststat/internal/worker"
)

// HostProbe is what the supervisor samples itself: the baseline CPU sample,
// its own memory usage for the frame header, and the trailing system info.
type HostProbe interface {
	probe.CPUProbe
	probe.SelfProbe
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithSpawner replaces the default process spawner.
func WithSpawner(s Spawner) Option {
	return func(o *Orchestrator) { o.spawner = s }
}

// WithLogger sets the logger for state transitions and worker lifecycle.
func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithSleep replaces the delay between cycles.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(o *Orchestrator) { o.sleep = fn }
}

// WithClock replaces the clock used for elapsed times.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// Orchestrator coordinates one sampling run.
type Orchestrator struct {
	cfg     Config
	host    HostProbe
	sink    report.Sink
	spawner Spawner
	log     logger.Logger
	sleep   func(context.Context, time.Duration) error
	now     func() time.Time
	state   State
}

// New creates an orchestrator. Without WithSpawner, workers run as child
// processes of the current binary.
func New(cfg Config, host HostProbe, sink report.Sink, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:   cfg,
		host:  host,
		sink:  sink,
		log:   logger.Noop(),
		sleep: sleepContext,
		now:   time.Now,
		state: StateInit,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.cfg.ShutdownGrace <= 0 {
		o.cfg.ShutdownGrace = DefaultConfig().ShutdownGrace
	}
	if o.spawner == nil {
		o.spawner = NewProcessSpawner(workerOptions(cfg))
	}
	return o
}

// State returns the orchestrator's current state.
func (o *Orchestrator) State() State {
	return o.state
}

func (o *Orchestrator) setState(s State) {
	if s != o.state {
		o.log.Debug("state %s -> %s", o.state, s)
	}
	o.state = s
}

// Run performs the whole run: baseline, spawn, N cycles, the trailing system
// information frame, and shutdown. Workers are always shut down and reaped,
// including when a cycle fails. The returned Result is non-nil once the
// baseline has been captured.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}
	start := o.now()

	baseline, err := o.host.CaptureCPU()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrProbe,
			"Couldn't capture the baseline CPU sample",
			"Check that /proc/stat is readable.")
	}
	o.setState(StateBaselineCaptured)

	result := &Result{
		History:      sample.NewHistory(o.cfg.Samples, baseline),
		ExitStatuses: make(map[sample.Kind]int, len(sample.Kinds)),
	}
	defer func() {
		result.Duration = o.now().Sub(start)
	}()

	if err := o.sleep(ctx, o.cfg.Delay); err != nil {
		o.setState(StateTerminated)
		return result, interrupted(err, 0)
	}

	r, err := o.spawnAll()
	if err != nil {
		o.setState(StateTerminated)
		return result, err
	}
	o.setState(StateWorkersSpawned)

	runErr := r.cycles(ctx, result, start)
	if runErr == nil {
		runErr = r.finish(start)
	}
	r.shutdown(result)
	o.setState(StateTerminated)

	if runErr != nil {
		o.log.Debug("run failed after %d cycles: %v", result.Completed(), runErr)
	}
	return result, runErr
}

// run is the state of one run between spawning and shutdown.
type run struct {
	o       *Orchestrator
	handles map[sample.Kind]*Handle
	bell    *os.File
	rings   chan ring
	exits   chan *Handle
	stop    chan struct{}

	history    *sample.History
	processors int32
	cores      int32
	average    string
	sessions   string
}

// spawnAll creates the doorbell and starts the three workers. On failure the
// workers already started are shut down before returning.
func (o *Orchestrator) spawnAll() (*run, error) {
	bellR, bellW, err := os.Pipe()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrProcess,
			"Couldn't create the doorbell pipe",
			"Check the open file limit (ulimit -n).")
	}

	r := &run{
		o:       o,
		handles: make(map[sample.Kind]*Handle, len(sample.Kinds)),
		bell:    bellR,
		rings:   make(chan ring, len(sample.Kinds)),
		exits:   make(chan *Handle, len(sample.Kinds)),
		stop:    make(chan struct{}),
	}

	for _, k := range sample.Kinds {
		h, err := o.spawner.Spawn(k, bellW)
		if err != nil {
			bellW.Close()
			r.shutdown(nil)
			return nil, err
		}
		r.handles[k] = h
		o.log.Debug("%s worker spawned", k)
	}

	// Workers hold the only write ends now, so the pump sees EOF once they
	// are all gone.
	bellW.Close()

	go pumpDoorbell(bellR, r.rings, r.stop)
	for _, h := range r.handles {
		go watchExit(h, r.exits, r.stop)
	}
	return r, nil
}

// cycles runs cycles 0..N-1.
func (r *run) cycles(ctx context.Context, res *Result, start time.Time) error {
	o := r.o
	r.history = res.History
	n := r.history.Len()

	for i := 0; i < n; i++ {
		idx := sample.CycleIndex(i)
		if err := r.start(idx); err != nil {
			return err
		}

		o.setState(StateAwaitingResults)
		if p, ok := o.sink.(report.Progress); ok {
			p.Awaiting(idx)
		}
		if err := r.await(ctx, idx, res); err != nil {
			return err
		}

		o.setState(StateRendering)
		if err := o.sink.Cycle(r.frame(idx, start)); err != nil {
			return err
		}

		if i < n-1 {
			o.setState(StateSleeping)
			if err := o.sleep(ctx, o.cfg.Delay); err != nil {
				return interrupted(err, idx+1)
			}
		}
	}
	return nil
}

// start sends StartCycle to every worker with the prior context it needs.
func (r *run) start(idx sample.CycleIndex) error {
	prior := r.history.Prior(idx)
	for _, k := range sample.Kinds {
		cmd := wire.StartCycle{Worker: k, Index: idx}
		switch k {
		case sample.KindMemory:
			cmd.Prior.Memory = prior.Memory
		case sample.KindCPU:
			cmd.Prior.CPU = prior.CPU
			cmd.Prior.Utilization = prior.Utilization
		}
		if err := wire.WriteCommand(r.handles[k].Commands, cmd); err != nil {
			return errors.WrapWithCode(err, errors.ErrProcess,
				fmt.Sprintf("Couldn't start cycle %d on the %s worker", idx, k),
				"The worker has probably exited; run with "+logger.DebugEnv+"=1 to see its log.")
		}
	}
	return nil
}

// await collects exactly one result from each worker for cycle idx.
func (r *run) await(ctx context.Context, idx sample.CycleIndex, res *Result) error {
	pending := make(map[sample.Kind]bool, len(sample.Kinds))
	for _, k := range sample.Kinds {
		pending[k] = true
	}

	var timeout <-chan time.Time
	if d := r.o.cfg.CycleTimeout; d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		timeout = t.C
	}

	for len(pending) > 0 {
		select {
		case ev, ok := <-r.rings:
			if !ok || stderrors.Is(ev.err, io.EOF) {
				return errors.New(errors.ErrProcess,
					fmt.Sprintf("Every worker closed the doorbell during cycle %d", idx),
					"Run with "+logger.DebugEnv+"=1 to see the workers' logs.")
			}
			if ev.err != nil {
				return ev.err
			}
			if err := r.accept(ev.bell, idx, pending, res); err != nil {
				return err
			}

		case h := <-r.exits:
			return errors.New(errors.ErrProcess,
				fmt.Sprintf("The %s worker exited with status %d during cycle %d", h.Kind, h.Status(), idx),
				"Run with "+logger.DebugEnv+"=1 to see the worker's log.")

		case <-timeout:
			return errors.New(errors.ErrTimeout,
				fmt.Sprintf("Cycle %d timed out after %s waiting for %s", idx, r.o.cfg.CycleTimeout, pendingNames(pending)),
				"Raise --timeout, or set it to 0 to wait without a bound.")

		case <-ctx.Done():
			return interrupted(ctx.Err(), idx)
		}
	}
	return nil
}

// accept validates one doorbell signal, drains that worker's result and
// records it.
func (r *run) accept(bell wire.Doorbell, idx sample.CycleIndex, pending map[sample.Kind]bool, res *Result) error {
	if bell.Index != idx {
		return errors.Protocolf("%s worker rang for cycle %d during cycle %d", bell.Worker, bell.Index, idx)
	}
	if !pending[bell.Worker] {
		return errors.Protocolf("%s worker rang twice during cycle %d", bell.Worker, idx)
	}
	delete(pending, bell.Worker)

	msg, err := wire.ReadResult(r.handles[bell.Worker].Results)
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return errors.WrapWithCode(err, errors.ErrChannel,
				fmt.Sprintf("The %s worker rang for cycle %d but its result channel is closed", bell.Worker, idx), "")
		}
		return err
	}
	if msg.Cycle() != idx {
		return errors.Protocolf("%s worker sent a result for cycle %d during cycle %d", bell.Worker, msg.Cycle(), idx)
	}
	return r.record(bell.Worker, idx, msg, res)
}

func (r *run) record(kind sample.Kind, idx sample.CycleIndex, msg wire.Result, res *Result) error {
	var err error
	switch m := msg.(type) {
	case wire.ErrorResult:
		return errors.New(errors.ErrProbe,
			fmt.Sprintf("The %s worker couldn't sample cycle %d: %s", m.Worker, idx, m.Message),
			"")
	case wire.MemoryResult:
		if kind != sample.KindMemory {
			return mismatch(kind, msg)
		}
		err = r.history.RecordMemory(idx, m.Sample, m.Row)
	case wire.CPUResult:
		if kind != sample.KindCPU {
			return mismatch(kind, msg)
		}
		err = r.history.RecordCPU(idx, m.Sample, m.Utilization, m.Row)
		r.processors, r.cores = m.Processors, m.Cores
		res.Processors, res.Cores = m.Processors, m.Cores
		r.average = m.Average
	case wire.SessionsResult:
		if kind != sample.KindSessions {
			return mismatch(kind, msg)
		}
		err = r.history.RecordSessions(idx, m.Listing)
		r.sessions = m.Listing
	default:
		return mismatch(kind, msg)
	}
	if err != nil {
		return errors.Protocolf("%v", err)
	}
	r.o.log.Debug("cycle %d: %s result recorded", idx, kind)
	return nil
}

func mismatch(kind sample.Kind, msg wire.Result) error {
	return errors.Protocolf("%s worker sent %s", kind, msg.Tag())
}

// frame builds the report frame for cycle idx.
func (r *run) frame(idx sample.CycleIndex, start time.Time) report.Frame {
	o := r.o
	selfKB, err := o.host.SelfMemoryKB()
	if err != nil {
		o.log.Warn("couldn't read own memory usage: %v", err)
		selfKB = 0
	}
	return report.Frame{
		Cycle:        idx,
		Samples:      r.history.Len(),
		Delay:        o.cfg.Delay,
		SelfKB:       selfKB,
		MemoryRows:   r.history.MemoryRows(),
		CPURows:      r.history.CPURows(),
		Utilizations: r.history.Utilizations(),
		Sessions:     r.sessions,
		Processors:   r.processors,
		Cores:        r.cores,
		Average:      r.average,
		Elapsed:      o.now().Sub(start),
	}
}

// finish renders the trailing system information frame.
func (r *run) finish(start time.Time) error {
	o := r.o
	info, err := o.host.SystemInfo()
	if err != nil {
		o.log.Warn("couldn't read system information: %v", err)
	}
	return o.sink.Info(report.InfoFrame{Info: info, Elapsed: o.now().Sub(start)})
}

// shutdown stops every worker and releases the pipes. Workers get Shutdown
// and their command channel closed; any that has not exited within the grace
// period is killed, and one that survives a further grace period is recorded
// with status -1 and left behind. Exit statuses are recorded in res when it
// is non-nil.
func (r *run) shutdown(res *Result) {
	o := r.o
	o.setState(StateDraining)

	for _, k := range sample.Kinds {
		h := r.handles[k]
		if h == nil {
			continue
		}
		if err := wire.WriteCommand(h.Commands, wire.Shutdown{}); err != nil {
			o.log.Debug("%s worker: shutdown not delivered: %v", k, err)
		}
		h.Commands.Close()
	}

	grace := time.NewTimer(o.cfg.ShutdownGrace)
	defer grace.Stop()
	// reap bounds the wait after a kill; once it fires, workers still running
	// are abandoned with status -1.
	var reap *time.Timer
	reapExpired := false
	for _, k := range sample.Kinds {
		h := r.handles[k]
		if h == nil {
			continue
		}
		if reap == nil {
			select {
			case <-h.Done():
			case <-grace.C:
				reap = time.NewTimer(o.cfg.ShutdownGrace)
				defer reap.Stop()
			}
		}
		if reap != nil {
			select {
			case <-h.Done():
			default:
				o.log.Warn("%s worker did not exit after shutdown; killing it", k)
				if err := h.Kill(); err != nil {
					o.log.Debug("%s worker: kill: %v", k, err)
				}
				if !reapExpired {
					select {
					case <-h.Done():
					case <-reap.C:
						reapExpired = true
					}
				}
			}
		}

		status := -1
		select {
		case <-h.Done():
			status = h.Status()
			o.log.Debug("%s worker exited with status %d", k, status)
		default:
			o.log.Warn("%s worker is still running after being killed; abandoning it", k)
		}
		if res != nil {
			res.ExitStatuses[k] = status
		}
		h.Results.Close()
	}

	close(r.stop)
	r.bell.Close()
}

// pendingNames lists the workers that have not reported, in kind order.
func pendingNames(pending map[sample.Kind]bool) string {
	names := make([]string, 0, len(pending))
	for _, k := range sample.Kinds {
		if pending[k] {
			names = append(names, k.String())
		}
	}
	return strings.Join(names, ", ")
}

// interrupted wraps a cancellation observed while waiting on cycle idx.
func interrupted(err error, idx sample.CycleIndex) error {
	return errors.WrapWithCode(err, errors.ErrTimeout,
		fmt.Sprintf("Sampling stopped before cycle %d completed", idx),
		"")
}

func workerOptions(cfg Config) worker.Options {
	return worker.Options{Graphics: cfg.Graphics}
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
