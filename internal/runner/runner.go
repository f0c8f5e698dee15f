// Package runner executes a single external command at a time and streams
// its output line-by-line to a caller-supplied callback without ever
// blocking the caller.
//
// Stdout and stderr of the child are merged into one ordered stream (the
// equivalent of 2>&1); os/exec serializes writes when both streams share a
// writer, so delivery order matches production order.
package runner

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

const defaultGracePeriod = 3 * time.Second

var (
	// ErrEmptySpec is returned by Start when the spec names no executable.
	ErrEmptySpec = errors.New("runner: spec has no executable")
	// ErrBusy is returned by Start while a previous run is still active.
	ErrBusy = errors.New("runner: a run is already active")
)

// Spec describes one external process invocation.
type Spec struct {
	Exe  string   // executable path, or bare name resolved via PATH
	Args []string // command-line arguments
	Dir  string   // working directory; empty inherits the current one
	Env  []string // extra KEY=VALUE entries appended to the inherited environment
}

// Result is the final outcome of a run, delivered to the done callback.
type Result struct {
	RunID     string
	ExitCode  int  // -1 if the process never ran or was killed by a signal
	Cancelled bool
	Err       error // non-nil only when the process could not be started
	Started   time.Time
	Duration  time.Duration
}

// LineFunc receives one line of combined output, with the trailing newline
// and any ANSI escape sequences removed.
type LineFunc func(line string)

// DoneFunc receives the final result of a run. It is called exactly once,
// after the last LineFunc call for that run.
type DoneFunc func(res Result)

// Interface abstracts command execution for testability.
// Implemented by *Runner and by *FakeRunner.
type Interface interface {
	Start(spec Spec, onLine LineFunc, onDone DoneFunc) (*Handle, error)
	Cancel(h *Handle)
	IsRunning(h *Handle) bool
}

// Handle represents one in-flight run.
type Handle struct {
	id        string
	started   time.Time
	grace     time.Duration
	cancelled atomic.Bool
	proc      atomic.Pointer[os.Process]
	termOnce  sync.Once
	done      chan struct{}
}

func newHandle(grace time.Duration) *Handle {
	return &Handle{
		id:      uuid.New().String(),
		started: time.Now(),
		grace:   grace,
		done:    make(chan struct{}),
	}
}

// ID returns the unique identifier of this run.
func (h *Handle) ID() string { return h.id }

// StartedAt returns the time the run was started.
func (h *Handle) StartedAt() time.Time { return h.started }

// Done returns a channel that is closed once the run has completed.
// The done callback remains the authoritative completion signal.
func (h *Handle) Done() <-chan struct{} { return h.done }

// terminate signals the child's process group, then escalates to SIGKILL
// if the run is still alive after the grace period. Safe to call any
// number of times; only the first call with a live process acts.
func (h *Handle) terminate() {
	proc := h.proc.Load()
	if proc == nil {
		// Not spawned yet; the spawn path re-checks the cancel flag.
		return
	}
	h.termOnce.Do(func() {
		_ = unix.Kill(-proc.Pid, unix.SIGTERM)
		go func() {
			select {
			case <-h.done:
			case <-time.After(h.grace):
				_ = unix.Kill(-proc.Pid, unix.SIGKILL)
			}
		}()
	})
}

// Runner executes one command at a time. The zero value is ready to use.
type Runner struct {
	// GracePeriod bounds the wait between SIGTERM and SIGKILL during
	// cancellation. Zero means 3 seconds.
	GracePeriod time.Duration

	mu     sync.Mutex
	active *Handle
}

func (r *Runner) gracePeriod() time.Duration {
	if r.GracePeriod > 0 {
		return r.GracePeriod
	}
	return defaultGracePeriod
}

// Start validates the spec, reserves the runner, and launches the process
// on a background goroutine; it never blocks on process I/O. Validation
// errors (ErrEmptySpec, ErrBusy) are returned synchronously. A spawn
// failure is reported through onDone with a non-nil Err, never returned
// here, so the caller has exactly one asynchronous path to watch.
func (r *Runner) Start(spec Spec, onLine LineFunc, onDone DoneFunc) (*Handle, error) {
	if spec.Exe == "" {
		return nil, ErrEmptySpec
	}
	if onLine == nil {
		onLine = func(string) {}
	}
	if onDone == nil {
		onDone = func(Result) {}
	}

	h := newHandle(r.gracePeriod())

	r.mu.Lock()
	if r.active != nil {
		r.mu.Unlock()
		return nil, ErrBusy
	}
	r.active = h
	r.mu.Unlock()

	go r.run(h, spec, onLine, onDone)
	return h, nil
}

// Cancel requests termination of the run associated with h. It is
// idempotent, returns without waiting for the process to die, and is a
// no-op once the run has completed.
func (r *Runner) Cancel(h *Handle) {
	if h == nil {
		return
	}
	h.cancelled.Store(true)
	select {
	case <-h.done:
		return
	default:
	}
	h.terminate()
}

// IsRunning reports whether the run associated with h has not yet completed.
func (r *Runner) IsRunning(h *Handle) bool {
	if h == nil {
		return false
	}
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

func (r *Runner) run(h *Handle, spec Spec, onLine LineFunc, onDone DoneFunc) {
	cmd := exec.Command(spec.Exe, spec.Args...)
	cmd.Dir = spec.Dir
	env := append(os.Environ(), spec.Env...)
	// Ask the child for plain output; sequences that slip through are
	// stripped by the line writer anyway.
	cmd.Env = append(env, "NO_COLOR=1", "TERM=dumb")
	// Own process group, so cancellation reaches the child's children too.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	lw := &lineWriter{emit: onLine}
	cmd.Stdout = lw
	cmd.Stderr = lw

	res := Result{RunID: h.id, ExitCode: -1, Started: h.started}

	if err := cmd.Start(); err != nil {
		res.Err = fmt.Errorf("starting %s: %w", spec.Exe, err)
		res.Cancelled = h.cancelled.Load()
		r.finish(h, onDone, res)
		return
	}
	h.proc.Store(cmd.Process)
	if h.cancelled.Load() {
		// Cancel raced with the spawn and may have found no process yet.
		h.terminate()
	}

	// Wait returns only after both stream copies are drained, so the
	// flush and everything below happen after the last onLine call.
	// Any Wait error past this point (non-zero exit, killed externally,
	// read failure) is run termination, not a separate error channel.
	_ = cmd.Wait()
	lw.Flush()

	res.Duration = time.Since(h.started)
	res.Cancelled = h.cancelled.Load()
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	r.finish(h, onDone, res)
}

// finish releases the runner slot, marks the handle done, and fires the
// done callback, exactly once per run.
func (r *Runner) finish(h *Handle, onDone DoneFunc, res Result) {
	r.mu.Lock()
	if r.active == h {
		r.active = nil
	}
	r.mu.Unlock()
	close(h.done)
	onDone(res)
}
