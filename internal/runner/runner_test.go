package runner

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// capture collects callback deliveries for one run.
type capture struct {
	mu        sync.Mutex
	lines     []string
	doneCount atomic.Int32
	resCh     chan Result
}

func newCapture() *capture {
	return &capture{resCh: make(chan Result, 1)}
}

func (c *capture) onLine(line string) {
	c.mu.Lock()
	c.lines = append(c.lines, line)
	c.mu.Unlock()
}

func (c *capture) onDone(res Result) {
	c.doneCount.Add(1)
	c.resCh <- res
}

func (c *capture) wait(t *testing.T, timeout time.Duration) Result {
	t.Helper()
	select {
	case res := <-c.resCh:
		return res
	case <-time.After(timeout):
		t.Fatal("run did not complete in time")
		return Result{}
	}
}

func (c *capture) gotLines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}

func shSpec(script string) Spec {
	return Spec{Exe: "/bin/sh", Args: []string{"-c", script}}
}

func TestStartEmptySpec(t *testing.T) {
	r := &Runner{}
	_, err := r.Start(Spec{}, nil, nil)
	if !errors.Is(err, ErrEmptySpec) {
		t.Fatalf("err = %v, want ErrEmptySpec", err)
	}
}

func TestRunSuccess(t *testing.T) {
	r := &Runner{}
	c := newCapture()

	h, err := r.Start(shSpec(`printf 'one\ntwo\n'`), c.onLine, c.onDone)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	res := c.wait(t, 10*time.Second)
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if res.Err != nil {
		t.Errorf("Err = %v, want nil", res.Err)
	}
	if res.Cancelled {
		t.Error("Cancelled = true, want false")
	}
	if res.RunID == "" || res.RunID != h.ID() {
		t.Errorf("RunID = %q, want handle ID %q", res.RunID, h.ID())
	}
	if got, want := c.gotLines(), []string{"one", "two"}; !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
	if r.IsRunning(h) {
		t.Error("IsRunning = true after completion")
	}
}

func TestRunTrailingUnterminatedOutput(t *testing.T) {
	r := &Runner{}
	c := newCapture()

	if _, err := r.Start(shSpec(`printf 'a\nb'`), c.onLine, c.onDone); err != nil {
		t.Fatalf("Start: %v", err)
	}
	c.wait(t, 10*time.Second)

	if got, want := c.gotLines(), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
}

func TestRunMergesStderr(t *testing.T) {
	r := &Runner{}
	c := newCapture()

	if _, err := r.Start(shSpec(`echo out; echo err >&2`), c.onLine, c.onDone); err != nil {
		t.Fatalf("Start: %v", err)
	}
	c.wait(t, 10*time.Second)

	got := c.gotLines()
	if len(got) != 2 {
		t.Fatalf("lines = %q, want 2 lines", got)
	}
	if got[0] != "out" || got[1] != "err" {
		t.Errorf("lines = %q, want [out err]", got)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	r := &Runner{}
	c := newCapture()

	if _, err := r.Start(shSpec("exit 3"), c.onLine, c.onDone); err != nil {
		t.Fatalf("Start: %v", err)
	}
	res := c.wait(t, 10*time.Second)

	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if res.Err != nil {
		t.Errorf("non-zero exit should not set Err, got %v", res.Err)
	}
}

func TestRunWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	r := &Runner{}
	c := newCapture()

	spec := shSpec("pwd")
	spec.Dir = dir
	if _, err := r.Start(spec, c.onLine, c.onDone); err != nil {
		t.Fatalf("Start: %v", err)
	}
	c.wait(t, 10*time.Second)

	lines := c.gotLines()
	if len(lines) != 1 || !strings.Contains(lines[0], dir) {
		t.Errorf("pwd output = %q, want to contain %q", lines, dir)
	}
}

func TestRunChildEnv(t *testing.T) {
	r := &Runner{}
	c := newCapture()

	spec := shSpec(`echo "$GREETING:$NO_COLOR"`)
	spec.Env = []string{"GREETING=hello"}
	if _, err := r.Start(spec, c.onLine, c.onDone); err != nil {
		t.Fatalf("Start: %v", err)
	}
	c.wait(t, 10*time.Second)

	lines := c.gotLines()
	if len(lines) != 1 || lines[0] != "hello:1" {
		t.Errorf("env output = %q, want [hello:1]", lines)
	}
}

func TestLaunchFailureReportedViaDone(t *testing.T) {
	r := &Runner{}
	c := newCapture()

	h, err := r.Start(Spec{Exe: "/nonexistent/hemtt-binary-xyz"}, c.onLine, c.onDone)
	if err != nil {
		t.Fatalf("Start should not fail synchronously for a missing binary: %v", err)
	}

	res := c.wait(t, 10*time.Second)
	if res.Err == nil {
		t.Fatal("Err = nil, want launch error")
	}
	if !strings.Contains(res.Err.Error(), "/nonexistent/hemtt-binary-xyz") {
		t.Errorf("Err = %v, want to name the executable", res.Err)
	}
	if res.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", res.ExitCode)
	}
	if lines := c.gotLines(); len(lines) != 0 {
		t.Errorf("lines = %q, want none", lines)
	}
	if n := c.doneCount.Load(); n != 1 {
		t.Errorf("done fired %d times, want 1", n)
	}
	if r.IsRunning(h) {
		t.Error("IsRunning = true after launch failure")
	}
}

func TestStartWhileActiveIsRejected(t *testing.T) {
	r := &Runner{GracePeriod: time.Second}
	c := newCapture()

	h, err := r.Start(shSpec("sleep 30"), c.onLine, c.onDone)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !r.IsRunning(h) {
		t.Error("IsRunning = false for an active run")
	}

	if _, err := r.Start(shSpec("echo nope"), nil, nil); !errors.Is(err, ErrBusy) {
		t.Errorf("second Start err = %v, want ErrBusy", err)
	}

	r.Cancel(h)
	c.wait(t, 10*time.Second)
}

func TestCancelLongRunningProcess(t *testing.T) {
	r := &Runner{GracePeriod: time.Second}
	c := newCapture()

	h, err := r.Start(shSpec("sleep 30"), c.onLine, c.onDone)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	r.Cancel(h)

	// Must finish within the grace period plus a bounded margin.
	res := c.wait(t, r.GracePeriod+5*time.Second)
	if !res.Cancelled {
		t.Error("Cancelled = false, want true")
	}
	if res.ExitCode == 0 {
		t.Errorf("ExitCode = 0, want signal exit")
	}
}

func TestCancelIdempotent(t *testing.T) {
	r := &Runner{GracePeriod: time.Second}
	c := newCapture()

	h, err := r.Start(shSpec("sleep 30"), c.onLine, c.onDone)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	r.Cancel(h)
	r.Cancel(h)
	c.wait(t, 10*time.Second)

	// Cancel after completion is a no-op.
	r.Cancel(h)
	if n := c.doneCount.Load(); n != 1 {
		t.Errorf("done fired %d times, want 1", n)
	}
}

func TestCancelIgnoresKillResistantGrandchildDelay(t *testing.T) {
	// The child traps SIGTERM; only the SIGKILL escalation ends it.
	r := &Runner{GracePeriod: 500 * time.Millisecond}
	c := newCapture()

	h, err := r.Start(shSpec(`trap '' TERM; sleep 30`), c.onLine, c.onDone)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	r.Cancel(h)

	res := c.wait(t, 10*time.Second)
	if !res.Cancelled {
		t.Error("Cancelled = false, want true")
	}
}

func TestSequentialRunsDoNotOverlap(t *testing.T) {
	r := &Runner{}

	c1 := newCapture()
	if _, err := r.Start(shSpec(`printf 'first-1\nfirst-2\n'`), c1.onLine, c1.onDone); err != nil {
		t.Fatalf("Start 1: %v", err)
	}
	c1.wait(t, 10*time.Second)

	c2 := newCapture()
	if _, err := r.Start(shSpec(`printf 'second-1\n'`), c2.onLine, c2.onDone); err != nil {
		t.Fatalf("Start 2: %v", err)
	}
	c2.wait(t, 10*time.Second)

	for _, line := range c1.gotLines() {
		if strings.HasPrefix(line, "second") {
			t.Errorf("run 1 received run 2 output: %q", line)
		}
	}
	for _, line := range c2.gotLines() {
		if strings.HasPrefix(line, "first") {
			t.Errorf("run 2 received run 1 output: %q", line)
		}
	}
}

func TestHandleDoneChannel(t *testing.T) {
	r := &Runner{}
	c := newCapture()

	h, err := r.Start(shSpec("true"), c.onLine, c.onDone)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case <-h.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("Done channel never closed")
	}
	c.wait(t, time.Second)
}
