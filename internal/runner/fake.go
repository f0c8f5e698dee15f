package runner

import (
	"strings"
	"sync"
)

// Call records a single invocation of Start.
type Call struct {
	Exe  string
	Args []string
	Dir  string
}

func (c Call) String() string {
	return c.Exe + " " + strings.Join(c.Args, " ")
}

// Script is a pre-configured outcome for a FakeRunner run.
type Script struct {
	Lines    []string
	ExitCode int
	Err      error // delivered as a launch failure; Lines are then ignored
}

// FakeRunner records Start calls and plays back scripted output on a
// background goroutine, preserving the real runner's callback ordering
// (all lines, then exactly one done). Exported for use by command tests.
type FakeRunner struct {
	mu       sync.Mutex
	Calls    []Call
	scripts  map[string]Script // key: "exe arg1 arg2...", "exe arg1", or "exe"
	fallback Script
}

// NewFakeRunner creates a FakeRunner whose unmatched runs exit 0 silently.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{scripts: make(map[string]Script)}
}

// SetScript configures the outcome for a specific command string.
func (f *FakeRunner) SetScript(cmd string, s Script) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts[cmd] = s
}

// SetFallback sets the outcome for unmatched commands.
func (f *FakeRunner) SetFallback(s Script) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fallback = s
}

// Start records the call and delivers the matching script asynchronously.
func (f *FakeRunner) Start(spec Spec, onLine LineFunc, onDone DoneFunc) (*Handle, error) {
	if spec.Exe == "" {
		return nil, ErrEmptySpec
	}
	if onLine == nil {
		onLine = func(string) {}
	}
	if onDone == nil {
		onDone = func(Result) {}
	}

	call := Call{Exe: spec.Exe, Args: spec.Args, Dir: spec.Dir}

	f.mu.Lock()
	f.Calls = append(f.Calls, call)
	script := f.match(call)
	f.mu.Unlock()

	h := newHandle(defaultGracePeriod)
	go func() {
		res := Result{RunID: h.id, Started: h.started}
		if script.Err != nil {
			res.Err = script.Err
			res.ExitCode = -1
		} else {
			for _, line := range script.Lines {
				onLine(line)
			}
			res.ExitCode = script.ExitCode
		}
		res.Cancelled = h.cancelled.Load()
		close(h.done)
		onDone(res)
	}()
	return h, nil
}

// Cancel sets the handle's cancellation flag. The scripted run still
// completes, reporting Cancelled in its result.
func (f *FakeRunner) Cancel(h *Handle) {
	if h != nil {
		h.cancelled.Store(true)
	}
}

// IsRunning reports whether the scripted run has finished yet.
func (f *FakeRunner) IsRunning(h *Handle) bool {
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

// match resolves a script for the call: full command string first, then
// exe plus first argument, then bare exe, then the fallback.
func (f *FakeRunner) match(call Call) Script {
	if s, ok := f.scripts[call.String()]; ok {
		return s
	}
	if len(call.Args) > 0 {
		if s, ok := f.scripts[call.Exe+" "+call.Args[0]]; ok {
			return s
		}
	}
	if s, ok := f.scripts[call.Exe]; ok {
		return s
	}
	return f.fallback
}

// Called returns true if a command matching the prefix was recorded.
func (f *FakeRunner) Called(prefix string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Calls {
		if strings.HasPrefix(c.String(), prefix) {
			return true
		}
	}
	return false
}

// Reset clears all recorded calls.
func (f *FakeRunner) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = nil
}

var _ Interface = (*FakeRunner)(nil)
var _ Interface = (*Runner)(nil)
