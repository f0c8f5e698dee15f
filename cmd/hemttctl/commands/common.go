package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hemtt-tools/hemttctl/internal/config"
	"github.com/hemtt-tools/hemttctl/internal/hemtt"
	"github.com/hemtt-tools/hemttctl/internal/history"
	"github.com/hemtt-tools/hemttctl/internal/runner"
)

// ExitCodeError carries the wrapped tool's exit status so main can
// propagate it to the hemttctl process exit code.
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("hemtt exited with code %d", e.Code)
}

// session carries everything a run command needs: effective config,
// shared hemtt flags, output writers, and the command runner.
type session struct {
	cfg     *config.Config
	global  hemtt.GlobalOptions
	logPath string
	out     io.Writer
	errOut  io.Writer
	runner  runner.Interface
}

// newSession loads config and applies the persistent flag overrides.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if p, _ := cmd.Flags().GetString("project"); p != "" {
		cfg.Paths.ProjectDir = p
	}
	if h, _ := cmd.Flags().GetString("hemtt"); h != "" {
		cfg.Paths.Hemtt = h
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	threads, _ := cmd.Flags().GetInt("threads")
	logPath, _ := cmd.Flags().GetString("log-file")

	return &session{
		cfg:     cfg,
		global:  hemtt.GlobalOptions{Verbose: verbose, Threads: threads},
		logPath: logPath,
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
		runner:  &runner.Runner{},
	}, nil
}

// resolveHemtt validates the project directory and locates the hemtt
// executable: explicit paths must exist, bare names go through PATH.
// Relative paths are anchored to the project directory, since that is
// where the child runs; resolving them here keeps the validation and the
// spawn in agreement whatever hemttctl's own working directory is.
func (s *session) resolveHemtt() (string, error) {
	info, err := os.Stat(s.cfg.Paths.ProjectDir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("project directory not found: %s", s.cfg.Paths.ProjectDir)
	}

	exe := s.cfg.Paths.Hemtt
	if strings.ContainsRune(exe, os.PathSeparator) {
		if !filepath.IsAbs(exe) {
			exe = filepath.Join(s.cfg.Paths.ProjectDir, exe)
		}
		if _, err := os.Stat(exe); err != nil {
			return "", fmt.Errorf("hemtt executable not found: %s", exe)
		}
		return exe, nil
	}

	resolved, err := exec.LookPath(exe)
	if err != nil {
		return "", fmt.Errorf("%q not found in PATH; run 'hemttctl install' or set paths.hemtt", exe)
	}
	return resolved, nil
}

// run streams one hemtt invocation to the output writer, handles Ctrl-C
// cancellation, records the run in the history store, and maps the child's
// exit status onto the returned error.
func (s *session) run(ctx context.Context, hemttArgs []string) error {
	exe, err := s.resolveHemtt()
	if err != nil {
		return err
	}

	var logFile *os.File
	if s.logPath != "" {
		logFile, err = os.OpenFile(s.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer logFile.Close()
	}

	fmt.Fprintf(s.out, "$ hemtt %s\n", strings.Join(hemttArgs, " "))

	resCh := make(chan runner.Result, 1)
	onLine := func(line string) {
		fmt.Fprintln(s.out, line)
		if logFile != nil {
			fmt.Fprintln(logFile, line)
		}
	}
	onDone := func(res runner.Result) { resCh <- res }

	h, err := s.runner.Start(runner.Spec{
		Exe:  exe,
		Args: hemttArgs,
		Dir:  s.cfg.Paths.ProjectDir,
	}, onLine, onDone)
	if err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	var res runner.Result
wait:
	for {
		select {
		case <-sig:
			fmt.Fprintln(s.out, "[cancelling]")
			s.runner.Cancel(h)
		case res = <-resCh:
			break wait
		}
	}

	s.record(ctx, exe, hemttArgs, res)

	switch {
	case res.Err != nil:
		return res.Err
	case res.Cancelled:
		fmt.Fprintln(s.out, "[cancelled]")
		return &ExitCodeError{Code: 130}
	case res.ExitCode != 0:
		fmt.Fprintf(s.out, "[hemtt exited with code %d]\n", res.ExitCode)
		return &ExitCodeError{Code: res.ExitCode}
	default:
		fmt.Fprintf(s.out, "[done in %s]\n", res.Duration.Round(time.Millisecond))
		return nil
	}
}

// record appends the run to the history store, best-effort: a broken
// store warns but never fails the run itself.
func (s *session) record(ctx context.Context, exe string, args []string, res runner.Result) {
	if s.cfg.History.Disabled {
		return
	}

	store, err := history.Open(s.cfg.History.DB)
	if err != nil {
		fmt.Fprintf(s.errOut, "warning: history unavailable: %v\n", err)
		return
	}
	defer store.Close()

	entry := &history.Run{
		RunID:      res.RunID,
		Command:    exe,
		Args:       args,
		ProjectDir: s.cfg.Paths.ProjectDir,
		ExitCode:   res.ExitCode,
		Cancelled:  res.Cancelled,
		StartedAt:  res.Started,
		Duration:   res.Duration,
	}
	if res.Err != nil {
		entry.LaunchError = res.Err.Error()
	}

	if err := store.Append(ctx, entry); err != nil {
		fmt.Fprintf(s.errOut, "warning: recording run: %v\n", err)
	}
}
