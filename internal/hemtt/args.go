// Package hemtt translates option sets into hemtt argument lists.
package hemtt

import (
	"strconv"
	"strings"
)

// GlobalOptions apply to every hemtt subcommand.
type GlobalOptions struct {
	Verbose bool
	Threads int
}

func (o GlobalOptions) args() []string {
	var args []string
	if o.Verbose {
		args = append(args, "-v")
	}
	if o.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(o.Threads))
	}
	return args
}

// CheckOptions configure 'hemtt check'.
type CheckOptions struct {
	Pedantic bool
	Lints    []string
}

// BuildOptions configure 'hemtt dev' and 'hemtt build'.
// Just is dev/build only; the rest are shared with launch.
type BuildOptions struct {
	Binarize     bool
	NoRap        bool
	AllOptionals bool
	Optionals    []string
	Just         []string
}

// ReleaseOptions configure 'hemtt release'.
type ReleaseOptions struct {
	NoBinarize bool
	NoRap      bool
	NoSign     bool
	NoArchive  bool
}

// LaunchOptions configure 'hemtt launch'.
type LaunchOptions struct {
	Profile        string // omitted when empty or "default"
	Quick          bool
	NoFilePatching bool
	Binarize       bool
	AllOptionals   bool
	NoRap          bool
	Executable     string
	Instances      int // omitted when 0 or 1
	Optionals      []string
	Passthrough    []string // forwarded to the game after --
}

// WithGlobals builds a plain subcommand argv: the given words followed by
// the global flags. Used for ln sort, ln coverage, utils fnl, and custom
// passthrough runs.
func WithGlobals(g GlobalOptions, words ...string) []string {
	return append(append([]string{}, words...), g.args()...)
}

// CheckArgs builds the argv for 'hemtt check'.
func CheckArgs(g GlobalOptions, o CheckOptions) []string {
	args := append([]string{"check"}, g.args()...)
	if o.Pedantic {
		args = append(args, "-p")
	}
	for _, lint := range o.Lints {
		args = append(args, "-L", lint)
	}
	return args
}

// BuildArgs builds the argv for 'hemtt dev' or 'hemtt build'.
func BuildArgs(subcommand string, g GlobalOptions, o BuildOptions) []string {
	args := append([]string{subcommand}, g.args()...)
	if o.Binarize {
		args = append(args, "-b")
	}
	if o.NoRap {
		args = append(args, "--no-rap")
	}
	if o.AllOptionals {
		args = append(args, "-O")
	}
	for _, opt := range o.Optionals {
		args = append(args, "-o", opt)
	}
	for _, j := range o.Just {
		args = append(args, "--just", j)
	}
	return args
}

// ReleaseArgs builds the argv for 'hemtt release'.
func ReleaseArgs(g GlobalOptions, o ReleaseOptions) []string {
	args := append([]string{"release"}, g.args()...)
	if o.NoBinarize {
		args = append(args, "--no-bin")
	}
	if o.NoRap {
		args = append(args, "--no-rap")
	}
	if o.NoSign {
		args = append(args, "--no-sign")
	}
	if o.NoArchive {
		args = append(args, "--no-archive")
	}
	return args
}

// LaunchArgs builds the argv for 'hemtt launch'. Passthrough arguments
// always come last, after the -- separator.
func LaunchArgs(g GlobalOptions, o LaunchOptions) []string {
	args := []string{"launch"}
	if o.Profile != "" && o.Profile != "default" {
		args = append(args, o.Profile)
	}
	args = append(args, g.args()...)
	if o.Quick {
		args = append(args, "-Q")
	}
	if o.NoFilePatching {
		args = append(args, "-F")
	}
	if o.Binarize {
		args = append(args, "-b")
	}
	if o.AllOptionals {
		args = append(args, "-O")
	}
	if o.NoRap {
		args = append(args, "--no-rap")
	}
	if o.Executable != "" {
		args = append(args, "-e", o.Executable)
	}
	if o.Instances > 1 {
		args = append(args, "-i", strconv.Itoa(o.Instances))
	}
	for _, opt := range o.Optionals {
		args = append(args, "-o", opt)
	}
	if len(o.Passthrough) > 0 {
		args = append(args, "--")
		args = append(args, o.Passthrough...)
	}
	return args
}

// SplitList parses a comma-separated option value, trimming whitespace
// and dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
