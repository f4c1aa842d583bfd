// Package console abstracts the operating system's view of console windows:
// opening a detached console that runs a script, finding consoles by their
// window title, and terminating them.
//
// There is one binding per platform. The Windows binding is the real one;
// the Unix binding approximates a console title with the host process's
// argv[0]. Double is an in-memory fake for tests.
package console

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/steveyegge/iris/internal/script"
)

// ErrUnsupported is returned by operations a binding cannot perform.
var ErrUnsupported = errors.New("operation not supported on this platform")

// Handle is the process handle returned by Spawn. It refers to the shim
// that asked the OS to open the console, not to the console itself, and is
// only good for a last-resort kill.
type Handle interface {
	Kill() error
}

// SpawnRequest describes a console to open.
type SpawnRequest struct {
	// ScriptPath is the synthesized script to run.
	ScriptPath string
	// Title is the tagged console title the script sets.
	Title string
	// WorkingDir is informational; the script changes directory itself.
	WorkingDir string
}

// Host is the set of OS capabilities the session registry needs.
// All termination methods are best-effort; callers are expected to ignore
// their errors.
type Host interface {
	// Dialect is the script dialect consoles on this host run.
	Dialect() script.Dialect

	// Spawn opens a detached console running req.ScriptPath.
	Spawn(ctx context.Context, req SpawnRequest) (Handle, error)

	// FindByTitle returns the PIDs of console processes whose title
	// matches f, in the order the OS reports them.
	FindByTitle(ctx context.Context, f TitleFilter) ([]int, error)

	// KillByTitle terminates console processes whose title matches f.
	KillByTitle(ctx context.Context, f TitleFilter) error

	// Terminate kills pid, and its descendants when tree is set.
	Terminate(ctx context.Context, pid int, tree bool) error

	// KillByCommandLine terminates any process whose command line
	// contains substr.
	KillByCommandLine(ctx context.Context, substr string) error

	// Alive reports whether pid is still a live console process.
	Alive(ctx context.Context, pid int) (bool, error)
}

// Options configures the native binding.
type Options struct {
	// Runner executes helper commands (tasklist, taskkill, ps).
	// Defaults to OSRunner.
	Runner Runner

	// Terminal is an argv prefix used on Unix to open a visible terminal
	// window, e.g. ["x-terminal-emulator", "-e"]. Empty runs the console
	// host without a window. Ignored on Windows.
	Terminal []string

	Logger *slog.Logger
}

// New returns the binding for the current platform.
func New(opts Options) Host {
	if opts.Runner == nil {
		opts.Runner = OSRunner{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return newHost(opts)
}

// Runner executes a helper command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// OSRunner runs helper commands as real subprocesses without a window.
type OSRunner struct{}

// Run implements Runner.
func (OSRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	configureHelper(cmd)
	return cmd.CombinedOutput()
}

// processHandle adapts an *os.Process to Handle.
type processHandle struct {
	proc *os.Process
}

func (h processHandle) Kill() error {
	if h.proc == nil {
		return nil
	}
	return h.proc.Kill()
}

// MatchOp selects how a TitleFilter compares titles.
type MatchOp int

const (
	// Equals matches the whole title.
	Equals MatchOp = iota
	// HasPrefix matches titles starting with the value.
	HasPrefix
	// Like matches a glob where '*' stands for any run of characters.
	Like
)

func (op MatchOp) String() string {
	switch op {
	case Equals:
		return "eq"
	case HasPrefix:
		return "prefix"
	case Like:
		return "like"
	default:
		return "unknown"
	}
}

// TitleFilter selects consoles by window title. Comparisons are
// case-insensitive, as they are for Windows window-title filters.
type TitleFilter struct {
	Op    MatchOp
	Value string
}

// TitleEquals matches titles equal to v.
func TitleEquals(v string) TitleFilter { return TitleFilter{Op: Equals, Value: v} }

// TitlePrefix matches titles that start with v.
func TitlePrefix(v string) TitleFilter { return TitleFilter{Op: HasPrefix, Value: v} }

// TitleLike matches titles against a '*' glob.
func TitleLike(pattern string) TitleFilter { return TitleFilter{Op: Like, Value: pattern} }

func (f TitleFilter) String() string {
	return f.Op.String() + " " + f.Value
}

// Matches reports whether title satisfies the filter.
func (f TitleFilter) Matches(title string) bool {
	t := strings.ToLower(title)
	v := strings.ToLower(f.Value)
	switch f.Op {
	case Equals:
		return t == v
	case HasPrefix:
		return strings.HasPrefix(t, v)
	case Like:
		return globMatch(v, t)
	}
	return false
}

// globMatch matches s against pattern where '*' is the only wildcard.
func globMatch(pattern, s string) bool {
	parts := strings.Split(pattern, "*")
	if len(parts) == 1 {
		return pattern == s
	}
	if !strings.HasPrefix(s, parts[0]) {
		return false
	}
	s = s[len(parts[0]):]
	last := parts[len(parts)-1]
	for _, p := range parts[1 : len(parts)-1] {
		i := strings.Index(s, p)
		if i < 0 {
			return false
		}
		s = s[i+len(p):]
	}
	return strings.HasSuffix(s, last)
}
