//go:build !windows

package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/steveyegge/iris/internal/script"
)

// termGrace is how long a terminated process gets between SIGTERM and
// SIGKILL.
const termGrace = 100 * time.Millisecond

// proc is one row of the process table.
type proc struct {
	PID  int
	PPID int
	// Title is argv[0] where the platform exposes it, otherwise the full
	// argument string.
	Title string
	Args  string
	// joined is set when Title is the full argument string rather than
	// argv[0] alone.
	joined bool
}

func (p proc) matches(f TitleFilter) bool {
	if f.Matches(p.Title) {
		return true
	}
	if p.joined && f.Op == Equals {
		return strings.HasPrefix(strings.ToLower(p.Title), strings.ToLower(f.Value)+" ")
	}
	return false
}

// unixHost runs consoles as `sh` processes whose argv[0] is the tagged
// title, optionally inside a terminal emulator. Without a terminal the
// console has no stdin, so it cannot be typed into after its last command;
// it idles until stopped.
type unixHost struct {
	run      Runner
	log      *slog.Logger
	terminal []string
	procRoot string
	self     int
	grace    time.Duration
	list     func(ctx context.Context) ([]proc, error)
	signal   func(pid int, sig syscall.Signal) error
}

func newHost(opts Options) Host {
	h := &unixHost{
		run:      opts.Runner,
		log:      opts.Logger,
		terminal: opts.Terminal,
		procRoot: "/proc",
		self:     os.Getpid(),
		grace:    termGrace,
		signal:   unix.Kill,
	}
	h.list = h.listProcesses
	return h
}

// configureHelper is a no-op on Unix; helper commands have no window.
func configureHelper(*exec.Cmd) {}

func (h *unixHost) Dialect() script.Dialect { return script.Shell }

// spawnArgv builds the command that runs the script with argv[0] set to
// the console title.
func (h *unixHost) spawnArgv(req SpawnRequest) []string {
	argv := append([]string{}, h.terminal...)
	return append(argv, "bash", "-c", `exec -a "$0" /bin/sh "$1"`, req.Title, req.ScriptPath)
}

func (h *unixHost) Spawn(_ context.Context, req SpawnRequest) (Handle, error) {
	argv := h.spawnArgv(req)
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = req.WorkingDir
	// Detach from our process group so the console outlives us.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting console for %s: %w", req.ScriptPath, err)
	}
	go func() { _ = cmd.Wait() }()
	return processHandle{proc: cmd.Process}, nil
}

func (h *unixHost) FindByTitle(ctx context.Context, f TitleFilter) ([]int, error) {
	procs, err := h.list(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}
	var pids []int
	for _, p := range procs {
		if p.PID != h.self && p.matches(f) {
			pids = append(pids, p.PID)
		}
	}
	sort.Ints(pids)
	return pids, nil
}

func (h *unixHost) KillByTitle(ctx context.Context, f TitleFilter) error {
	pids, err := h.FindByTitle(ctx, f)
	if err != nil {
		return err
	}
	var errs []error
	for _, pid := range pids {
		errs = append(errs, h.Terminate(ctx, pid, false))
	}
	return errors.Join(errs...)
}

// Terminate sends SIGTERM, waits briefly, then SIGKILL. With tree set the
// descendants are signalled before pid itself.
func (h *unixHost) Terminate(ctx context.Context, pid int, tree bool) error {
	var targets []int
	if tree {
		procs, err := h.list(ctx)
		if err != nil {
			h.log.Debug("listing processes for tree kill", "pid", pid, "err", err)
		} else {
			targets = descendants(procs, pid)
		}
	}
	targets = append(targets, pid)

	for _, p := range targets {
		_ = h.signal(p, unix.SIGTERM)
	}
	select {
	case <-ctx.Done():
	case <-time.After(h.grace):
	}
	var err error
	for _, p := range targets {
		if kerr := h.signal(p, unix.SIGKILL); kerr != nil && p == pid && !errors.Is(kerr, unix.ESRCH) {
			err = fmt.Errorf("killing pid %d: %w", pid, kerr)
		}
	}
	return err
}

func (h *unixHost) KillByCommandLine(ctx context.Context, substr string) error {
	procs, err := h.list(ctx)
	if err != nil {
		return fmt.Errorf("listing processes: %w", err)
	}
	var errs []error
	for _, p := range procs {
		if p.PID != h.self && strings.Contains(p.Args, substr) {
			errs = append(errs, h.Terminate(ctx, p.PID, false))
		}
	}
	return errors.Join(errs...)
}

// Alive probes pid with signal 0. EPERM still means the process exists.
func (h *unixHost) Alive(_ context.Context, pid int) (bool, error) {
	err := h.signal(pid, 0)
	switch {
	case err == nil, errors.Is(err, unix.EPERM):
		return true, nil
	case errors.Is(err, unix.ESRCH):
		return false, nil
	}
	return false, err
}

// descendants returns every transitive child of root, breadth first.
func descendants(procs []proc, root int) []int {
	children := make(map[int][]int)
	for _, p := range procs {
		children[p.PPID] = append(children[p.PPID], p.PID)
	}
	var out []int
	seen := map[int]bool{root: true}
	queue := []int{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range children[cur] {
			if seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
			queue = append(queue, c)
		}
	}
	return out
}
