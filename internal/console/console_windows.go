//go:build windows

package console

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"

	"github.com/steveyegge/iris/internal/script"
)

type windowsHost struct {
	run Runner
	log *slog.Logger
}

func newHost(opts Options) Host {
	return &windowsHost{run: opts.Runner, log: opts.Logger}
}

// configureHelper keeps helper commands from flashing a console window.
func configureHelper(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
}

func (h *windowsHost) Dialect() script.Dialect { return script.Batch }

// Spawn asks cmd.exe to "start" the batch file, which opens it in a new
// console window. The returned handle is the short-lived shim.
func (h *windowsHost) Spawn(_ context.Context, req SpawnRequest) (Handle, error) {
	cmd := exec.Command("cmd", "/C", "start", "", req.ScriptPath)
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting console for %s: %w", req.ScriptPath, err)
	}
	go func() { _ = cmd.Wait() }()
	return processHandle{proc: cmd.Process}, nil
}

func (h *windowsHost) FindByTitle(ctx context.Context, f TitleFilter) ([]int, error) {
	out, err := h.run.Run(ctx, "powershell", powershellArgs(findByTitleScript(f))...)
	if err != nil {
		return nil, fmt.Errorf("listing consoles (%s): %w", f, err)
	}
	return parsePIDs(out), nil
}

func (h *windowsHost) KillByTitle(ctx context.Context, f TitleFilter) error {
	args, err := taskkillTitleArgs(f)
	if err != nil {
		pids, ferr := h.FindByTitle(ctx, f)
		if ferr != nil {
			return ferr
		}
		for _, pid := range pids {
			_ = h.Terminate(ctx, pid, false)
		}
		return nil
	}
	h.log.Debug("taskkill by title", "filter", f.String())
	_, err = h.run.Run(ctx, "taskkill", args...)
	return err
}

func (h *windowsHost) Terminate(ctx context.Context, pid int, tree bool) error {
	_, err := h.run.Run(ctx, "taskkill", taskkillPIDArgs(pid, tree)...)
	return err
}

func (h *windowsHost) KillByCommandLine(ctx context.Context, substr string) error {
	_, err := h.run.Run(ctx, "powershell", powershellArgs(killCommandLineScript(substr))...)
	return err
}

func (h *windowsHost) Alive(ctx context.Context, pid int) (bool, error) {
	out, err := h.run.Run(ctx, "tasklist", tasklistArgs(pid)...)
	if err != nil {
		return false, err
	}
	return tasklistShowsConsole(out), nil
}
