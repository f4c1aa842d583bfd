//go:build linux

package console

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// listProcesses scans <procRoot>/*/cmdline. The title is argv[0] exactly.
func (h *unixHost) listProcesses(_ context.Context) ([]proc, error) {
	entries, err := filepath.Glob(filepath.Join(h.procRoot, "[0-9]*", "cmdline"))
	if err != nil {
		return nil, err
	}

	var procs []proc
	for _, entry := range entries {
		dir := filepath.Dir(entry)
		pid, err := strconv.Atoi(filepath.Base(dir))
		if err != nil {
			continue
		}
		data, err := os.ReadFile(entry)
		if err != nil || len(data) == 0 {
			// Exited, or a kernel thread.
			continue
		}
		args := strings.Split(strings.TrimRight(string(data), "\x00"), "\x00")
		procs = append(procs, proc{
			PID:   pid,
			PPID:  readPPID(filepath.Join(dir, "stat")),
			Title: args[0],
			Args:  strings.Join(args, " "),
		})
	}
	return procs, nil
}

// readPPID parses the fourth field of /proc/<pid>/stat. The command name
// in field two may contain spaces and parentheses, so parsing starts after
// the last ')'.
func readPPID(statPath string) int {
	data, err := os.ReadFile(statPath)
	if err != nil {
		return 0
	}
	s := string(data)
	i := strings.LastIndexByte(s, ')')
	if i < 0 {
		return 0
	}
	fields := strings.Fields(s[i+1:])
	if len(fields) < 2 {
		return 0
	}
	ppid, _ := strconv.Atoi(fields[1])
	return ppid
}
