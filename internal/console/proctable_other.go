//go:build !linux && !windows

package console

import (
	"bufio"
	"bytes"
	"context"
	"strconv"
	"strings"
)

// listProcesses parses `ps`. Without /proc, argv[0] cannot be separated
// from the rest of the arguments, so titles are matched as prefixes.
func (h *unixHost) listProcesses(ctx context.Context) ([]proc, error) {
	out, err := h.run.Run(ctx, "ps", "-axww", "-o", "pid=,ppid=,args=")
	if err != nil {
		return nil, err
	}
	return parsePS(out), nil
}

func parsePS(out []byte) []proc {
	var procs []proc
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 {
			continue
		}
		pid, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		ppid, _ := strconv.Atoi(fields[1])
		args := strings.Join(fields[2:], " ")
		procs = append(procs, proc{PID: pid, PPID: ppid, Title: args, Args: args, joined: true})
	}
	return procs
}
