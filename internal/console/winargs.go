package console

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Helper command lines for the Windows binding. They live in an untagged
// file so the quoting rules are exercised on every platform.

// taskkillTitleArgs builds the taskkill arguments for a title filter.
// taskkill only understands a trailing '*', so Like filters are rejected.
func taskkillTitleArgs(f TitleFilter) ([]string, error) {
	switch f.Op {
	case Equals:
		return []string{"/F", "/FI", "WINDOWTITLE eq " + f.Value}, nil
	case HasPrefix:
		return []string{"/F", "/FI", "WINDOWTITLE eq " + f.Value + "*"}, nil
	}
	return nil, fmt.Errorf("taskkill cannot express %s filter", f.Op)
}

// taskkillPIDArgs builds the taskkill arguments for a single PID.
func taskkillPIDArgs(pid int, tree bool) []string {
	args := []string{"/F"}
	if tree {
		args = append(args, "/T")
	}
	return append(args, "/PID", strconv.Itoa(pid))
}

// tasklistArgs queries one PID in headerless CSV form.
func tasklistArgs(pid int) []string {
	return []string{"/FI", fmt.Sprintf("PID eq %d", pid), "/FO", "CSV", "/NH"}
}

// tasklistShowsConsole reports whether tasklist output lists a console
// host. A missing PID yields an informational line instead of a CSV row.
func tasklistShowsConsole(out []byte) bool {
	return bytes.Contains(bytes.ToLower(out), []byte("cmd.exe"))
}

// powershellArgs wraps a script for a non-interactive powershell call.
func powershellArgs(script string) []string {
	return []string{"-NoProfile", "-NonInteractive", "-Command", script}
}

// findByTitleScript lists cmd.exe PIDs whose main window title matches f.
func findByTitleScript(f TitleFilter) string {
	var cond string
	switch f.Op {
	case Equals:
		cond = "$_.MainWindowTitle -eq " + psQuote(f.Value)
	case HasPrefix:
		cond = "$_.MainWindowTitle -like " + psQuote(psLikeEscape(f.Value)+"*")
	default:
		cond = "$_.MainWindowTitle -like " + psQuote(psGlob(f.Value))
	}
	return "Get-Process -Name cmd -ErrorAction SilentlyContinue | " +
		"Where-Object { " + cond + " } | " +
		"Select-Object -ExpandProperty Id"
}

// killCommandLineScript terminates every process whose command line
// contains substr.
func killCommandLineScript(substr string) string {
	pattern := "*" + psLikeEscape(substr) + "*"
	return "Get-CimInstance Win32_Process -ErrorAction SilentlyContinue | " +
		"Where-Object { $_.CommandLine -like " + psQuote(pattern) + " } | " +
		"Invoke-CimMethod -MethodName Terminate | Out-Null"
}

// psQuote renders s as a single-quoted PowerShell string.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// psLikeEscape escapes the -like wildcard characters in s.
func psLikeEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '`', '[', ']', '*', '?':
			b.WriteByte('`')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// psGlob converts a '*' glob into a -like pattern, escaping everything
// else.
func psGlob(pattern string) string {
	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = psLikeEscape(p)
	}
	return strings.Join(parts, "*")
}

// parsePIDs reads one integer per line, skipping anything else.
func parsePIDs(out []byte) []int {
	var pids []int
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		pid, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
		if err != nil || pid <= 0 {
			continue
		}
		pids = append(pids, pid)
	}
	return pids
}
