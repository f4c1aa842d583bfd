// Package ui decides how output should be decorated for the current
// terminal.
package ui

import (
	"os"

	"golang.org/x/term"
)

// EnvNoEmoji disables emoji status glyphs when set.
const EnvNoEmoji = "IRIS_NO_EMOJI"

var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsTerminal returns true if stdout is connected to a terminal (TTY).
func IsTerminal() bool {
	return isTerminal()
}

// ShouldUseColor determines if ANSI color codes should be used.
// Respects NO_COLOR (https://no-color.org/), CLICOLOR, and CLICOLOR_FORCE conventions.
func ShouldUseColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	if _, exists := os.LookupEnv("CLICOLOR_FORCE"); exists {
		return true
	}
	return IsTerminal()
}

// ShouldUseEmoji reports whether status glyphs should be printed.
func ShouldUseEmoji() bool {
	if _, exists := os.LookupEnv(EnvNoEmoji); exists {
		return false
	}
	return IsTerminal()
}

// CanRunDashboard reports whether both stdin and stdout are terminals.
func CanRunDashboard() bool {
	return IsTerminal() && term.IsTerminal(int(os.Stdin.Fd()))
}
