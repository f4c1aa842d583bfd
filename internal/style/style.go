// Package style holds the terminal styles and table renderer shared by the
// CLI and the dashboard.
package style

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	Green  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	Yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	Red    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	Cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	Success = Green.Bold(true)
	Warning = Yellow.Bold(true)
	Error   = Red.Bold(true)
	Info    = Cyan
	Bold    = lipgloss.NewStyle().Bold(true)
	Dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Status prefixes for one-line results.
var (
	SuccessPrefix = Success.Render("✓")
	WarningPrefix = Warning.Render("⚠")
	ErrorPrefix   = Error.Render("✗")
	ArrowPrefix   = Info.Render("→")
)

// Init sets the color profile. With color off every style renders plain
// text.
func Init(useColor bool) {
	if !useColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	SuccessPrefix = Success.Render("✓")
	WarningPrefix = Warning.Render("⚠")
	ErrorPrefix = Error.Render("✗")
	ArrowPrefix = Info.Render("→")
}

// PrintWarning prints a formatted warning to stderr.
func PrintWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", WarningPrefix, fmt.Sprintf(format, args...))
}
