package dashboard

import "github.com/charmbracelet/lipgloss"

var (
	colorRunning = lipgloss.Color("76")  // green
	colorLoading = lipgloss.Color("214") // orange
	colorAccent  = lipgloss.Color("39")  // blue
	colorMuted   = lipgloss.Color("242") // gray
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	runningStyle = lipgloss.NewStyle().
			Foreground(colorRunning).
			Bold(true)

	loadingStyle = lipgloss.NewStyle().
			Foreground(colorLoading)

	stoppedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	selectedStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	filterStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)
)
