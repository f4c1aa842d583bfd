package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/steveyegge/iris/internal/tui/dashboard"
	"github.com/steveyegge/iris/internal/ui"
)

var uiCmd = &cobra.Command{
	Use:     "ui",
	GroupID: GroupSessions,
	Short:   "Open the dashboard",
	Long: `Open the dashboard: every application with its state, refreshed
continuously. Consoles that close on their own drop off the list.

Keys: enter start, s stop, r restart, x stop all, / filter, ? help, q quit.
Quitting leaves running consoles open; use 'iris stop' or 'iris cleanup'
to close them later.`,
	Args: cobra.NoArgs,
	RunE: runUI,
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

func runUI(cmd *cobra.Command, args []string) error {
	if !ui.CanRunDashboard() {
		return fmt.Errorf("the dashboard needs an interactive terminal; see 'iris --help' for commands")
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	st := e.loadApps()
	reg := e.registry(cmd.Context(), st)
	m := dashboard.New(reg, st.Apps, dashboard.Options{
		Logger: e.log,
		Tick:   e.settings.Tick(),
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	// Let launches that are still settling record their consoles.
	reg.Wait()
	return err
}
