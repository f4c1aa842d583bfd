package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/iris/internal/style"
)

var cleanupCmd = &cobra.Command{
	Use:     "cleanup",
	GroupID: GroupSessions,
	Short:   "Kill consoles left behind by earlier runs",
	Long: `Kill every console iris has recorded, whether or not the application
is still registered.

Use this after the dashboard crashed or was killed, or after removing an
application whose console was still open. Entries for consoles that have
already closed are simply forgotten.`,
	Args: cobra.NoArgs,
	RunE: runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	killed, errIDs := e.tracker().KillTracked(cmd.Context(), e.host())
	e.log.Info("cleanup", "killed", killed, "failed", len(errIDs))

	for _, msg := range errIDs {
		style.PrintWarning("%s", msg)
	}
	if killed == 0 {
		fmt.Println("No tracked consoles were running.")
		return nil
	}
	fmt.Printf("%s Killed %d console(s)\n", style.SuccessPrefix, killed)
	return nil
}
