package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/iris/internal/apps"
	"github.com/steveyegge/iris/internal/exitcode"
	"github.com/steveyegge/iris/internal/session"
	"github.com/steveyegge/iris/internal/style"
)

var stopCmd = &cobra.Command{
	Use:     "stop [app]...",
	GroupID: GroupSessions,
	Short:   "Stop running applications",
	Long: `Stop running applications.

Stopping is best effort: iris closes consoles by title, kills the recorded
console and its child processes, kills anything still running the
application's script, and finally closes stray consoles whose title starts
with npm, node, vite, yarn or pnpm. That last step can close consoles
iris did not start.

Examples:
  iris stop API
  iris stop --all`,
	RunE: runStop,
}

var stopAll bool

func init() {
	stopCmd.Flags().BoolVarP(&stopAll, "all", "a", false, "Stop every running application")
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	switch {
	case stopAll && len(args) > 0:
		return exitcode.Usage("give application names or --all, not both")
	case !stopAll && len(args) == 0:
		return exitcode.Usage("give application names or --all")
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	st := e.loadApps()
	ctx := cmd.Context()
	reg := e.registry(ctx, st)

	recs := st.Apps
	if !stopAll {
		if recs, err = resolveApps(st, args); err != nil {
			return err
		}
	}

	stopped := 0
	for _, rec := range recs {
		if !reg.IsRunning(rec.ID) {
			if !stopAll {
				fmt.Printf("%s %s is not running\n", style.Dim.Render("○"), rec.Name)
			}
			continue
		}
		stopSession(cmd, reg, rec)
		stopped++
	}
	if stopAll && stopped == 0 {
		fmt.Println("Nothing is running.")
	}
	return nil
}

func stopSession(cmd *cobra.Command, reg *session.Registry, rec apps.Record) {
	reg.Stop(cmd.Context(), rec.ID, session.HintFor(rec))
	fmt.Printf("%s Stopped %s\n", style.SuccessPrefix, style.Bold.Render(rec.Name))
}
