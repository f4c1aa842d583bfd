package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/iris/internal/exitcode"
	"github.com/steveyegge/iris/internal/style"
)

var restartCmd = &cobra.Command{
	Use:     "restart <app>",
	GroupID: GroupSessions,
	Short:   "Stop an application and start it again",
	Args:    cobra.ExactArgs(1),
	RunE:    runRestart,
}

func init() {
	rootCmd.AddCommand(restartCmd)
}

func runRestart(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	st := e.loadApps()
	_, rec, err := findApp(st, args[0])
	if err != nil {
		return err
	}
	if !rec.HasCommands() {
		return exitcode.NoCommands(rec.Name)
	}

	ctx := cmd.Context()
	reg := e.registry(ctx, st)
	if !reg.IsRunning(rec.ID) {
		fmt.Printf("%s %s was not running\n", style.Dim.Render("○"), rec.Name)
	}

	fmt.Printf("%s Restarting %s\n", style.ArrowPrefix, rec.Name)
	reg.Restart(ctx, rec)
	reg.Wait()

	if !reportStart(reg, rec) {
		return exitcode.Newf(exitcode.ErrStartFailed, "%s failed to start; see %s", rec.Name, e.paths.Log())
	}
	return nil
}
