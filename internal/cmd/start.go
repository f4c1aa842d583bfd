package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/iris/internal/apps"
	"github.com/steveyegge/iris/internal/exitcode"
	"github.com/steveyegge/iris/internal/session"
	"github.com/steveyegge/iris/internal/style"
)

var startCmd = &cobra.Command{
	Use:     "start <app>...",
	GroupID: GroupSessions,
	Short:   "Start applications in their own consoles",
	Long: `Start applications in their own consoles.

Each application's commands are written to a script that runs in a new
console titled "[IRIS] <name>". iris waits for the console to appear and
records its process id so 'iris stop' and 'iris status' can find it later.
An application that is already running is stopped and started again.

Examples:
  iris start API
  iris start API Web`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	st := e.loadApps()
	recs, err := resolveApps(st, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	reg := e.registry(ctx, st)
	for _, rec := range recs {
		if !rec.HasCommands() {
			return exitcode.NoCommands(rec.Name)
		}
	}
	for _, rec := range recs {
		fmt.Printf("%s Starting %s\n", style.ArrowPrefix, rec.Name)
		reg.Launch(ctx, rec)
	}
	reg.Wait()

	failed := 0
	for _, rec := range recs {
		if !reportStart(reg, rec) {
			failed++
		}
	}
	if failed > 0 {
		return exitcode.Newf(exitcode.ErrStartFailed, "%d of %d application(s) failed to start; see %s",
			failed, len(recs), e.paths.Log())
	}
	return nil
}

// reportStart prints the outcome of a settled launch.
func reportStart(reg *session.Registry, rec apps.Record) bool {
	sess, ok := reg.Store().Lookup(rec.ID)
	switch {
	case !ok:
		fmt.Printf("%s %s did not start\n", style.ErrorPrefix, rec.Name)
		return false
	case !sess.Known():
		fmt.Printf("%s Started %s %s\n", style.WarningPrefix, style.Bold.Render(rec.Name),
			style.Dim.Render("(console not found; 'iris stop' will use title matching only)"))
	default:
		fmt.Printf("%s Started %s %s\n", style.SuccessPrefix, style.Bold.Render(rec.Name),
			style.Dim.Render(fmt.Sprintf("(pid %d)", sess.ConsolePID)))
	}
	return true
}

// resolveApps resolves every ref, failing on the first unknown one.
func resolveApps(st *apps.State, refs []string) ([]apps.Record, error) {
	recs := make([]apps.Record, 0, len(refs))
	for _, ref := range refs {
		_, rec, err := findApp(st, ref)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
