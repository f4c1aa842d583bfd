package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/steveyegge/iris/internal/apps"
	"github.com/steveyegge/iris/internal/exitcode"
	"github.com/steveyegge/iris/internal/session"
	"github.com/steveyegge/iris/internal/style"
	"github.com/steveyegge/iris/internal/util"
)

var appCmd = &cobra.Command{
	Use:     "app",
	GroupID: GroupApps,
	Short:   "Manage registered applications",
	RunE:    requireSubcommand,
	Long: `Manage the applications iris knows how to launch.

Commands:
  iris app add --name <name> --cmd <command>...   Register an application
  iris app list                                   List applications
  iris app show <app>                             Show one application
  iris app edit <app> [flags]                     Change an application
  iris app remove <app>                           Remove an application

<app> is an application id or its name (case-insensitive).`,
}

var appAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register an application",
	Long: `Register an application.

Commands run in order in one console. Repeat --cmd for each command.
A command that is only a version number or a single y/n/s answer is
fed as input to the command before it.

Examples:
  iris app add --name API --dir ~/src/api --cmd "npm install" --cmd "npm run dev"
  iris app add --name Docs --dir ~/src/docs --cmd "hugo server"`,
	Args: cobra.NoArgs,
	RunE: runAppAdd,
}

var appListCmd = &cobra.Command{
	Use:   "list",
	Short: "List applications",
	Args:  cobra.NoArgs,
	RunE:  runAppList,
}

var appShowCmd = &cobra.Command{
	Use:   "show <app>",
	Short: "Show one application",
	Args:  cobra.ExactArgs(1),
	RunE:  runAppShow,
}

var appEditCmd = &cobra.Command{
	Use:   "edit <app>",
	Short: "Change an application",
	Long: `Change an application. Only the given flags change; --cmd replaces
the whole command list.

Examples:
  iris app edit API --name Backend
  iris app edit API --cmd "go run ./cmd/api"`,
	Args: cobra.ExactArgs(1),
	RunE: runAppEdit,
}

var appRemoveCmd = &cobra.Command{
	Use:     "remove <app>",
	Aliases: []string{"rm"},
	Short:   "Remove an application",
	Args:    cobra.ExactArgs(1),
	RunE:    runAppRemove,
}

var (
	appName     string
	appDir      string
	appIcon     string
	appCommands []string
	appListJSON bool
)

func init() {
	for _, c := range []*cobra.Command{appAddCmd, appEditCmd} {
		c.Flags().StringVar(&appName, "name", "", "Display name, also used in the console title")
		c.Flags().StringVar(&appDir, "dir", "", "Working directory (default: the directory iris runs in)")
		c.Flags().StringVar(&appIcon, "icon", "", "Icon name")
		c.Flags().StringArrayVar(&appCommands, "cmd", nil, "Command to run (repeatable, in order)")
	}
	_ = appAddCmd.MarkFlagRequired("name")
	appListCmd.Flags().BoolVar(&appListJSON, "json", false, "Output as JSON")

	appCmd.AddCommand(appAddCmd, appListCmd, appShowCmd, appEditCmd, appRemoveCmd)
	rootCmd.AddCommand(appCmd)
}

func runAppAdd(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(appName)
	if name == "" {
		return exitcode.Usage("--name must not be empty")
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	st := e.loadApps()
	rec := apps.NewRecord(name)
	rec.WorkingDir = appDir
	rec.Icon = appIcon
	rec.Commands = cleanCommands(appCommands)
	st.Add(rec)

	if err := e.saveApps(cmd.Context(), st); err != nil {
		return err
	}
	fmt.Printf("%s Added %s (%s)\n", style.SuccessPrefix, style.Bold.Render(rec.Name), rec.ID)
	if !rec.HasCommands() {
		style.PrintWarning("%s has no commands and cannot be started until you add some", rec.Name)
	}
	return nil
}

func runAppList(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	st := e.loadApps()
	if appListJSON {
		return printJSON(st.Apps)
	}
	if st.Len() == 0 {
		fmt.Println("No applications. Add one with 'iris app add'.")
		return nil
	}

	tbl := style.NewTable(
		style.Column{Name: "NAME", Width: 20},
		style.Column{Name: "CMDS", Width: 4, Align: style.AlignRight},
		style.Column{Name: "DIRECTORY", Width: 36},
		style.Column{Name: "ID", Width: 36},
	)
	for _, rec := range st.Apps {
		tbl.AddRow(rec.Name, strconv.Itoa(rec.CommandCount()), util.TruncatePath(rec.WorkingDir, 36), rec.ID)
	}
	fmt.Print(tbl.Render())
	return nil
}

func runAppShow(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	_, rec, err := findApp(e.loadApps(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", style.Bold.Render(rec.Name))
	fmt.Printf("  id:        %s\n", rec.ID)
	if rec.Icon != "" {
		fmt.Printf("  icon:      %s\n", rec.Icon)
	}
	dir := rec.WorkingDir
	if dir == "" {
		dir = style.Dim.Render("(current directory)")
	}
	fmt.Printf("  directory: %s\n", dir)
	fmt.Printf("  commands:\n")
	if !rec.HasCommands() {
		fmt.Printf("    %s\n", style.Dim.Render("(none)"))
	}
	for i, c := range rec.Commands {
		fmt.Printf("    %d. %s\n", i+1, c)
	}
	return nil
}

func runAppEdit(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	st := e.loadApps()
	i, rec, err := findApp(st, args[0])
	if err != nil {
		return err
	}

	var changed []string
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		changed = append(changed, f.Name)
		switch f.Name {
		case "name":
			rec.Name = strings.TrimSpace(appName)
		case "dir":
			rec.WorkingDir = appDir
		case "icon":
			rec.Icon = appIcon
		case "cmd":
			rec.Commands = cleanCommands(appCommands)
		}
	})
	if len(changed) == 0 {
		return exitcode.Usage("nothing to change (give --name, --dir, --icon or --cmd)")
	}
	if rec.Name == "" {
		return exitcode.Usage("--name must not be empty")
	}
	st.Replace(i, rec)

	if err := e.saveApps(cmd.Context(), st); err != nil {
		return err
	}
	fmt.Printf("%s Updated %s\n", style.SuccessPrefix, style.Bold.Render(rec.Name))
	return nil
}

func runAppRemove(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	st := e.loadApps()
	i, rec, err := findApp(st, args[0])
	if err != nil {
		return err
	}

	// Never orphan a console: stop the session first.
	reg := e.registry(cmd.Context(), st)
	if reg.IsRunning(rec.ID) {
		fmt.Printf("%s Stopping %s\n", style.ArrowPrefix, rec.Name)
		reg.Stop(cmd.Context(), rec.ID, session.HintFor(rec))
	}

	st.Remove(i)
	if err := e.saveApps(cmd.Context(), st); err != nil {
		return err
	}
	fmt.Printf("%s Removed %s\n", style.SuccessPrefix, style.Bold.Render(rec.Name))
	return nil
}

// cleanCommands drops blank commands and trims the rest.
func cleanCommands(cmds []string) []string {
	out := make([]string, 0, len(cmds))
	for _, c := range cmds {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
