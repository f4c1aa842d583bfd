package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/steveyegge/iris/internal/config"
	"github.com/steveyegge/iris/internal/exitcode"
	"github.com/steveyegge/iris/internal/style"
)

var configCmd = &cobra.Command{
	Use:     "config",
	GroupID: GroupConfig,
	Short:   "Manage the iris configuration",
	RunE:    requireSubcommand,
	Long: `Manage the iris configuration.

Applications are stored as JSON in config.json; preferences live in
settings.toml next to it. Set IRIS_HOME to use another directory.

Commands:
  iris config path             Show where the files are
  iris config export <file>    Write all applications to a file
  iris config import <file>    Add the applications from a file
  iris config settings         Show the effective settings`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show where the configuration files are",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write all applications to a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigExport,
}

var configImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Add the applications from an exported file",
	Long: `Add the applications from an exported file.

Imported applications are appended to the current list and get new ids,
so importing the same file twice gives two copies.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigImport,
}

var configSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigSettings,
}

func init() {
	configCmd.AddCommand(configPathCmd, configExportCmd, configImportCmd, configSettingsCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	paths, err := config.DefaultPaths()
	if err != nil {
		return err
	}
	fmt.Printf("directory:    %s\n", paths.Dir)
	fmt.Printf("applications: %s\n", paths.Apps())
	fmt.Printf("settings:     %s\n", paths.Settings())
	fmt.Printf("log:          %s\n", paths.Log())
	return nil
}

func runConfigExport(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	st := e.loadApps()
	if err := config.Export(cmd.Context(), args[0], st); err != nil {
		return err
	}
	fmt.Printf("%s Exported %d application(s) to %s\n", style.SuccessPrefix, st.Len(), args[0])
	return nil
}

func runConfigImport(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	imported, err := config.Import(args[0])
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return exitcode.Wrap(exitcode.ErrFileNotFound, "import", err)
		}
		return err
	}
	st := e.loadApps()
	n := config.Merge(st, imported)
	if err := e.saveApps(cmd.Context(), st); err != nil {
		return err
	}
	fmt.Printf("%s Imported %d application(s)\n", style.SuccessPrefix, n)
	return nil
}

func runConfigSettings(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	s := e.settings
	scriptDir := s.ScriptDir
	if scriptDir == "" {
		scriptDir = style.Dim.Render("(system temp dir)")
	}
	terminal := style.Dim.Render("(none)")
	if len(s.Terminal) > 0 {
		terminal = fmt.Sprintf("%q", s.Terminal)
	}
	fmt.Printf("script_dir = %s\n", scriptDir)
	fmt.Printf("terminal   = %s\n", terminal)
	fmt.Printf("log_level  = %s\n", s.Level())
	fmt.Printf("tick_ms    = %d\n", s.TickMS)
	return nil
}
