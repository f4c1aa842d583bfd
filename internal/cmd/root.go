// Package cmd provides CLI commands for the iris tool.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steveyegge/iris/internal/exitcode"
	"github.com/steveyegge/iris/internal/style"
	"github.com/steveyegge/iris/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:     "iris",
	Short:   "iris - launch and track application consoles",
	Version: Version,
	Long: `iris starts your development applications in their own console
windows and keeps track of which ones are running.

An application is a working directory plus a list of shell commands.
iris turns the commands into a script, opens it in a detached console
tagged with the application's name, and finds that console again when
you stop or restart it.

Run without arguments to open the dashboard.`,
	SilenceUsage:      true,
	PersistentPreRunE: initOutput,
	RunE:              runUI,
}

// initOutput configures color for every command.
func initOutput(cmd *cobra.Command, args []string) error {
	style.Init(ui.ShouldUseColor())
	return nil
}

// Execute runs the root command and returns an exit code.
// The caller (main) should call os.Exit with this code.
func Execute() int {
	return exitcode.Code(rootCmd.Execute())
}

// Command group IDs - used by subcommands to organize help output
const (
	GroupApps     = "apps"
	GroupSessions = "sessions"
	GroupConfig   = "config"
	GroupDiag     = "diag"
)

func init() {
	cobra.EnablePrefixMatching = true

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupSessions, Title: "Sessions:"},
		&cobra.Group{ID: GroupApps, Title: "Applications:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration:"},
		&cobra.Group{ID: GroupDiag, Title: "Diagnostics:"},
	)

	rootCmd.SetHelpCommandGroupID(GroupDiag)
	rootCmd.SetCompletionCommandGroupID(GroupConfig)
}

// buildCommandPath walks the command hierarchy to build the full command path.
// For example: "iris app add", "iris status", etc.
func buildCommandPath(cmd *cobra.Command) string {
	var parts []string
	for c := cmd; c != nil; c = c.Parent() {
		parts = append([]string{c.Name()}, parts...)
	}
	return strings.Join(parts, " ")
}

// requireSubcommand returns a RunE function for parent commands that require
// a subcommand. Without this, Cobra silently shows help and exits 0 for
// unknown subcommands like "iris app foobar", masking errors.
func requireSubcommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("requires a subcommand\n\nRun '%s --help' for usage", buildCommandPath(cmd))
	}
	return fmt.Errorf("unknown command %q for %q\n\nRun '%s --help' for available commands",
		args[0], buildCommandPath(cmd), buildCommandPath(cmd))
}
