package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/steveyegge/iris/internal/exitcode"
	"github.com/steveyegge/iris/internal/script"
	"github.com/steveyegge/iris/internal/ui"
)

var scriptCmd = &cobra.Command{
	Use:     "script <app>",
	GroupID: GroupDiag,
	Short:   "Print the script iris would run for an application",
	Long: `Print the script iris would run for an application.

The script is written for this platform's shell unless --dialect says
otherwise. Use --render for a highlighted preview.

Examples:
  iris script API
  iris script API --dialect batch
  iris script API --render`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

var (
	scriptDialect string
	scriptRender  bool
)

func init() {
	scriptCmd.Flags().StringVar(&scriptDialect, "dialect", "", "Script dialect: batch or shell (default: this platform's)")
	scriptCmd.Flags().BoolVar(&scriptRender, "render", false, "Render as highlighted markdown")
	rootCmd.AddCommand(scriptCmd)
}

func runScript(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	_, rec, err := findApp(e.loadApps(), args[0])
	if err != nil {
		return err
	}
	if !rec.HasCommands() {
		return exitcode.NoCommands(rec.Name)
	}

	d := e.host().Dialect()
	if scriptDialect != "" {
		if d, err = script.DialectByName(scriptDialect); err != nil {
			return exitcode.Wrap(exitcode.ErrUsage, "--dialect", err)
		}
	}

	body := script.Build(d, script.Input{
		ID:         rec.ID,
		Name:       rec.Name,
		WorkingDir: rec.WorkingDir,
		Commands:   rec.Commands,
	})

	if !scriptRender {
		fmt.Print(body)
		return nil
	}
	out, err := renderScript(d, script.FileName(d, rec.ID), body, ui.ShouldUseColor())
	if err != nil {
		return fmt.Errorf("rendering script: %w", err)
	}
	fmt.Print(out)
	return nil
}

// renderScript formats body as a fenced markdown code block under a
// heading naming the file.
func renderScript(d script.Dialect, fileName, body string, color bool) (string, error) {
	lang := "sh"
	if d.Name() == "batch" {
		lang = "batch"
	}
	body = strings.ReplaceAll(body, "\r\n", "\n")
	md := fmt.Sprintf("## %s\n\n```%s\n%s```\n", fileName, lang, body)

	styleOpt := glamour.WithStandardStyle("notty")
	if color {
		styleOpt = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(100))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
