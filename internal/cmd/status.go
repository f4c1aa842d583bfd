package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/steveyegge/iris/internal/apps"
	"github.com/steveyegge/iris/internal/session"
	"github.com/steveyegge/iris/internal/style"
	"github.com/steveyegge/iris/internal/tui/dashboard"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	GroupID: GroupSessions,
	Short:   "Show which applications are running",
	Long: `Show which applications are running.

iris checks every console recorded by earlier commands against the live
process table, forgets the ones that have closed, and lists the rest.

Examples:
  iris status
  iris status --json`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

var statusJSON bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(statusCmd)
}

// AppStatus is one application's state in 'iris status --json'.
type AppStatus struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Running       bool       `json:"running"`
	PID           int        `json:"pid,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	UptimeSeconds int64      `json:"uptime_seconds,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	st := e.loadApps()
	ctx := cmd.Context()
	reg := e.registry(ctx, st)
	if n := reg.Reconcile(ctx); n > 0 {
		e.log.Info("reconciled closed consoles", "count", n)
	}

	statuses := collectStatus(reg, st.Apps, time.Now())
	if statusJSON {
		return printJSON(statuses)
	}
	if len(statuses) == 0 {
		fmt.Println("No applications. Add one with 'iris app add'.")
		return nil
	}

	now := time.Now()
	tbl := style.NewTable(
		style.Column{Name: "APP", Width: 20},
		style.Column{Name: "STATE", Width: 9},
		style.Column{Name: "PID", Width: 7, Align: style.AlignRight},
		style.Column{Name: "UPTIME", Width: 14},
	)
	for _, s := range statuses {
		state, pid, uptime := style.Dim.Render("stopped"), "", ""
		if s.Running {
			state = style.Success.Render("running")
			if s.PID > 0 {
				pid = strconv.Itoa(s.PID)
			}
			if s.StartedAt != nil {
				uptime = dashboard.FormatUptime(*s.StartedAt, now)
			}
		}
		tbl.AddRow(s.Name, state, pid, uptime)
	}
	fmt.Print(tbl.Render())
	fmt.Printf("\n%d of %d running\n", reg.RunningCount(), len(statuses))
	return nil
}

func collectStatus(reg *session.Registry, recs []apps.Record, now time.Time) []AppStatus {
	out := make([]AppStatus, 0, len(recs))
	for _, rec := range recs {
		s := AppStatus{ID: rec.ID, Name: rec.Name}
		if sess, ok := reg.Store().Lookup(rec.ID); ok {
			s.Running = true
			s.PID = sess.ConsolePID
			if !sess.StartedAt.IsZero() {
				started := sess.StartedAt
				s.StartedAt = &started
				s.UptimeSeconds = int64(sess.Uptime(now) / time.Second)
			}
		}
		out = append(out, s)
	}
	return out
}
