package dashboard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/steveyegge/iris/internal/apps"
	"github.com/steveyegge/iris/internal/style"
	"github.com/steveyegge/iris/internal/util"
)

const dirWidth = 28

// renderView renders the entire view
func (m *Model) renderView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("iris"))
	b.WriteString("\n\n")

	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
	}

	switch {
	case len(m.apps) == 0:
		b.WriteString(statusStyle.Render("No applications yet. Add one with: iris app add --name NAME --cmd COMMAND"))
		b.WriteString("\n")
	case len(m.visible) == 0:
		b.WriteString(statusStyle.Render(fmt.Sprintf("No applications match %q.", m.filter.Value())))
		b.WriteString("\n")
	default:
		b.WriteString(m.renderList())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m *Model) renderList() string {
	tbl := style.NewTable(
		style.Column{Name: "", Width: 1},
		style.Column{Name: "STATE", Width: 11},
		style.Column{Name: "APP", Width: 20},
		style.Column{Name: "CMDS", Width: 4, Align: style.AlignRight},
		style.Column{Name: "DIRECTORY", Width: dirWidth},
		style.Column{Name: "UPTIME", Width: 14},
	).SetIndent("")

	now := m.now()
	for i, idx := range m.visible {
		rec := m.apps[idx]
		marker, name := " ", rec.Name
		if i == m.selected {
			marker, name = selectedStyle.Render(">"), selectedStyle.Render(rec.Name)
		}
		tbl.AddRow(
			marker,
			m.stateCell(rec),
			name,
			strconv.Itoa(rec.CommandCount()),
			util.TruncatePath(rec.WorkingDir, dirWidth),
			m.uptimeCell(rec, now),
		)
	}
	return tbl.Render()
}

func (m *Model) stateCell(rec apps.Record) string {
	switch {
	case m.reg.IsRunning(rec.ID):
		return runningStyle.Render("● running")
	case m.reg.IsLoading(rec.ID):
		return m.spinner.View() + " " + loadingStyle.Render("starting")
	default:
		return stoppedStyle.Render("○ stopped")
	}
}

func (m *Model) uptimeCell(rec apps.Record, now time.Time) string {
	sess, ok := m.reg.Store().Lookup(rec.ID)
	if !ok || sess.StartedAt.IsZero() {
		return ""
	}
	return FormatUptime(sess.StartedAt, now)
}

func (m *Model) renderFooter() string {
	parts := []string{fmt.Sprintf("%d apps", len(m.apps))}
	if n := m.reg.RunningCount(); n > 0 {
		parts = append(parts, runningStyle.Render(fmt.Sprintf("● %d running", n)))
	}
	return strings.Join(parts, helpStyle.Render(" · "))
}

// FormatUptime renders the time since start in words, e.g. "3 minutes".
func FormatUptime(start, now time.Time) string {
	if now.Sub(start) < time.Second {
		return "just now"
	}
	return strings.TrimSpace(humanize.RelTime(start, now, "", ""))
}
