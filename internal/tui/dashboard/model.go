// Package dashboard is the interactive terminal front end: a list of the
// registered applications with their session state, refreshed on a timer
// that also reconciles the registry against the live process table.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/steveyegge/iris/internal/apps"
	"github.com/steveyegge/iris/internal/session"
)

const (
	defaultTick = 500 * time.Millisecond

	// idleTick is the refresh period when nothing is running or starting.
	idleTick = 2 * time.Second

	reconcileTimeout = 10 * time.Second
)

// Options configures a Model.
type Options struct {
	Logger *slog.Logger
	// Tick is the reconcile period while any session is running or
	// starting. Defaults to 500ms.
	Tick time.Duration
}

// Model is the bubbletea model for the dashboard.
type Model struct {
	width  int
	height int

	reg      *session.Registry
	apps     []apps.Record
	visible  []int // indexes into apps that pass the filter
	selected int   // index into visible

	keys      KeyMap
	help      help.Model
	showHelp  bool
	spinner   spinner.Model
	filter    textinput.Model
	filtering bool

	tick   time.Duration
	status string
	log    *slog.Logger
	now    func() time.Time
}

// New creates a dashboard over reg for the given applications.
func New(reg *session.Registry, recs []apps.Record, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Tick <= 0 {
		opts.Tick = defaultTick
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = loadingStyle

	fi := textinput.New()
	fi.Prompt = "/ "
	fi.Placeholder = "name or directory"
	fi.PromptStyle = filterStyle

	m := &Model{
		reg:     reg,
		apps:    recs,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		filter:  fi,
		tick:    opts.Tick,
		log:     opts.Logger,
		now:     time.Now,
	}
	m.applyFilter()
	return m
}

// SetFilter narrows the list to applications whose name or working
// directory contains q, ignoring case.
func (m *Model) SetFilter(q string) {
	m.filter.SetValue(q)
	m.applyFilter()
}

// Apps returns the applications shown by the dashboard.
func (m *Model) Apps() []apps.Record {
	return m.apps
}

// Init starts the spinner and the reconcile timer.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.scheduleTick(),
		tea.SetWindowTitle("iris"),
	)
}

// tickMsg is sent on each refresh interval
type tickMsg time.Time

// reconciledMsg carries the number of sessions found dead
type reconciledMsg struct {
	removed int
}

// actionMsg is sent when a lifecycle action returns
type actionMsg struct {
	verb string
	name string
}

// interval is the time until the next reconcile.
func (m *Model) interval() time.Duration {
	if m.reg.HasRunning() || m.reg.HasLoading() || m.tick > idleTick {
		return m.tick
	}
	return idleTick
}

func (m *Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.interval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) reconcile() tea.Cmd {
	reg := m.reg
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
		defer cancel()
		return reconciledMsg{removed: reg.Reconcile(ctx)}
	}
}

// run performs a lifecycle action off the UI goroutine.
func (m *Model) run(verb, name string, fn func(ctx context.Context)) tea.Cmd {
	log := m.log
	return func() tea.Msg {
		fn(context.Background())
		log.Debug("dashboard action", "action", verb, "app", name)
		return actionMsg{verb: verb, name: name}
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.filter.Width = msg.Width - 4
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		return m, m.reconcile()

	case reconciledMsg:
		if msg.removed > 0 {
			m.status = fmt.Sprintf("%d session(s) ended", msg.removed)
		}
		return m, m.scheduleTick()

	case actionMsg:
		m.status = fmt.Sprintf("%s %s", msg.verb, msg.name)
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.visible)-1 {
			m.selected++
		}

	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		return m, m.filter.Focus()

	case key.Matches(msg, m.keys.ClearFilter):
		m.SetFilter("")

	case key.Matches(msg, m.keys.Start):
		return m, m.start()

	case key.Matches(msg, m.keys.Stop):
		return m, m.stop()

	case key.Matches(msg, m.keys.Restart):
		return m, m.restart()

	case key.Matches(msg, m.keys.StopAll):
		if !m.reg.HasRunning() && !m.reg.HasLoading() {
			m.status = "Nothing is running"
			return m, nil
		}
		reg, recs := m.reg, append([]apps.Record(nil), m.apps...)
		m.status = "Stopping all..."
		return m, m.run("Stopped", "all", func(ctx context.Context) {
			reg.StopAll(ctx, recs)
		})
	}

	return m, nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case tea.KeyEsc:
		m.filtering = false
		m.filter.Blur()
		m.SetFilter("")
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *Model) start() tea.Cmd {
	rec, ok := m.current()
	if !ok {
		return nil
	}
	switch {
	case !rec.HasCommands():
		m.status = fmt.Sprintf("%s has no commands", rec.Name)
		return nil
	case m.reg.IsRunning(rec.ID) || m.reg.IsLoading(rec.ID):
		m.status = fmt.Sprintf("%s is already running", rec.Name)
		return nil
	}
	// Nothing is running for rec, so Launch only marks it loading and
	// returns. Doing it here keeps a second press from passing the guard.
	m.reg.Launch(context.Background(), rec)
	m.status = fmt.Sprintf("Starting %s...", rec.Name)
	return m.run("Launching", rec.Name, func(context.Context) {})
}

func (m *Model) stop() tea.Cmd {
	rec, ok := m.current()
	if !ok {
		return nil
	}
	if !m.reg.IsRunning(rec.ID) && !m.reg.IsLoading(rec.ID) {
		m.status = fmt.Sprintf("%s is not running", rec.Name)
		return nil
	}
	reg := m.reg
	m.status = fmt.Sprintf("Stopping %s...", rec.Name)
	return m.run("Stopped", rec.Name, func(ctx context.Context) {
		reg.Stop(ctx, rec.ID, session.HintFor(rec))
	})
}

func (m *Model) restart() tea.Cmd {
	rec, ok := m.current()
	if !ok {
		return nil
	}
	if !m.reg.IsRunning(rec.ID) {
		m.status = fmt.Sprintf("%s is not running", rec.Name)
		return nil
	}
	reg := m.reg
	m.status = fmt.Sprintf("Restarting %s...", rec.Name)
	return m.run("Restarted", rec.Name, func(ctx context.Context) {
		reg.Restart(ctx, rec)
	})
}

// current returns the selected application.
func (m *Model) current() (apps.Record, bool) {
	if m.selected < 0 || m.selected >= len(m.visible) {
		return apps.Record{}, false
	}
	return m.apps[m.visible[m.selected]], true
}

func (m *Model) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for i, rec := range m.apps {
		if q == "" ||
			strings.Contains(strings.ToLower(rec.Name), q) ||
			strings.Contains(strings.ToLower(rec.WorkingDir), q) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

// View renders the dashboard
func (m *Model) View() string {
	return m.renderView()
}
