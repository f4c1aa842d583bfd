package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/steveyegge/iris/internal/apps"
	"github.com/steveyegge/iris/internal/config"
	"github.com/steveyegge/iris/internal/console"
	"github.com/steveyegge/iris/internal/exitcode"
	"github.com/steveyegge/iris/internal/session"
	"github.com/steveyegge/iris/internal/style"
)

// Test seams. newHost builds the OS binding; sessionTiming overrides the
// launch delays when non-zero.
var (
	newHost       = console.New
	sessionTiming session.Timing
)

// env is what every command needs: where the files are, the user's
// settings and a logger writing to the log file.
type env struct {
	paths    config.Paths
	settings config.Settings
	log      *slog.Logger
	logFile  io.Closer
}

// loadEnv resolves the config directory, reads settings and opens the log.
// Settings problems are reported and fall back to defaults.
func loadEnv() (*env, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, err
	}
	if err := paths.Ensure(); err != nil {
		return nil, err
	}

	settings, err := config.LoadSettings(paths.Settings())
	if err != nil {
		style.PrintWarning("%v", err)
	}

	e := &env{paths: paths, settings: settings}
	f, err := os.OpenFile(paths.Log(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		style.PrintWarning("could not open log %s: %v", paths.Log(), err)
		e.log = slog.New(slog.NewTextHandler(io.Discard, nil))
		return e, nil
	}
	e.logFile = f
	e.log = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: settings.Level()}))
	return e, nil
}

// Close releases the log file.
func (e *env) Close() {
	if e.logFile != nil {
		_ = e.logFile.Close()
	}
}

// loadApps reads the application document. A corrupt document is reported
// and treated as empty.
func (e *env) loadApps() *apps.State {
	st, err := config.Load(e.paths.Apps())
	if err != nil {
		style.PrintWarning("%v (starting with no applications)", err)
		e.log.Warn("loading applications", "err", err)
	}
	return st
}

func (e *env) saveApps(ctx context.Context, st *apps.State) error {
	if err := config.Save(ctx, e.paths.Apps(), st); err != nil {
		return fmt.Errorf("saving applications: %w", err)
	}
	return nil
}

func (e *env) host() console.Host {
	return newHost(console.Options{
		Terminal: e.settings.Terminal,
		Logger:   e.log,
	})
}

// tracker persists console PIDs so later invocations can find sessions
// started by earlier ones.
func (e *env) tracker() *session.PIDTracker {
	return session.NewPIDTracker(e.paths.State())
}

// registry returns a registry that already knows the live sessions
// recorded by earlier invocations.
func (e *env) registry(ctx context.Context, st *apps.State) *session.Registry {
	reg := session.NewRegistry(session.NewStore(), e.host(), session.Options{
		Logger:    e.log,
		ScriptDir: e.settings.ScriptDir,
		Tracker:   e.tracker(),
		Timing:    sessionTiming,
	})
	if n := reg.Restore(ctx, st.Apps); n > 0 {
		e.log.Debug("restored tracked sessions", "count", n)
	}
	return reg
}

// findApp resolves ref as an id or a case-insensitive name.
func findApp(st *apps.State, ref string) (int, apps.Record, error) {
	i, err := st.Find(ref)
	if err != nil {
		return -1, apps.Record{}, exitcode.AppNotFound(ref, err)
	}
	return i, st.Apps[i], nil
}
