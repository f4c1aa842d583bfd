// Package session owns the lifecycle of application consoles: launching
// them in the background, discovering their process, terminating them and
// reconciling the bookkeeping against the live process table.
package session

import (
	"log/slog"
	"os"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/steveyegge/iris/internal/apps"
	"github.com/steveyegge/iris/internal/console"
)

// Timing holds the fixed delays of the launch and restart paths.
type Timing struct {
	// Settle is the pause between spawning a console and looking for it.
	Settle time.Duration
	// DiscoveryAttempts and DiscoveryInterval drive the discovery poll.
	DiscoveryAttempts int
	DiscoveryInterval time.Duration
	// RestartDelay lets the OS release a console title before relaunch.
	RestartDelay time.Duration
}

// DefaultTiming returns the production delays.
func DefaultTiming() Timing {
	return Timing{
		Settle:            800 * time.Millisecond,
		DiscoveryAttempts: 5,
		DiscoveryInterval: 300 * time.Millisecond,
		RestartDelay:      200 * time.Millisecond,
	}
}

// Options configures a Registry.
type Options struct {
	Logger *slog.Logger
	// ScriptDir receives the generated scripts. Defaults to os.TempDir().
	ScriptDir string
	// Tracker, if set, persists console PIDs across processes.
	Tracker *PIDTracker
	// Timing defaults to DefaultTiming() when zero.
	Timing Timing
}

// Registry launches, stops and reconciles application sessions.
type Registry struct {
	store     *Store
	host      console.Host
	log       *slog.Logger
	scriptDir string
	tracker   *PIDTracker
	timing    Timing
	wg        conc.WaitGroup
	now       func() time.Time
}

// NewRegistry creates a Registry over store using host for every OS call.
func NewRegistry(store *Store, host console.Host, opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ScriptDir == "" {
		opts.ScriptDir = os.TempDir()
	}
	if opts.Timing == (Timing{}) {
		opts.Timing = DefaultTiming()
	}
	return &Registry{
		store:     store,
		host:      host,
		log:       opts.Logger,
		scriptDir: opts.ScriptDir,
		tracker:   opts.Tracker,
		timing:    opts.Timing,
		now:       time.Now,
	}
}

// Store returns the registry's shared state.
func (r *Registry) Store() *Store { return r.store }

func (r *Registry) IsRunning(id string) bool { return r.store.IsRunning(id) }
func (r *Registry) IsLoading(id string) bool { return r.store.IsLoading(id) }
func (r *Registry) RunningCount() int        { return r.store.RunningCount() }
func (r *Registry) HasRunning() bool         { return r.store.HasRunning() }
func (r *Registry) HasLoading() bool         { return r.store.HasLoading() }

// Wait blocks until every launch task started so far has settled.
func (r *Registry) Wait() {
	r.wg.Wait()
}

// Hint carries what Stop needs to find consoles by title.
type Hint struct {
	Name     string
	Commands []string
}

// HintFor builds the stop hint for a record.
func HintFor(rec apps.Record) Hint {
	return Hint{Name: rec.Name, Commands: rec.Commands}
}

func (r *Registry) track(id string, pid int) {
	if r.tracker == nil || pid <= 0 {
		return
	}
	if err := r.tracker.Track(id, pid); err != nil {
		r.log.Debug("tracking console pid", "id", id, "pid", pid, "err", err)
	}
}

func (r *Registry) untrack(id string) {
	if r.tracker != nil {
		r.tracker.Untrack(id)
	}
}

func sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
