package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/steveyegge/iris/internal/apps"
	"github.com/steveyegge/iris/internal/console"
)

// PIDTracker records discovered console PIDs on disk, one file per
// application id under <stateDir>/pids/. Sessions live in memory, so the
// files are what lets a later iris process stop a console it did not
// launch, or clean up after a launcher that crashed.
//
// Tracking is best-effort: callers should treat errors as non-fatal.
type PIDTracker struct {
	dir string
}

// NewPIDTracker creates a tracker storing files in <stateDir>/pids.
func NewPIDTracker(stateDir string) *PIDTracker {
	return &PIDTracker{dir: filepath.Join(stateDir, "pids")}
}

// Dir returns the directory holding the PID files.
func (t *PIDTracker) Dir() string { return t.dir }

func (t *PIDTracker) file(id string) string {
	return filepath.Join(t.dir, id+".pid")
}

// Track writes pid for id, replacing any previous value.
func (t *PIDTracker) Track(id string, pid int) error {
	if err := os.MkdirAll(t.dir, 0755); err != nil {
		return fmt.Errorf("creating pids directory: %w", err)
	}
	return os.WriteFile(t.file(id), []byte(strconv.Itoa(pid)+"\n"), 0644)
}

// Untrack removes the file for id, if any.
func (t *PIDTracker) Untrack(id string) {
	_ = os.Remove(t.file(id))
}

// TrackedPID is one PID file.
type TrackedPID struct {
	ID  string
	PID int
	// Since is when the PID was written, i.e. when the session started.
	Since time.Time
}

// List reads every PID file. Corrupt files are removed. Unreadable ones are
// reported in errs.
func (t *PIDTracker) List() (tracked []TrackedPID, errs []string) {
	entries, err := os.ReadDir(t.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, []string{fmt.Sprintf("read pids dir: %v", err)}
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".pid") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".pid")
		path := filepath.Join(t.dir, entry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: read error: %v", id, err))
			continue
		}
		pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
		if err != nil || pid <= 0 {
			// Corrupt PID file, remove it
			_ = os.Remove(path)
			continue
		}

		tp := TrackedPID{ID: id, PID: pid}
		if info, err := entry.Info(); err == nil {
			tp.Since = info.ModTime()
		}
		tracked = append(tracked, tp)
	}
	return tracked, errs
}

// KillTracked terminates every tracked console that is still alive, with
// its process tree, and removes all PID files. It returns how many
// consoles were killed and the ids that had errors.
//
// It is meant for cleaning up after a launcher that exited without
// stopping its sessions.
func (t *PIDTracker) KillTracked(ctx context.Context, host console.Host) (killed int, errIDs []string) {
	tracked, errIDs := t.List()
	for _, tp := range tracked {
		alive, err := host.Alive(ctx, tp.PID)
		if err != nil {
			errIDs = append(errIDs, fmt.Sprintf("%s (PID %d): liveness: %v", tp.ID, tp.PID, err))
			continue
		}
		if alive {
			if err := host.Terminate(ctx, tp.PID, true); err != nil {
				errIDs = append(errIDs, fmt.Sprintf("%s (PID %d): terminate failed: %v", tp.ID, tp.PID, err))
			} else {
				killed++
			}
		}
		// Clean up PID file regardless
		t.Untrack(tp.ID)
	}
	return killed, errIDs
}

// Restore registers a session for every tracked console that is still
// alive and belongs to one of recs. Dead or unknown entries are untracked.
// Restored sessions have no launch handle. It returns the number of
// sessions restored.
func (r *Registry) Restore(ctx context.Context, recs []apps.Record) int {
	if r.tracker == nil {
		return 0
	}
	names := make(map[string]string, len(recs))
	for _, rec := range recs {
		names[rec.ID] = rec.Name
	}

	tracked, errs := r.tracker.List()
	for _, e := range errs {
		r.log.Debug("reading tracked pid", "err", e)
	}

	restored := 0
	for _, tp := range tracked {
		name, ok := names[tp.ID]
		if !ok {
			r.tracker.Untrack(tp.ID)
			continue
		}
		alive, err := r.host.Alive(ctx, tp.PID)
		if err != nil {
			r.log.Debug("liveness probe failed", "id", tp.ID, "pid", tp.PID, "err", err)
			continue
		}
		if !alive {
			r.tracker.Untrack(tp.ID)
			continue
		}
		sess := &Session{Name: name, ConsolePID: tp.PID, StartedAt: tp.Since}
		if r.store.restore(tp.ID, sess) {
			restored++
		}
	}
	return restored
}
