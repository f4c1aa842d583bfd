package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/steveyegge/iris/internal/apps"
	"github.com/steveyegge/iris/internal/console"
	"github.com/steveyegge/iris/internal/script"
)

// Launch starts rec in a new detached console. A record without commands
// is ignored. rec is marked loading and any existing session for it is
// stopped, then the rest happens in the background: the script is
// written, the console spawned and discovered, and a Session registered.
//
// Failures are logged and leave rec neither loading nor running. Launches
// for the same id run one after another; a launch superseded by a later
// Launch or Stop closes its own console instead of registering it.
func (r *Registry) Launch(ctx context.Context, rec apps.Record) {
	if !rec.HasCommands() {
		return
	}

	old, gen, prev, done := r.store.beginStart(rec.ID)
	if old != nil {
		r.untrack(rec.ID)
		r.log.Info("stopping session", "id", rec.ID, "app", rec.Name, "pid", old.ConsolePID)
		r.cascade(ctx, rec.ID, HintFor(rec), old)
	}

	ctx = context.WithoutCancel(ctx)
	r.wg.Go(func() {
		defer close(done)
		defer r.store.finishStart(rec.ID, gen, done)
		if prev != nil {
			<-prev
		}
		r.runLaunch(ctx, rec, gen)
	})
}

func (r *Registry) runLaunch(ctx context.Context, rec apps.Record, gen uint64) {
	log := r.log.With("app", rec.Name, "id", rec.ID)

	if !r.store.current(rec.ID, gen) {
		log.Debug("launch superseded before spawn")
		return
	}

	path, err := r.writeScript(rec)
	if err != nil {
		log.Warn("launch aborted", "err", err)
		return
	}

	title := script.Title(rec.Name)
	handle, err := r.host.Spawn(ctx, console.SpawnRequest{
		ScriptPath: path,
		Title:      title,
		WorkingDir: rec.WorkingDir,
	})
	if err != nil {
		log.Warn("launch aborted", "err", err)
		return
	}

	sleep(r.timing.Settle)
	pid := r.discover(ctx, rec.Name)

	sess := &Session{
		Name:       rec.Name,
		Handle:     handle,
		ConsolePID: pid,
		StartedAt:  r.now(),
	}
	if !r.store.insertIfCurrent(rec.ID, sess, gen) {
		log.Info("launch superseded, closing its console", "pid", pid)
		r.cascade(ctx, rec.ID, HintFor(rec), sess)
		return
	}

	r.track(rec.ID, pid)
	log.Info("session started", "pid", pid, "script", path)
}

// writeScript synthesizes rec's script and writes it to the script dir.
// The file name depends only on the id, so a relaunch overwrites it.
func (r *Registry) writeScript(rec apps.Record) (string, error) {
	d := r.host.Dialect()
	body := script.Build(d, script.Input{
		ID:         rec.ID,
		Name:       rec.Name,
		WorkingDir: rec.WorkingDir,
		Commands:   rec.Commands,
	})

	if err := os.MkdirAll(r.scriptDir, 0755); err != nil {
		return "", fmt.Errorf("creating script dir: %w", err)
	}
	path := filepath.Join(r.scriptDir, script.FileName(d, rec.ID))
	if err := os.WriteFile(path, []byte(body), 0755); err != nil {
		return "", fmt.Errorf("writing script %s: %w", path, err)
	}
	return path, nil
}
