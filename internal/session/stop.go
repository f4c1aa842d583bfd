package session

import (
	"context"
	"strings"

	"github.com/steveyegge/iris/internal/apps"
	"github.com/steveyegge/iris/internal/console"
	"github.com/steveyegge/iris/internal/script"
)

// broadTitlePrefixes are common dev-server titles killed on every stop to
// catch children that escaped the console's process tree. This can hit
// unrelated consoles with the same tool names.
var broadTitlePrefixes = []string{"npm", "node", "vite", "yarn", "pnpm"}

// Stop removes the session for id and then tries to terminate its console.
// An id without a session is a no-op. The session is gone before any OS
// call is made, and every termination step runs whatever the previous ones
// reported.
func (r *Registry) Stop(ctx context.Context, id string, hint Hint) {
	sess, ok := r.store.remove(id)
	if !ok {
		return
	}
	r.untrack(id)
	r.log.Info("stopping session", "id", id, "app", hint.Name, "pid", sess.ConsolePID)
	r.cascade(ctx, id, hint, sess)
}

// StopAll stops every record that has a session and cancels the pending
// launches of the rest.
func (r *Registry) StopAll(ctx context.Context, recs []apps.Record) {
	for _, rec := range recs {
		r.Stop(ctx, rec.ID, HintFor(rec))
	}
}

// Restart stops rec, waits for the OS to let go of the console title, and
// launches it again.
func (r *Registry) Restart(ctx context.Context, rec apps.Record) {
	r.Stop(ctx, rec.ID, HintFor(rec))
	sleep(r.timing.RestartDelay)
	r.Launch(ctx, rec)
}

type cascadeStep struct {
	name string
	run  func(ctx context.Context) error
}

// cascade runs the termination steps for a removed session in order,
// logging and otherwise ignoring their errors.
func (r *Registry) cascade(ctx context.Context, id string, hint Hint, sess *Session) {
	for _, step := range r.cascadeSteps(id, hint, sess) {
		if err := step.run(ctx); err != nil {
			r.log.Debug("stop step failed", "id", id, "step", step.name, "err", err)
		}
	}
}

func (r *Registry) cascadeSteps(id string, hint Hint, sess *Session) []cascadeStep {
	var steps []cascadeStep
	killTitle := func(f console.TitleFilter) cascadeStep {
		return cascadeStep{
			name: "title " + f.String(),
			run:  func(ctx context.Context) error { return r.host.KillByTitle(ctx, f) },
		}
	}

	// Programs often retitle the console with their own command line.
	for _, cmd := range hint.Commands {
		if strings.TrimSpace(cmd) == "" {
			continue
		}
		steps = append(steps, killTitle(console.TitleEquals(cmd)), killTitle(console.TitlePrefix(cmd)))
	}

	name := hint.Name
	if name == "" {
		name = sess.Name
	}
	if name != "" {
		steps = append(steps, killTitle(console.TitleEquals(script.Title(name))))
	}

	if sess.Known() {
		pid := sess.ConsolePID
		steps = append(steps, cascadeStep{
			name: "pid tree",
			run:  func(ctx context.Context) error { return r.host.Terminate(ctx, pid, true) },
		})
	}

	scriptName := script.FileName(r.host.Dialect(), id)
	steps = append(steps, cascadeStep{
		name: "command line " + scriptName,
		run:  func(ctx context.Context) error { return r.host.KillByCommandLine(ctx, scriptName) },
	})

	for _, p := range broadTitlePrefixes {
		steps = append(steps, killTitle(console.TitlePrefix(p)))
	}

	if sess.Handle != nil {
		h := sess.Handle
		steps = append(steps, cascadeStep{
			name: "launch handle",
			run:  func(context.Context) error { return h.Kill() },
		})
	}
	return steps
}
