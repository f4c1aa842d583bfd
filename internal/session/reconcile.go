package session

import (
	"context"
)

// Reconcile drops sessions whose discovered console is no longer alive
// and returns how many were dropped. Sessions with an unknown PID are
// never dropped, and a failed liveness probe counts as alive.
func (r *Registry) Reconcile(ctx context.Context) int {
	removed := 0
	for id, sess := range r.store.known() {
		alive, err := r.host.Alive(ctx, sess.ConsolePID)
		if err != nil {
			r.log.Debug("liveness probe failed", "id", id, "pid", sess.ConsolePID, "err", err)
			continue
		}
		if alive {
			continue
		}
		// The session may have been stopped or replaced meanwhile.
		if r.store.removeIf(id, sess) {
			r.untrack(id)
			r.log.Info("console exited", "id", id, "app", sess.Name, "pid", sess.ConsolePID)
			removed++
		}
	}
	return removed
}
