package session

import (
	"context"
	"errors"

	"github.com/steveyegge/iris/internal/console"
	"github.com/steveyegge/iris/internal/script"
	"github.com/steveyegge/iris/internal/util"
)

var errNotDiscovered = errors.New("console not found")

// discoveryFilters are tried in order on every attempt: the exact tagged
// title, then any title containing both the tag and the name, which
// tolerates a running command that changed the title.
func discoveryFilters(name string) []console.TitleFilter {
	return []console.TitleFilter{
		console.TitleEquals(script.Title(name)),
		console.TitleLike("*" + script.Tag + "*" + name + "*"),
	}
}

// discover polls for the console titled after name and returns its PID,
// or 0 when it never shows up.
func (r *Registry) discover(ctx context.Context, name string) int {
	filters := discoveryFilters(name)
	cfg := util.PollConfig(r.timing.DiscoveryAttempts, r.timing.DiscoveryInterval)
	cfg.OnRetry = func(attempt int, _ error) {
		r.log.Debug("console not visible yet", "app", name, "attempt", attempt)
	}

	pid, err := util.Retry(ctx, cfg, func() (int, error) {
		for _, f := range filters {
			pids, err := r.host.FindByTitle(ctx, f)
			if err != nil {
				r.log.Debug("console lookup failed", "filter", f.String(), "err", err)
				continue
			}
			if len(pids) > 0 {
				return pids[0], nil
			}
		}
		return 0, errNotDiscovered
	})
	if err != nil {
		r.log.Info("console pid unknown", "app", name, "attempts", cfg.MaxAttempts)
		return 0
	}
	return pid
}
