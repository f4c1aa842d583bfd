package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/steveyegge/iris/internal/apps"
	"github.com/steveyegge/iris/internal/util"
)

// Load reads the application document at path. A missing file is an
// empty state. A file that cannot be read or parsed also yields an empty
// state, together with the error so the caller can report it.
func Load(path string) (*apps.State, error) {
	st, err := read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &apps.State{}, nil
		}
		return &apps.State{}, err
	}
	return st, nil
}

func read(path string) (*apps.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var st apps.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &st, nil
}

// Save writes st to path as indented JSON. The write holds an exclusive
// lock on <path>.lock so concurrent iris processes do not interleave.
func Save(ctx context.Context, path string, st *apps.State) error {
	if st.Apps == nil {
		st = &apps.State{Apps: []apps.Record{}}
	}
	lock := util.NewFileLock(path + ".lock")
	return lock.WithLock(ctx, func() error {
		if err := util.AtomicWriteJSON(path, st); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		return nil
	})
}

// Export writes st to an arbitrary path in the same format as Save.
func Export(ctx context.Context, path string, st *apps.State) error {
	return Save(ctx, path, st)
}

// Import reads a document exported elsewhere and gives every record a
// fresh id, so imported apps never collide with existing sessions.
// Unlike Load, a missing file is an error.
func Import(path string) (*apps.State, error) {
	st, err := read(path)
	if err != nil {
		return nil, err
	}
	st.RegenerateIDs()
	return st, nil
}

// Merge appends the imported apps to dst and returns how many were added.
func Merge(dst, imported *apps.State) int {
	for _, rec := range imported.Apps {
		dst.Add(rec)
	}
	return len(imported.Apps)
}
