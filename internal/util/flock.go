package util

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrLockHeld is returned when a lock is still held by someone else after
// all attempts.
var ErrLockHeld = errors.New("lock held by another process")

// FileLock is a cross-process exclusive lock on a file. Unlike sync.Mutex
// it also excludes other iris processes, e.g. a CLI invocation saving the
// config while the dashboard does.
type FileLock struct {
	fl    *flock.Flock
	retry RetryConfig
}

// NewFileLock creates a lock for path. The file is created on first use.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		fl:    flock.New(path),
		retry: PollConfig(50, 20*time.Millisecond),
	}
}

// Path returns the lock file path.
func (l *FileLock) Path() string { return l.fl.Path() }

// TryLock attempts the lock once without blocking.
func (l *FileLock) TryLock() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.fl.Path()), 0755); err != nil {
		return false, fmt.Errorf("creating lock directory: %w", err)
	}
	return l.fl.TryLock()
}

// Lock polls TryLock until the lock is acquired, the attempts run out or
// ctx is done.
func (l *FileLock) Lock(ctx context.Context) error {
	_, err := Retry(ctx, l.retry, func() (struct{}, error) {
		ok, err := l.TryLock()
		if err != nil {
			return struct{}{}, MarkPermanent(fmt.Errorf("acquiring lock: %w", err))
		}
		if !ok {
			return struct{}{}, ErrLockHeld
		}
		return struct{}{}, nil
	})
	return err
}

// Unlock releases the lock. Safe to call when not locked.
func (l *FileLock) Unlock() error {
	return l.fl.Unlock()
}

// WithLock runs fn while holding the lock.
func (l *FileLock) WithLock(ctx context.Context, fn func() error) error {
	if err := l.Lock(ctx); err != nil {
		return err
	}
	defer func() { _ = l.Unlock() }() // fn's error takes precedence
	return fn()
}
