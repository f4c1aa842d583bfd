package session

import (
	"sort"
	"sync"
	"time"

	"github.com/steveyegge/iris/internal/console"
)

// Session is the runtime record of one launched application.
type Session struct {
	// Name is the application name the console was titled with.
	Name string
	// Handle is the launcher shim. Only used for the final kill of a stop.
	// Nil for sessions restored from the PID tracker.
	Handle console.Handle
	// ConsolePID is the discovered console process, 0 when unknown.
	ConsolePID int
	StartedAt  time.Time
}

// Known reports whether the console PID was discovered.
func (s Session) Known() bool { return s.ConsolePID > 0 }

// Uptime is the time since the session started.
func (s Session) Uptime(now time.Time) time.Duration { return now.Sub(s.StartedAt) }

// Entry pairs a session with its application id.
type Entry struct {
	ID string
	Session
}

// Store is the shared state of a Registry: running sessions and the ids
// that are mid-launch. It is safe for concurrent use and its lock is never
// held across an OS call or a sleep.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	// starting maps an id to the generation of the launch that owns its
	// loading state.
	starting map[string]uint64
	// gens is the latest generation per id. A launch task whose
	// generation is no longer the latest has been superseded.
	gens map[string]uint64
	// inflight is the done channel of the newest launch task per id.
	inflight map[string]chan struct{}
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		starting: make(map[string]uint64),
		gens:     make(map[string]uint64),
		inflight: make(map[string]chan struct{}),
	}
}

// IsRunning reports whether id has a session.
func (s *Store) IsRunning(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	return ok
}

// IsLoading reports whether a launch for id has not settled yet.
func (s *Store) IsLoading(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.starting[id]
	return ok
}

// RunningCount is the number of sessions.
func (s *Store) RunningCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// HasRunning reports whether any session exists.
func (s *Store) HasRunning() bool {
	return s.RunningCount() > 0
}

// HasLoading reports whether any launch is in flight.
func (s *Store) HasLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.starting) > 0
}

// Lookup returns a copy of the session for id.
func (s *Store) Lookup(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// Sessions returns a snapshot of all sessions ordered by id.
func (s *Store) Sessions() []Entry {
	s.mu.Lock()
	out := make([]Entry, 0, len(s.sessions))
	for id, sess := range s.sessions {
		out = append(out, Entry{ID: id, Session: *sess})
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// beginStart removes any session for id, marks id as loading under a new
// generation and registers a launch task, all under one lock so a
// concurrent launch for id always sees this one. old is the removed
// session, if any. prev is the done channel of the previous task for id;
// the caller closes done when its task ends.
func (s *Store) beginStart(id string) (old *Session, gen uint64, prev, done chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		old = sess
		delete(s.sessions, id)
	}
	s.gens[id]++
	gen = s.gens[id]
	s.starting[id] = gen
	prev = s.inflight[id]
	done = make(chan struct{})
	s.inflight[id] = done
	return old, gen, prev, done
}

// current reports whether gen is still the latest generation for id.
func (s *Store) current(id string, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[id] == gen
}

// insertIfCurrent registers sess for id unless the launch of generation
// gen was superseded.
func (s *Store) insertIfCurrent(id string, sess *Session, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gens[id] != gen {
		return false
	}
	s.sessions[id] = sess
	return true
}

// finishStart clears the loading state for id if generation gen owns it,
// and forgets the task's done channel.
func (s *Store) finishStart(id string, gen uint64, done chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.starting[id] == gen {
		delete(s.starting, id)
	}
	if s.inflight[id] == done {
		delete(s.inflight, id)
	}
}

// remove deletes the session for id. A launch still in flight for id is
// superseded so it cannot register a session afterwards; its loading
// state is left for the task to clear.
func (s *Store) remove(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, loading := s.starting[id]; loading {
		s.gens[id]++
	}
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	return sess, ok
}

// removeIf deletes the session for id only if it is still sess.
func (s *Store) removeIf(id string, sess *Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions[id] != sess {
		return false
	}
	delete(s.sessions, id)
	return true
}

// known returns the sessions whose console PID was discovered.
func (s *Store) known() map[string]*Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]*Session)
	for id, sess := range s.sessions {
		if sess.Known() {
			out[id] = sess
		}
	}
	return out
}

// restore registers a session recovered from disk unless id already has
// one or is loading.
func (s *Store) restore(id string, sess *Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; ok {
		return false
	}
	if _, ok := s.starting[id]; ok {
		return false
	}
	s.sessions[id] = sess
	return true
}
