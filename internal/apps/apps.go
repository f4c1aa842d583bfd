// Package apps defines the application records a user registers with iris
// and the collection they are persisted in.
package apps

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no application matches a lookup.
var ErrNotFound = errors.New("application not found")

// Record is a user-authored application: a working directory plus an
// ordered list of shell commands. Records are replaced wholesale on edit;
// the lifecycle core only ever reads them.
type Record struct {
	// ID is generated once at creation and never reused.
	ID string `json:"id"`

	// Name is the display name. It also tags the console title, so it
	// should be distinct enough to tell consoles apart.
	Name string `json:"name"`

	// Icon names an icon; opaque to iris.
	Icon string `json:"icon_emoji"`

	// WorkingDir is where the commands run. Empty means the launcher's cwd.
	WorkingDir string `json:"working_dir"`

	// Commands run in order inside one console.
	Commands []string `json:"commands"`
}

// NewRecord creates a record with a freshly generated ID.
func NewRecord(name string) Record {
	return Record{
		ID:   uuid.NewString(),
		Name: name,
	}
}

// HasCommands reports whether the record is launchable.
func (r Record) HasCommands() bool {
	return len(r.Commands) > 0
}

// CommandCount returns the number of configured commands.
func (r Record) CommandCount() int {
	return len(r.Commands)
}

// State is the persisted collection of applications.
type State struct {
	Apps []Record `json:"apps"`
}

// Add appends an application.
func (s *State) Add(r Record) {
	s.Apps = append(s.Apps, r)
}

// Remove deletes the application at index and returns it.
// Returns false if index is out of range.
func (s *State) Remove(index int) (Record, bool) {
	if index < 0 || index >= len(s.Apps) {
		return Record{}, false
	}
	r := s.Apps[index]
	s.Apps = append(s.Apps[:index], s.Apps[index+1:]...)
	return r, true
}

// Replace swaps the record at index for r.
func (s *State) Replace(index int, r Record) bool {
	if index < 0 || index >= len(s.Apps) {
		return false
	}
	s.Apps[index] = r
	return true
}

// FindByID returns the index of the application with the given ID, or -1.
func (s *State) FindByID(id string) int {
	for i := range s.Apps {
		if s.Apps[i].ID == id {
			return i
		}
	}
	return -1
}

// Find resolves ref as an ID first, then as a case-insensitive name.
func (s *State) Find(ref string) (int, error) {
	if i := s.FindByID(ref); i >= 0 {
		return i, nil
	}
	for i := range s.Apps {
		if strings.EqualFold(s.Apps[i].Name, ref) {
			return i, nil
		}
	}
	return -1, ErrNotFound
}

// Len returns the number of applications.
func (s *State) Len() int {
	return len(s.Apps)
}

// RegenerateIDs gives every application a new ID. Used on import so that
// imported records never collide with live sessions keyed by ID.
func (s *State) RegenerateIDs() {
	for i := range s.Apps {
		s.Apps[i].ID = uuid.NewString()
	}
}
