package apps

import (
	"errors"
	"testing"
)

func testState() *State {
	return &State{Apps: []Record{
		{ID: "a1", Name: "Web", Commands: []string{"npm run dev"}},
		{ID: "b2", Name: "API"},
	}}
}

func TestNewRecord_GeneratesUniqueIDs(t *testing.T) {
	a := NewRecord("one")
	b := NewRecord("two")
	if a.ID == "" || b.ID == "" {
		t.Fatal("NewRecord() returned an empty ID")
	}
	if a.ID == b.ID {
		t.Errorf("NewRecord() IDs collide: %q", a.ID)
	}
	if a.Name != "one" {
		t.Errorf("Name = %q, want %q", a.Name, "one")
	}
}

func TestRecord_HasCommands(t *testing.T) {
	s := testState()
	if !s.Apps[0].HasCommands() {
		t.Error("Web should have commands")
	}
	if s.Apps[1].HasCommands() {
		t.Error("API should not have commands")
	}
	if got := s.Apps[0].CommandCount(); got != 1 {
		t.Errorf("CommandCount() = %d, want 1", got)
	}
}

func TestState_Find(t *testing.T) {
	s := testState()

	tests := []struct {
		ref  string
		want int
	}{
		{"a1", 0},
		{"b2", 1},
		{"web", 0},
		{"API", 1},
	}
	for _, tt := range tests {
		got, err := s.Find(tt.ref)
		if err != nil {
			t.Errorf("Find(%q) error = %v", tt.ref, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Find(%q) = %d, want %d", tt.ref, got, tt.want)
		}
	}

	if _, err := s.Find("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find(missing) error = %v, want ErrNotFound", err)
	}
}

func TestState_RemoveAndReplace(t *testing.T) {
	s := testState()

	if _, ok := s.Remove(5); ok {
		t.Error("Remove(5) should fail on a two-element state")
	}
	r, ok := s.Remove(0)
	if !ok || r.ID != "a1" {
		t.Fatalf("Remove(0) = %+v, %v", r, ok)
	}
	if s.Len() != 1 || s.Apps[0].ID != "b2" {
		t.Fatalf("unexpected apps after remove: %+v", s.Apps)
	}

	if !s.Replace(0, Record{ID: "b2", Name: "API v2"}) {
		t.Fatal("Replace(0) failed")
	}
	if s.Apps[0].Name != "API v2" {
		t.Errorf("Name = %q, want %q", s.Apps[0].Name, "API v2")
	}
	if s.Replace(3, Record{}) {
		t.Error("Replace(3) should fail")
	}
}

func TestState_RegenerateIDs(t *testing.T) {
	s := testState()
	s.RegenerateIDs()
	if s.Apps[0].ID == "a1" || s.Apps[1].ID == "b2" {
		t.Errorf("IDs not regenerated: %+v", s.Apps)
	}
	if s.Apps[0].ID == s.Apps[1].ID {
		t.Error("regenerated IDs collide")
	}
}
