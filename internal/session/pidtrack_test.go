package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/steveyegge/iris/internal/console"
)

func TestTrack_WritesFile(t *testing.T) {
	tr := NewPIDTracker(t.TempDir())

	if err := tr.Track("app-1", 12345); err != nil {
		t.Fatalf("Track() error = %v", err)
	}

	data, err := os.ReadFile(tr.file("app-1"))
	if err != nil {
		t.Fatalf("reading PID file: %v", err)
	}
	if got := string(data); got != "12345\n" {
		t.Errorf("PID file content = %q, want %q", got, "12345\n")
	}
}

func TestTrack_CreatesDirectory(t *testing.T) {
	tr := NewPIDTracker(t.TempDir())

	if err := tr.Track("app-1", 99); err != nil {
		t.Fatalf("Track() error = %v", err)
	}

	info, err := os.Stat(tr.Dir())
	if err != nil {
		t.Fatalf("pids directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("pids path is not a directory")
	}
}

func TestUntrack_RemovesFile(t *testing.T) {
	tr := NewPIDTracker(t.TempDir())

	if err := tr.Track("app-1", 111); err != nil {
		t.Fatalf("Track() error = %v", err)
	}

	tr.Untrack("app-1")

	if _, err := os.Stat(tr.file("app-1")); !os.IsNotExist(err) {
		t.Error("PID file should be removed after Untrack")
	}
}

func TestUntrack_NoopOnMissing(t *testing.T) {
	tr := NewPIDTracker(t.TempDir())
	// Should not panic or error on missing file
	tr.Untrack("nonexistent")
}

func TestList_SkipsNonPidAndRemovesCorrupt(t *testing.T) {
	tr := NewPIDTracker(t.TempDir())
	if err := tr.Track("good", 42); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tr.Dir(), "readme.txt"), []byte("ignore me"), 0644); err != nil {
		t.Fatal(err)
	}
	corrupt := filepath.Join(tr.Dir(), "bad.pid")
	if err := os.WriteFile(corrupt, []byte("not-a-number\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tracked, errs := tr.List()
	if len(errs) != 0 {
		t.Errorf("errs = %v, want empty", errs)
	}
	if len(tracked) != 1 || tracked[0].ID != "good" || tracked[0].PID != 42 {
		t.Errorf("tracked = %+v", tracked)
	}
	if tracked[0].Since.IsZero() {
		t.Error("Since should come from the file's modification time")
	}
	if _, err := os.Stat(corrupt); !os.IsNotExist(err) {
		t.Error("corrupt PID file should be removed")
	}
}

func TestKillTracked_EmptyDir(t *testing.T) {
	tr := NewPIDTracker(t.TempDir())
	killed, errs := tr.KillTracked(context.Background(), console.NewDouble())
	if killed != 0 {
		t.Errorf("killed = %d, want 0", killed)
	}
	if len(errs) != 0 {
		t.Errorf("errs = %v, want empty", errs)
	}
}

func TestKillTracked_KillsLiveTreesAndCleansUp(t *testing.T) {
	host := console.NewDouble()
	live := host.AddProcess(0, "[IRIS] API", "cmd /c iris_api.bat")
	child := host.AddProcess(live, "", "node server.js")
	dead := host.AddProcess(0, "[IRIS] Web", "cmd /c iris_web.bat")
	host.Exit(dead)

	tr := NewPIDTracker(t.TempDir())
	if err := tr.Track("api", live); err != nil {
		t.Fatal(err)
	}
	if err := tr.Track("web", dead); err != nil {
		t.Fatal(err)
	}

	killed, errs := tr.KillTracked(context.Background(), host)
	if killed != 1 {
		t.Errorf("killed = %d, want 1", killed)
	}
	if len(errs) != 0 {
		t.Errorf("errs = %v, want empty (dead process is not an error)", errs)
	}
	if p, _ := host.Process(child); p.Alive {
		t.Error("child of a tracked console should be killed with it")
	}

	tracked, _ := tr.List()
	if len(tracked) != 0 {
		t.Errorf("PID files should be cleaned up, found %+v", tracked)
	}
}

func TestPIDTracker_FilePath(t *testing.T) {
	tr := NewPIDTracker(filepath.FromSlash("/home/user/.config/iris"))
	got := tr.file("1234")
	want := filepath.FromSlash("/home/user/.config/iris/pids/1234.pid")
	if got != want {
		t.Errorf("file() = %q, want %q", got, want)
	}
}
