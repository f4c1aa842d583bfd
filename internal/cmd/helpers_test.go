package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/steveyegge/iris/internal/apps"
	"github.com/steveyegge/iris/internal/config"
	"github.com/steveyegge/iris/internal/console"
	"github.com/steveyegge/iris/internal/session"
)

// setupIris points iris at a temp home and an in-memory console host that
// is shared by every command run in the test.
func setupIris(t *testing.T) (*console.Double, string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv("NO_COLOR", "1")

	settings := "script_dir = '" + filepath.Join(home, "scripts") + "'\n"
	if err := os.WriteFile(filepath.Join(home, "settings.toml"), []byte(settings), 0644); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	host := console.NewDouble()
	prevHost, prevTiming := newHost, sessionTiming
	newHost = func(console.Options) console.Host { return host }
	sessionTiming = session.Timing{
		Settle:            time.Millisecond,
		DiscoveryAttempts: 2,
		DiscoveryInterval: time.Millisecond,
		RestartDelay:      time.Millisecond,
	}
	t.Cleanup(func() {
		newHost, sessionTiming = prevHost, prevTiming
	})
	return host, home
}

// runIris executes the root command with args and returns what it printed
// to stdout.
func runIris(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	var err error
	out := captureStdout(t, func() {
		err = rootCmd.Execute()
	})
	return out, err
}

// mustRunIris is runIris that fails the test on error.
func mustRunIris(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runIris(t, args...)
	if err != nil {
		t.Fatalf("iris %v: %v\noutput:\n%s", args, err, out)
	}
	return out
}

// resetFlags restores every flag to its default so package-level flag
// variables do not leak between runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("create pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stdout = old
	out := <-done
	_ = r.Close()
	return out
}

// loadTestApps reads the application document from the temp home.
func loadTestApps(t *testing.T, home string) *apps.State {
	t.Helper()
	st, err := config.Load(config.Paths{Dir: home}.Apps())
	if err != nil {
		t.Fatalf("load apps: %v", err)
	}
	return st
}

func decodeJSON(t *testing.T, out string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(out), v); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
}
