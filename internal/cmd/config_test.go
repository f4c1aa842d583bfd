package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/iris/internal/exitcode"
	"github.com/steveyegge/iris/internal/script"
)

func TestConfigPath(t *testing.T) {
	_, home := setupIris(t)

	out := mustRunIris(t, "config", "path")
	assert.Contains(t, out, home)
	assert.Contains(t, out, filepath.Join(home, "config.json"))
	assert.Contains(t, out, filepath.Join(home, "settings.toml"))
}

func TestConfigExportImport(t *testing.T) {
	_, home := setupIris(t)
	addTestApp(t, "API", "npm run dev")
	addTestApp(t, "Web", "npm start")
	file := filepath.Join(t.TempDir(), "iris-config.json")

	out := mustRunIris(t, "config", "export", file)
	assert.Contains(t, out, "Exported 2 application(s)")

	out = mustRunIris(t, "config", "import", file)
	assert.Contains(t, out, "Imported 2 application(s)")

	st := loadTestApps(t, home)
	require.Equal(t, 4, st.Len())
	seen := map[string]bool{}
	for _, rec := range st.Apps {
		assert.False(t, seen[rec.ID], "imported apps get fresh ids")
		seen[rec.ID] = true
	}
	assert.Equal(t, "API", st.Apps[2].Name)
}

func TestConfigImport_MissingFile(t *testing.T) {
	setupIris(t)
	_, err := runIris(t, "config", "import", filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, exitcode.ErrFileNotFound, exitcode.Code(err))
}

func TestConfigSettings(t *testing.T) {
	_, home := setupIris(t)
	settings := "log_level = 'debug'\ntick_ms = 250\nterminal = ['xterm', '-e']\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, "settings.toml"), []byte(settings), 0644))

	out := mustRunIris(t, "config", "settings")
	assert.Contains(t, out, "log_level  = DEBUG")
	assert.Contains(t, out, "tick_ms    = 250")
	assert.Contains(t, out, `["xterm" "-e"]`)
	assert.Contains(t, out, "(system temp dir)")
}

func TestScript(t *testing.T) {
	_, home := setupIris(t)
	addTestApp(t, "API", "npm install", "npm run dev")
	id := loadTestApps(t, home).Apps[0].ID

	out := mustRunIris(t, "script", "API", "--dialect", "batch")
	assert.True(t, strings.HasPrefix(out, "@echo off\r\n"), "got %q", out)
	assert.Contains(t, out, "call npm run dev\r\n")
	assert.Contains(t, out, "title [IRIS] API\r\n")

	out = mustRunIris(t, "script", "API", "--dialect", "shell")
	assert.Contains(t, out, "npm run dev\n")
	assert.NotContains(t, out, "\r\n")

	out = mustRunIris(t, "script", "API", "--dialect", "shell", "--render")
	assert.Contains(t, out, script.FileName(script.Shell, id))
	assert.Contains(t, out, "npm run dev")

	_, err := runIris(t, "script", "API", "--dialect", "fish")
	assert.Equal(t, exitcode.ErrUsage, exitcode.Code(err))
}

func TestVersion(t *testing.T) {
	setupIris(t)
	out := mustRunIris(t, "version")
	assert.True(t, strings.HasPrefix(out, "iris "+Version), "got %q", out)
}
