package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultTickMS is the default dashboard refresh period.
const DefaultTickMS = 500

// Settings are user preferences read from settings.toml.
type Settings struct {
	// ScriptDir receives generated launch scripts. Empty means the OS
	// temp dir.
	ScriptDir string `toml:"script_dir"`

	// Terminal is an argv prefix that opens a terminal window on Unix,
	// e.g. ["x-terminal-emulator", "-e"].
	Terminal []string `toml:"terminal"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// TickMS is how often the dashboard reconciles and redraws.
	TickMS int `toml:"tick_ms"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		LogLevel: "info",
		TickMS:   DefaultTickMS,
	}
}

// LoadSettings reads settings from path. A missing file yields defaults.
// Fields absent from the file keep their defaults. On a parse error the
// defaults are returned along with the error.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("reading settings: %w", err)
	}

	if _, err := toml.Decode(string(data), &s); err != nil {
		return DefaultSettings(), fmt.Errorf("parsing settings: %w", err)
	}
	if s.TickMS <= 0 {
		s.TickMS = DefaultTickMS
	}
	if _, err := ParseLevel(s.LogLevel); err != nil {
		return s, err
	}
	return s, nil
}

// Tick returns TickMS as a duration.
func (s Settings) Tick() time.Duration {
	return time.Duration(s.TickMS) * time.Millisecond
}

// Level returns the slog level for LogLevel, defaulting to info.
func (s Settings) Level() slog.Level {
	lvl, err := ParseLevel(s.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// ParseLevel maps a level name to a slog.Level. The empty string is info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level %q (want debug, info, warn or error)", name)
}
