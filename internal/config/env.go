// Package config locates iris's per-user files and reads and writes them:
// the application document (config.json) and user settings
// (settings.toml).
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvHome overrides the config directory.
const EnvHome = "IRIS_HOME"

const (
	appsFile     = "config.json"
	settingsFile = "settings.toml"
	logFile      = "iris.log"
)

// Paths are the files under one config directory.
type Paths struct {
	Dir string
}

// Dir returns the config directory: $IRIS_HOME if set, otherwise
// <user config dir>/iris.
func Dir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config dir: %w", err)
	}
	return filepath.Join(base, "iris"), nil
}

// DefaultPaths returns the Paths for Dir().
func DefaultPaths() (Paths, error) {
	dir, err := Dir()
	if err != nil {
		return Paths{}, err
	}
	return Paths{Dir: dir}, nil
}

// Apps is the application document.
func (p Paths) Apps() string { return filepath.Join(p.Dir, appsFile) }

// Settings is the user settings file.
func (p Paths) Settings() string { return filepath.Join(p.Dir, settingsFile) }

// Log is the log file the CLI writes to.
func (p Paths) Log() string { return filepath.Join(p.Dir, logFile) }

// State is the directory for runtime state such as tracked PIDs.
func (p Paths) State() string { return p.Dir }

// Ensure creates the config directory.
func (p Paths) Ensure() error {
	if err := os.MkdirAll(p.Dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", p.Dir, err)
	}
	return nil
}
