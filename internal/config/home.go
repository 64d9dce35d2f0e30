package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GetHome returns the tidyspace data directory
// Priority order:
//  1. Config.Home (if set)
//  2. TIDYSPACE_HOME environment variable (if set)
//  3. $XDG_DATA_HOME/tidyspace
//  4. ~/.local/share/tidyspace
//
// The directory is created if it doesn't exist
func (c *Config) GetHome() (string, error) {
	home := c.Home
	if home == "" {
		home = os.Getenv("TIDYSPACE_HOME")
	}
	if home == "" {
		if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
			home = filepath.Join(dataHome, "tidyspace")
		}
	}
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get user home directory: %w", err)
		}
		home = filepath.Join(userHome, ".local", "share", "tidyspace")
	}

	home, err := ExpandPath(home)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create tidyspace home directory: %w", err)
	}
	return home, nil
}

// GetHistoryPath returns the history location for the configured mode and backend.
// Each mode keeps its own file since retention caps differ per mode:
// <home>/history-organize.json, <home>/history-cleanup.db and so on.
// An explicit History.Path names the base; the mode is inserted before its extension.
func (c *Config) GetHistoryPath() (string, error) {
	var base string
	if c.History.Path != "" {
		expanded, err := ExpandPath(c.History.Path)
		if err != nil {
			return "", err
		}
		base = expanded
	} else {
		home, err := c.GetHome()
		if err != nil {
			return "", err
		}
		name := "history.json"
		if c.History.Backend == HistoryBackendSQLite {
			name = "history.db"
		}
		base = filepath.Join(home, name)
	}

	mode := c.Mode
	if mode == "" {
		mode = ModeOrganize
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "-" + string(mode) + ext, nil
}

// GetLogDir returns the run log directory (<home>/logs)
func (c *Config) GetLogDir() (string, error) {
	home, err := c.GetHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "logs"), nil
}

// GetLockDir returns the session lock directory (<home>/locks)
// Locks live outside organized directories so dry-runs leave them untouched.
func (c *Config) GetLockDir() (string, error) {
	home, err := c.GetHome()
	if err != nil {
		return "", err
	}

	lockDir := filepath.Join(home, "locks")
	if err := os.MkdirAll(lockDir, 0755); err != nil {
		return "", fmt.Errorf("create lock directory: %w", err)
	}
	return lockDir, nil
}

// ExpandPath expands a leading ~ and environment variables, then returns an absolute path
func ExpandPath(path string) (string, error) {
	path = os.ExpandEnv(path)

	if path == "~" || len(path) > 1 && path[0] == '~' && os.IsPathSeparator(path[1]) {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %s: %w", path, err)
		}
		path = filepath.Join(userHome, path[1:])
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}
