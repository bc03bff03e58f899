package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// appName is the directory name used under the user config directory.
const appName = "cachemole"

// HomeDir returns the invoking user's home directory.
// $HOME wins over the password database so tests and sudo -E behave.
func HomeDir() (string, error) {
	if h := os.Getenv("HOME"); h != "" {
		return filepath.Clean(h), nil
	}
	h, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Clean(h), nil
}

// ExpandHome resolves a leading "~" against home and cleans the result.
// Other paths are only cleaned.
func ExpandHome(path, home string) string {
	switch {
	case path == "~":
		return filepath.Clean(home)
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:])
	default:
		return filepath.Clean(path)
	}
}

// ExpandAll applies ExpandHome to every entry.
func ExpandAll(paths []string, home string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, ExpandHome(p, home))
	}
	return out
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/cachemole/config.yaml, or the
// platform equivalent from os.UserConfigDir.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(dir, appName, "config.yaml"), nil
}
