// Package statepaths resolves the on-disk locations the assistant
// uses, from config keys with a home-relative fallback.
package statepaths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const defaultRootDir = "~/.orchestrai"

// ContactsPath returns the contact directory file. The extension
// decides the format (.json, .csv, .yaml).
func ContactsPath() string {
	if p := strings.TrimSpace(viper.GetString("contacts.path")); p != "" {
		return ExpandHomePath(p)
	}
	return filepath.Join(ExpandHomePath(defaultRootDir), "contacts.json")
}

// StateDir returns the directory holding per-thread conversation state.
func StateDir() string {
	if p := strings.TrimSpace(viper.GetString("state.dir")); p != "" {
		return ExpandHomePath(p)
	}
	return filepath.Join(ExpandHomePath(defaultRootDir), "state")
}

func ExpandHomePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
