// Package pathutil resolves the user-supplied paths found in roster's
// config, prefs, snapshot and log settings.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Expand trims path, replaces a leading "~" with the home directory and
// returns the absolute result. A blank path is an error.
func Expand(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

// ExpandOr expands path, or fallback when path is blank.
func ExpandOr(path, fallback string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return Expand(fallback)
	}
	return Expand(path)
}
