package filepathparser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ParsePath expands a leading "~" to the user's home directory and returns
// the absolute path.
func ParsePath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding %s: %w", path, err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}

	return filepath.Abs(path)
}

// ParseFilePath is ParsePath for a path that must name an existing regular file.
func ParseFilePath(path string) (string, error) {
	absPath, err := ParsePath(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", absPath)
	}
	return absPath, nil
}
