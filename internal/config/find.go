package config

import (
	"os"
	"path/filepath"

	"github.com/mmr-tortoise/dog/internal/model"
)

// FindProjectConfig looks for a dog.config file in dir and then in each of
// its parents, returning the first one found.
func FindProjectConfig(dir string) (string, error) {
	dir = filepath.Clean(dir)
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", model.NewCLIErrorf(model.ExitConfigError,
		"Could not find %s in current directory or one of its parents", FileName)
}

// UserConfigPath returns the location of the per-user config file for the
// given home directory.
func UserConfigPath(home string) string {
	return filepath.Join(home, UserFileName)
}
