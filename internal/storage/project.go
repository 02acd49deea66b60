package storage

import (
	"os"
	"path/filepath"
)

// DataDirName is the directory holding a board, either inside a project or in the home directory.
const DataDirName = ".lanes"

// FindDataDir walks up from start looking for a DataDirName directory and
// returns the first one found. Without one it falls back to ~/.lanes.
func FindDataDir(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, DataDirName)
		info, err := os.Stat(candidate)
		if err == nil && info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root without finding a project board
			break
		}
		dir = parent
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DataDirName), nil
}
