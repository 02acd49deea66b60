// Package lock records which process is the long-running writer of a data
// directory, so one-shot commands do not race it for tasks.json.
package lock

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	laneserrors "github.com/abatilo/lanes/internal/errors"
)

const lockFile = "lanes.lock"

// Lock describes the process that owns a data directory.
type Lock struct {
	ID        string    `json:"id"`
	PID       int       `json:"pid"`
	Hostname  string    `json:"hostname"`
	Command   string    `json:"command"`
	StartedAt time.Time `json:"started_at"`
}

// lockPath returns the full path to lanes.lock for the given base path.
func lockPath(basePath string) string {
	return filepath.Join(basePath, lockFile)
}

// Exists checks if a lock file exists.
func Exists(basePath string) bool {
	_, err := os.Stat(lockPath(basePath))
	return err == nil
}

// Load reads the lock from disk.
func Load(basePath string) (*Lock, error) {
	data, err := os.ReadFile(lockPath(basePath))
	if err != nil {
		return nil, err
	}

	var l Lock
	if unmarshalErr := json.Unmarshal(data, &l); unmarshalErr != nil {
		return nil, unmarshalErr
	}

	return &l, nil
}

// Delete removes the lock file.
func Delete(basePath string) error {
	err := os.Remove(lockPath(basePath))
	if errors.Is(err, fs.ErrNotExist) {
		return nil // Already deleted, not an error
	}
	return err
}

// Alive reports whether the owning process still runs. Locks taken on another
// host cannot be checked and count as alive.
func (l *Lock) Alive() bool {
	host, err := os.Hostname()
	if err != nil || host != l.Hostname {
		return true
	}
	return processAlive(l.PID)
}

// Claim takes the lock for this process. If a live process already holds it,
// Claim returns (nil, owner, nil). A lock left behind by a dead process is replaced.
func Claim(basePath, command string) (*Lock, *Lock, error) {
	//nolint:gosec // G301: 0755 is appropriate for user-accessible data directory
	if mkdirErr := os.MkdirAll(basePath, 0o755); mkdirErr != nil {
		return nil, nil, mkdirErr
	}

	host, err := os.Hostname()
	if err != nil {
		return nil, nil, err
	}
	mine := &Lock{
		ID:        uuid.NewString(),
		PID:       os.Getpid(),
		Hostname:  host,
		Command:   command,
		StartedAt: time.Now().UTC(),
	}

	for range 2 {
		created, createErr := create(basePath, mine)
		if createErr != nil {
			return nil, nil, createErr
		}
		if created {
			return mine, nil, nil
		}

		existing, loadErr := Load(basePath)
		if errors.Is(loadErr, fs.ErrNotExist) {
			continue // Released between our create and load
		}
		if loadErr == nil && existing.Alive() {
			return nil, existing, nil
		}

		// Stale or unreadable lock, take it over
		if deleteErr := Delete(basePath); deleteErr != nil {
			return nil, nil, deleteErr
		}
	}

	existing, _ := Load(basePath)
	return nil, existing, nil
}

// create writes l only if no lock file exists yet.
func create(basePath string, l *Lock) (bool, error) {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return false, err
	}

	//nolint:gosec // G302: 0644 is appropriate for user-readable lock files
	f, err := os.OpenFile(lockPath(basePath), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if _, writeErr := f.Write(data); writeErr != nil {
		f.Close()
		return false, writeErr
	}
	return true, f.Close()
}

// Release removes the lock if id owns it. Returns true if released, false if not the owner.
func Release(basePath, id string) (bool, error) {
	existing, loadErr := Load(basePath)
	if errors.Is(loadErr, fs.ErrNotExist) {
		// No lock to release
		return false, nil
	}
	if loadErr != nil {
		return false, loadErr
	}

	if existing.ID != id {
		// Not the owner, can't release
		return false, nil
	}

	if deleteErr := Delete(basePath); deleteErr != nil {
		return false, deleteErr
	}

	return true, nil
}

// Check returns a LockedError when another live process holds the lock.
func Check(basePath string) error {
	existing, err := Load(basePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		// An unreadable lock cannot name an owner; treat it as stale
		return nil //nolint:nilerr // unreadable lock is not a holder
	}
	if existing.PID == os.Getpid() || !existing.Alive() {
		return nil
	}
	return laneserrors.LockedError{PID: existing.PID, Hostname: existing.Hostname}
}
