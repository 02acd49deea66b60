package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Blob names the board reads and writes.
const (
	TasksBlob    = "tasks.json"
	MarkdownBlob = "tasks.md"
)

// Backend names accepted by Open.
const (
	BackendFile = "file"
	BackendBolt = "bolt"
)

// boltFile is the database file a bolt backend keeps inside the data directory.
const boltFile = "lanes.db"

// Adapter loads and saves named byte blobs. Loading an absent blob is not an
// error. Saving replaces the blob atomically: readers see the old or the new
// contents, never a mix.
type Adapter interface {
	LoadBlob(ctx context.Context, name string) ([]byte, bool, error)
	SaveBlob(ctx context.Context, name string, data []byte) error
	Close() error
}

// Open returns the adapter for backend rooted at dir.
func Open(backend, dir string) (Adapter, error) {
	switch backend {
	case "", BackendFile:
		a := NewFileAdapter(dir)
		if err := a.Init(); err != nil {
			return nil, err
		}
		return a, nil
	case BackendBolt:
		return OpenBolt(filepath.Join(dir, boltFile))
	default:
		return nil, UnknownBackendError{Backend: backend}
	}
}

// FileAdapter stores each blob as a file in one directory.
type FileAdapter struct {
	basePath string
}

// NewFileAdapter creates a FileAdapter rooted at path.
func NewFileAdapter(path string) *FileAdapter {
	return &FileAdapter{basePath: path}
}

// BasePath returns the directory blobs are written to.
func (a *FileAdapter) BasePath() string {
	return a.basePath
}

// IsInitialized checks if the data directory exists.
func (a *FileAdapter) IsInitialized() bool {
	info, err := os.Stat(a.basePath)
	return err == nil && info.IsDir()
}

// Init creates the data directory.
func (a *FileAdapter) Init() error {
	return os.MkdirAll(a.basePath, 0o755) //nolint:mnd // standard directory mode
}

// blobPath returns the full path for a blob, rejecting anything that is not a bare file name.
func (a *FileAdapter) blobPath(name string) (string, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", InvalidBlobNameError{Name: name}
	}
	return filepath.Join(a.basePath, name), nil
}

// LoadBlob reads a blob. A missing file yields ok=false and no error.
func (a *FileAdapter) LoadBlob(ctx context.Context, name string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	path, err := a.blobPath(name)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// SaveBlob writes data to a temporary file next to the target and renames it into place.
func (a *FileAdapter) SaveBlob(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := a.blobPath(name)
	if err != nil {
		return err
	}
	if err := a.Init(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(a.basePath, "."+name+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil { //nolint:mnd // standard file mode
		return err
	}
	return os.Rename(tmpName, path)
}

// Close is a no-op; files are not held open between calls.
func (a *FileAdapter) Close() error {
	return nil
}
