package storage

import (
	"context"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const blobBucket = "blobs"

// BoltAdapter keeps every blob as a key in a single bbolt bucket.
type BoltAdapter struct {
	db     *bolt.DB
	bucket []byte
}

// OpenBolt opens or creates the database file and ensures the bucket exists.
func OpenBolt(path string) (*BoltAdapter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:mnd // standard directory mode
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second}) //nolint:mnd // owner-only database
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(blobBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &BoltAdapter{
		db:     db,
		bucket: []byte(blobBucket),
	}, nil
}

// Path returns the database file path.
func (a *BoltAdapter) Path() string {
	return a.db.Path()
}

// LoadBlob returns a copy of the stored value.
func (a *BoltAdapter) LoadBlob(ctx context.Context, name string) ([]byte, bool, error) {
	if a == nil || a.db == nil {
		return nil, false, bolt.ErrDatabaseNotOpen
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var (
		data  []byte
		found bool
	)
	err := a.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(a.bucket).Get([]byte(name)); v != nil {
			data = append([]byte{}, v...)
			found = true
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return data, found, nil
}

// SaveBlob replaces the value in a single transaction.
func (a *BoltAdapter) SaveBlob(ctx context.Context, name string, data []byte) error {
	if a == nil || a.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" {
		return InvalidBlobNameError{Name: name}
	}

	return a.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(a.bucket).Put([]byte(name), append([]byte{}, data...))
	})
}

// Close releases the database file lock.
func (a *BoltAdapter) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}
