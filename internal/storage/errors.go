package storage

import "fmt"

// InvalidBlobNameError indicates a blob name that is not a bare file name.
type InvalidBlobNameError struct {
	Name string
}

func (e InvalidBlobNameError) Error() string {
	return fmt.Sprintf("invalid blob name: %q", e.Name)
}

// UnknownBackendError indicates a storage backend that Open does not know.
type UnknownBackendError struct {
	Backend string
}

func (e UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown storage backend: %s (valid: %s, %s)", e.Backend, BackendFile, BackendBolt)
}

// parseError represents a decoding error in a stored document.
type parseError struct {
	msg string
}

func (e *parseError) Error() string {
	return e.msg
}
