package ports

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	// ErrLockTimeout is transient: the whole operation may be retried.
	ErrLockTimeout = errors.New("lock wait timed out")
)
