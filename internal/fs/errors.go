package fs

import (
	"errors"
	"io/fs"
	"syscall"
)

// defines helpers for classifying filesystem errors.
// Transient errors are retried, everything else fails immediately.

func isTransient(err error) bool {
	if errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, syscall.EBUSY) ||
		errors.Is(err, syscall.ETIMEDOUT) {
		return true
	}

	return false
}

// ErrNotExist is the sentinel a missing file unwraps to.
var ErrNotExist = fs.ErrNotExist

// IsNotExist reports whether err says the file is already gone.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
