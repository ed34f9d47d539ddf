// Package objectstore defines the small slice of S3-compatible storage that
// backup rotation needs: listing backups under a prefix, checking that one
// exists and deleting it.
//
//	store, err := s3.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	objs, err := store.List(ctx, "backups/pg/")
//
// Implementations must be safe for concurrent use.
package objectstore

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested object does not exist.
	ErrNotFound = errors.New("object not found")

	// ErrAccessDenied is returned when the credentials lack permission for the operation.
	ErrAccessDenied = errors.New("access denied")

	// ErrClosed is returned by MockStore after Close.
	ErrClosed = errors.New("store is closed")
)

// ObjectError wraps an error with the object key for context.
type ObjectError struct {
	Op  string // Operation that failed (e.g., "Head", "Delete")
	Key string
	Err error
}

func (e *ObjectError) Error() string {
	return fmt.Sprintf("objectstore: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *ObjectError) Unwrap() error {
	return e.Err
}

// ObjectMeta contains metadata about an object.
type ObjectMeta struct {
	Key  string
	Size int64

	// LastModified is the Unix timestamp in milliseconds.
	LastModified int64
}

// Store is the interface for object storage operations.
type Store interface {
	// List returns objects under prefix in lexicographic key order.
	List(ctx context.Context, prefix string) ([]ObjectMeta, error)

	// Head returns metadata for key, or ErrNotFound.
	Head(ctx context.Context, key string) (ObjectMeta, error)

	// Delete removes key. Deleting a missing key succeeds, as on S3.
	Delete(ctx context.Context, key string) error

	Close() error
}
