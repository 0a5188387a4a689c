// Package blobstore provides the key-value blob primitive the pantry
// core persists through: opaque values under logical keys, with atomic
// single-key writes supplied by each backend.
package blobstore

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when no value exists for the key.
var ErrKeyNotFound = errors.New("blobstore: key not found")

// Store is the minimal contract the repositories are built on.
type Store interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	// A single Set is atomic: readers never observe a partial write.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
