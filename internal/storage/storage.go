// Package storage holds the animal icon assets referenced by the animals
// table, behind a backend-agnostic object interface.
package storage

import (
	"context"
	"io"
)

// ObjectStorage defines the object operations shared across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Bucket() string
}

// IconStore wraps an ObjectStorage backend with the icon-asset API.
type IconStore struct {
	backend ObjectStorage
}

// NewIconStore constructs an IconStore for the provided backend.
func NewIconStore(backend ObjectStorage) *IconStore {
	return &IconStore{backend: backend}
}

// EnsureBucket ensures the configured bucket exists.
func (s *IconStore) EnsureBucket(ctx context.Context) error {
	return s.backend.EnsureBucket(ctx)
}

// Put uploads an icon asset under the given key.
func (s *IconStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return s.backend.Put(ctx, key, r, size, contentType)
}

// Get opens a reader for the icon asset stored under key.
func (s *IconStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.backend.Get(ctx, key)
}

// Bucket returns the configured bucket name.
func (s *IconStore) Bucket() string {
	return s.backend.Bucket()
}
