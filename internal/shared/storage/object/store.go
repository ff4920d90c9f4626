package object

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrCredentials is returned when the backing store rejects the configured credentials.
	ErrCredentials = errors.New("object store credentials rejected")
	// ErrBucketNotFound is returned when the configured bucket or root does not exist.
	ErrBucketNotFound = errors.New("object store bucket not found")
	// ErrNotFound is returned when an object key does not exist.
	ErrNotFound = errors.New("object not found")
	// ErrInvalidKey is returned for keys escaping the store root.
	ErrInvalidKey = errors.New("invalid storage key")
)

// PutInput describes an object write.
type PutInput struct {
	Key                string
	ContentType        string
	ContentDisposition string
	Body               io.Reader
}

// ObjectStore defines the contract for saving, reading and deleting binary objects.
type ObjectStore interface {
	Put(ctx context.Context, in PutInput) (sizeBytes int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// URL returns the public URL an object is served from.
	URL(key string) string
}
