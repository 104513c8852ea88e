package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrObjectNotFound = errors.New("object not found")

// Object describes a stored file.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

type FileStorage interface {
	// Upload stores the content under key and returns the normalized key
	Upload(ctx context.Context, file io.Reader, key string, contentType string) (string, error)

	// Download opens a stored file; the caller closes it
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file. Missing files are not an error
	Delete(ctx context.Context, key string) error

	// List returns the objects under prefix, newest first
	List(ctx context.Context, prefix string) ([]Object, error)

	// GetURL generates a presigned/public URL
	GetURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// Exists checks if file exists
	Exists(ctx context.Context, key string) (bool, error)
}
