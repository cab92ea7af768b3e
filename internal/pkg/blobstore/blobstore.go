// Package blobstore abstracts public-file storage: upload a blob under a
// path, get its public URL, delete it.
package blobstore

import (
	"context"
	"io"
)

// Storage is the blob-storage client contract.
type Storage interface {
	// Upload stores the blob under path and returns its public URL.
	Upload(ctx context.Context, path string, r io.Reader, contentType string) (string, error)

	// UploadBytes stores raw bytes under path and returns the public URL.
	UploadBytes(ctx context.Context, path string, data []byte, contentType string) (string, error)

	// Delete removes the blob stored under path.
	Delete(ctx context.Context, path string) error

	// PublicURL returns the public URL for a stored path.
	PublicURL(path string) string
}
