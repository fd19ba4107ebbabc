// Package images provides listing photo processing and storage.
package images

import "context"

// Backend abstracts where image bytes live. The local backend writes to
// disk and serves through the API; the S3 backend pushes to object storage
// and serves through a public bucket URL.
type Backend interface {
	// Save stores image data under the given key.
	Save(ctx context.Context, key string, data []byte, contentType string) error

	// Get retrieves image data by key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Exists reports whether an image exists for the key.
	Exists(ctx context.Context, key string) bool

	// Delete removes an image. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL clients should use to fetch the image.
	URL(key string) string
}
