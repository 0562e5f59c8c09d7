package storage

import "context"

// Storage is the file persistence port. Implementations are synchronous from
// the caller's perspective and fallible; callers decide what a failure means
// for their operation (compensating delete on upload, accepted leak on
// delete).
type Storage interface {
	// Upload persists the bytes under the given object key and returns the
	// public URL of the stored object.
	Upload(ctx context.Context, data []byte, pathHint string, contentType string) (string, error)
	// Delete removes the object behind a URL previously returned by Upload.
	Delete(ctx context.Context, url string) error
}
