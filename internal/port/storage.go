package port

import (
	"context"
	"io"
	"time"
)

// ObjectInput is one object written to the document bucket.
type ObjectInput struct {
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64 // 0 when unknown
}

// StoredObject describes a written object. URL is the permanent,
// unsigned location recorded on the upload.
type StoredObject struct {
	URL  string
	ETag string
}

// ObjectStorage is the bucket holding customer documents. Implementations
// wrap client-side failures with resilience.Permanent.
type ObjectStorage interface {
	Put(ctx context.Context, input ObjectInput) (*StoredObject, error)
	// Delete succeeds when the key does not exist.
	Delete(ctx context.Context, key string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
