package object

import (
	"context"
	"errors"
	"time"
)

// ErrObjectNotFound is returned by Head when no object exists at the key.
var ErrObjectNotFound = errors.New("object not found")

// DefaultUploadTTL is the validity window of presigned upload URLs.
const DefaultUploadTTL = 900 * time.Second

// Info is the metadata reported by a successful Head.
type Info struct {
	Size        int64
	ContentType string
}

// Store issues direct-upload URLs and inspects uploaded objects. Callers
// upload out of band; the API never proxies object bytes.
type Store interface {
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	Head(ctx context.Context, key string) (Info, error)
}
