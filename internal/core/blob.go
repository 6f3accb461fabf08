package core

import (
	"context"
	"time"
)

// BlobSigner issues short-lived URLs that authorize exactly one operation on
// one blob path.
type BlobSigner interface {
	// SignPut returns a URL that accepts a PUT of contentType bytes at path until ttl elapses.
	SignPut(ctx context.Context, path, contentType string, ttl time.Duration) (string, error)

	// SignGet returns a URL that serves the blob at path until ttl elapses.
	SignGet(ctx context.Context, path string, ttl time.Duration) (string, error)

	// Name returns the signer name for logging
	Name() string
}

// BlobInfo describes a blob that exists in storage.
type BlobInfo struct {
	Path        string
	Size        int64
	ContentType string
	ModTime     time.Time
}

// BlobInspector is implemented by storage backends that can confirm a blob
// was written and remove it. Remote signers do not provide it.
type BlobInspector interface {
	Stat(ctx context.Context, path string) (*BlobInfo, error)
	Remove(ctx context.Context, path string) error
}
