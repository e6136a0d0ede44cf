// Package filestore abstracts a remote object store bucket. Implementations
// live in miniowr (MinIO) and s3wr (AWS S3) and must be safe for concurrent use.
package filestore

import (
	"context"
	"io"
	"time"

	"github.com/code19m/errx"
)

// ObjectStore reads and writes objects of a single bucket.
type ObjectStore interface {
	// Scheme is the URI scheme used for keys of this store, e.g. "s3".
	Scheme() string
	Bucket() string

	// Put streams size bytes from r to key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*ObjectInfo, error)
	// Get opens key for reading; the caller closes Object.Content.
	Get(ctx context.Context, key string) (*Object, error)
	// Stat fails with CodeObjectNotFound for a missing key.
	Stat(ctx context.Context, key string) (*ObjectInfo, error)
	// Delete succeeds for a missing key.
	Delete(ctx context.Context, key string) error
}

type Object struct {
	Content io.ReadCloser
	Info    ObjectInfo
}

type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
}

// NotFound builds the error every implementation returns for a missing key.
func NotFound(bucket, key string) error {
	return errx.New(
		"object not found",
		errx.WithCode(CodeObjectNotFound),
		errx.WithType(errx.T_NotFound),
		errx.WithDetails(errx.D{"bucket": bucket, "key": key}),
	)
}
