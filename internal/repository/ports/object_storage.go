package ports

import (
	"context"
	"io"
)

// ObjectStorage receives archived JSON documents. Upload returns the object URL.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context, bucket string) error
	Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error)
}
