package objectstore

import (
	"context"
	"io"
	"time"
)

// ObjectInfo describes a stored object without its contents.
type ObjectInfo struct {
	Key          string
	ETag         string
	Size         int64
	LastModified time.Time
}

// Object is an opened stored object. The caller owns Body and must close it.
type Object struct {
	Body io.ReadCloser
	Info ObjectInfo
}

// Store is the boundary to an S3-compatible object store. Implementations
// hide pagination: List and ListPrefixes return complete result sets.
type Store interface {
	// List returns every object whose key starts with prefix,
	// across all result pages.
	List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	// ListPrefixes returns the common prefixes directly below prefix,
	// using "/" as the delimiter. Each returned prefix ends with "/".
	ListPrefixes(ctx context.Context, bucket, prefix string) ([]string, error)
	// Stat returns the object's metadata without opening its content.
	// Errors classify like Get.
	Stat(ctx context.Context, bucket, key string) (ObjectInfo, error)
	// Get opens the object at key. Missing objects yield an error
	// matching ErrNotFound; credential rejections yield an AccessError.
	Get(ctx context.Context, bucket, key string) (*Object, error)
}
