package objectstore

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryObject struct {
	data         []byte
	etag         string
	lastModified time.Time
}

// Memory is an in-process Store for tests and local experimentation.
type Memory struct {
	mu      sync.RWMutex
	buckets map[string]map[string]memoryObject
	denied  map[string]bool
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		buckets: make(map[string]map[string]memoryObject),
		denied:  make(map[string]bool),
	}
}

// Put stores an object. The ETag is the MD5 of the content, matching
// what S3 reports for simple uploads.
func (m *Memory) Put(bucket, key string, data []byte, lastModified time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.buckets[bucket] == nil {
		m.buckets[bucket] = make(map[string]memoryObject)
	}
	sum := md5.Sum(data)
	m.buckets[bucket][key] = memoryObject{
		data:         append([]byte(nil), data...),
		etag:         hex.EncodeToString(sum[:]),
		lastModified: lastModified,
	}
}

// Deny makes every operation on bucket fail with an AccessError.
func (m *Memory) Deny(bucket string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.denied[bucket] = true
}

func (m *Memory) List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkAccess(bucket); err != nil {
		return nil, err
	}
	var out []ObjectInfo
	for key, obj := range m.buckets[bucket] {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		out = append(out, ObjectInfo{
			Key:          key,
			ETag:         obj.etag,
			Size:         int64(len(obj.data)),
			LastModified: obj.lastModified,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *Memory) ListPrefixes(ctx context.Context, bucket, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkAccess(bucket); err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for key := range m.buckets[bucket] {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := key[len(prefix):]
		slash := strings.Index(rest, "/")
		if slash < 0 {
			continue
		}
		seen[prefix+rest[:slash+1]] = true
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

func (m *Memory) Stat(ctx context.Context, bucket, key string) (ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkAccess(bucket); err != nil {
		return ObjectInfo{}, err
	}
	obj, ok := m.buckets[bucket][key]
	if !ok {
		return ObjectInfo{}, fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, key)
	}
	return ObjectInfo{
		Key:          key,
		ETag:         obj.etag,
		Size:         int64(len(obj.data)),
		LastModified: obj.lastModified,
	}, nil
}

func (m *Memory) Get(ctx context.Context, bucket, key string) (*Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkAccess(bucket); err != nil {
		return nil, err
	}
	obj, ok := m.buckets[bucket][key]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, key)
	}
	return &Object{
		Body: io.NopCloser(bytes.NewReader(obj.data)),
		Info: ObjectInfo{
			Key:          key,
			ETag:         obj.etag,
			Size:         int64(len(obj.data)),
			LastModified: obj.lastModified,
		},
	}, nil
}

func (m *Memory) checkAccess(bucket string) error {
	if m.denied[bucket] {
		return &AccessError{Code: "AccessDenied", Cause: fmt.Errorf("bucket %q denies access", bucket)}
	}
	return nil
}
