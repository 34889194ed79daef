package fetcher

import (
	"context"
	"fmt"
	"io"

	"github.com/seaward/artifact-fetch/api"
	"github.com/seaward/artifact-fetch/service/objectstore"
)

// Object serves s3:// references addressing a single key. The object's
// ETag is the staleness token, taken from a metadata stat so a staleness
// check alone never opens the content. It also backs the resolving
// strategies once they have discovered their key.
type Object struct {
	url    string
	bucket string
	key    string
	hint   string
	store  objectstore.Store
	info   *objectstore.ObjectInfo
	object *objectstore.Object
}

var _ Fetcher = (*Object)(nil)

func NewObject(artifact api.Artifact, store objectstore.Store) *Object {
	return &Object{
		url:    artifact.URL(),
		bucket: artifact.Authority,
		key:    artifact.Key(),
		hint:   artifact.LocalFileHint,
		store:  store,
	}
}

func newObjectForKey(bucket, key string, store objectstore.Store) *Object {
	return &Object{
		url:    fmt.Sprintf("s3://%s/%s", bucket, key),
		bucket: bucket,
		key:    key,
		store:  store,
	}
}

func (o *Object) get(ctx context.Context) (*objectstore.Object, error) {
	if o.object != nil {
		return o.object, nil
	}
	obj, err := o.store.Get(ctx, o.bucket, o.key)
	if err != nil {
		if objectstore.IsAccessDenied(err) {
			return nil, &AuthenticationError{Cause: err}
		}
		return nil, err
	}
	o.object = obj
	o.info = &obj.Info
	return obj, nil
}

func (o *Object) stat(ctx context.Context) (objectstore.ObjectInfo, error) {
	if o.info != nil {
		return *o.info, nil
	}
	info, err := o.store.Stat(ctx, o.bucket, o.key)
	if err != nil {
		if objectstore.IsAccessDenied(err) {
			return objectstore.ObjectInfo{}, &AuthenticationError{Cause: err}
		}
		return objectstore.ObjectInfo{}, err
	}
	o.info = &info
	return info, nil
}

func (o *Object) URL() string {
	return o.url
}

func (o *Object) RealURL(ctx context.Context) (string, error) {
	return o.url, nil
}

func (o *Object) StalenessToken(ctx context.Context) (string, error) {
	info, err := o.stat(ctx)
	if err != nil {
		return "", err
	}
	return info.ETag, nil
}

func (o *Object) Open(ctx context.Context) (io.ReadCloser, error) {
	obj, err := o.get(ctx)
	if err != nil {
		return nil, err
	}
	return obj.Body, nil
}

func (o *Object) LocalFileHint() string {
	return o.hint
}
