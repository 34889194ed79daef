package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/seaward/artifact-fetch/api"
	"github.com/seaward/artifact-fetch/service/objectstore"
)

// defaultFilenamePattern matches the artifacts these buckets usually
// hold when the reference carries no pattern parameter.
const defaultFilenamePattern = `^.*\.war$`

// resolvingObject is the shared behavior of strategies that must
// discover their object key before fetching. Resolution runs at most
// once; afterwards a plain Object fetcher takes over for the resolved
// key, so retrieval and staleness behave exactly like a direct s3://
// reference to that key.
type resolvingObject struct {
	artifact api.Artifact
	store    objectstore.Store
	logger   *slog.Logger
	resolve  func(ctx context.Context) (string, error)
	key      string
	inner    *Object
}

func (r *resolvingObject) resolvedKey(ctx context.Context) (string, error) {
	if r.key != "" {
		return r.key, nil
	}
	key, err := r.resolve(ctx)
	if err != nil {
		return "", err
	}
	r.key = key
	return key, nil
}

func (r *resolvingObject) fetcher(ctx context.Context) (*Object, error) {
	if r.inner != nil {
		return r.inner, nil
	}
	key, err := r.resolvedKey(ctx)
	if err != nil {
		return nil, err
	}
	r.inner = newObjectForKey(r.artifact.Authority, key, r.store)
	return r.inner, nil
}

func (r *resolvingObject) URL() string {
	return r.artifact.URL()
}

func (r *resolvingObject) RealURL(ctx context.Context) (string, error) {
	key, err := r.resolvedKey(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("s3://%s/%s", r.artifact.Authority, key), nil
}

func (r *resolvingObject) StalenessToken(ctx context.Context) (string, error) {
	inner, err := r.fetcher(ctx)
	if err != nil {
		return "", err
	}
	return inner.StalenessToken(ctx)
}

func (r *resolvingObject) Open(ctx context.Context) (io.ReadCloser, error) {
	inner, err := r.fetcher(ctx)
	if err != nil {
		return nil, err
	}
	return inner.Open(ctx)
}

func (r *resolvingObject) LocalFileHint() string {
	return r.artifact.LocalFileHint
}
