package fetcher

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/seaward/artifact-fetch/service/objectstore"
)

// A Fetcher resolves and retrieves one artifact. Implementations memoize
// their properties: each is computed at most once, on first success, and
// failed computations are retried on the next call. A Fetcher is
// single-use and not safe for concurrent use.
type Fetcher interface {
	// URL is the artifact reference with the local_file hint removed.
	// It identifies the artifact in the cache index.
	URL() string
	// RealURL is the canonical address of the resolved content.
	RealURL(ctx context.Context) (string, error)
	// StalenessToken is an opaque content-identity token. An empty
	// token means the strategy has no staleness signal for this
	// artifact.
	StalenessToken(ctx context.Context) (string, error)
	// Open returns the content stream. The caller closes it.
	Open(ctx context.Context) (io.ReadCloser, error)
	// LocalFileHint is the destination-name suggestion carried by the
	// reference, or empty.
	LocalFileHint() string
}

// Options configures fetcher construction.
type Options struct {
	// Authenticated selects signed object-store requests. The
	// schemabackup scheme ignores this and always signs.
	Authenticated bool
	// Endpoint, Region and Insecure configure the object-store
	// connection. Ignored when Store is set.
	Endpoint string
	Region   string
	Insecure bool
	// Store overrides the object-store connection, for callers that
	// already hold a client and for tests.
	Store objectstore.Store
	// HTTPClient serves the http and https schemes.
	// Nil means http.DefaultClient.
	HTTPClient *http.Client
	// Logger receives resolution progress. Nil means slog.Default().
	Logger *slog.Logger
}

func (o Options) store(authenticated bool) (objectstore.Store, error) {
	if o.Store != nil {
		return o.Store, nil
	}
	return objectstore.NewClient(objectstore.Config{
		Endpoint:      o.Endpoint,
		Region:        o.Region,
		Authenticated: authenticated,
		Insecure:      o.Insecure,
	})
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) httpClient() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return http.DefaultClient
}
