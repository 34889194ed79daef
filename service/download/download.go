// Package download orchestrates a full artifact fetch: resolve the
// reference, stream the content through a downloader, and place it at
// its destination path.
package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"

	"github.com/seaward/artifact-fetch/service/cache"
	"github.com/seaward/artifact-fetch/service/fetcher"
	"github.com/seaward/artifact-fetch/service/objectstore"
)

// Result describes a completed download.
type Result struct {
	// LocalFile is the destination path the content was written to.
	LocalFile string `json:"local_file"`
	// RealURL is the canonical address the content came from.
	RealURL string `json:"real_url"`
}

// Options configures a download.
type Options struct {
	// LocalFile is the explicit destination path. It outranks the
	// reference's local_file hint, which outranks the basename of the
	// canonical URL.
	LocalFile string
	// Authenticated selects signed object-store requests.
	Authenticated bool
	// CacheDir roots the download cache. Empty disables caching.
	CacheDir string
	// Endpoint, Region and Insecure configure the object-store
	// connection.
	Endpoint string
	Region   string
	Insecure bool
	// Store overrides the object-store connection (tests, embedders).
	Store objectstore.Store
	// HTTPClient serves http(s) references. Nil means http.DefaultClient.
	HTTPClient *http.Client
	// Logger receives progress. Nil means slog.Default().
	Logger *slog.Logger
}

// Download fetches the artifact and writes it to its destination.
func Download(ctx context.Context, artifact string, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	f, err := fetcher.Resolve(artifact, fetcher.Options{
		Authenticated: opts.Authenticated,
		Endpoint:      opts.Endpoint,
		Region:        opts.Region,
		Insecure:      opts.Insecure,
		Store:         opts.Store,
		HTTPClient:    opts.HTTPClient,
		Logger:        logger,
	})
	if err != nil {
		return Result{}, err
	}
	downloader, err := cache.New(opts.CacheDir, logger)
	if err != nil {
		return Result{}, err
	}

	content, err := downloader.Open(ctx, f)
	if err != nil {
		return Result{}, err
	}
	defer content.Close()

	realURL, err := f.RealURL(ctx)
	if err != nil {
		return Result{}, err
	}
	dest := destination(opts.LocalFile, f.LocalFileHint(), realURL)
	out, err := os.Create(dest)
	if err != nil {
		return Result{}, fmt.Errorf("creating %q: %w", dest, err)
	}
	if _, err := io.Copy(out, content); err != nil {
		out.Close()
		os.Remove(dest)
		return Result{}, fmt.Errorf("writing %q: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return Result{}, err
	}
	logger.Info("downloaded artifact", "url", f.URL(), "real_url", realURL, "local_file", dest)
	return Result{LocalFile: dest, RealURL: realURL}, nil
}

func destination(explicit, hint, realURL string) string {
	if explicit != "" {
		return explicit
	}
	if hint != "" {
		return hint
	}
	return path.Base(realURL)
}
