package cache

import (
	"context"
	"io"
	"log/slog"

	"github.com/seaward/artifact-fetch/service/fetcher"
)

// A Downloader turns a fetch strategy into a readable content stream.
type Downloader interface {
	// Open returns the artifact's content. The caller closes it.
	Open(ctx context.Context, f fetcher.Fetcher) (io.ReadCloser, error)
}

// New returns a caching downloader rooted at cacheDir, or a direct
// (pass-through) downloader when cacheDir is empty.
func New(cacheDir string, logger *slog.Logger) (Downloader, error) {
	if cacheDir == "" {
		return NewDirect(logger), nil
	}
	return NewCaching(cacheDir, logger)
}
