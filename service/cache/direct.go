package cache

import (
	"context"
	"io"
	"log/slog"

	"github.com/seaward/artifact-fetch/service/fetcher"
)

// Direct streams artifacts straight from their fetcher, bypassing any
// local cache.
type Direct struct {
	logger *slog.Logger
}

var _ Downloader = (*Direct)(nil)

func NewDirect(logger *slog.Logger) *Direct {
	if logger == nil {
		logger = slog.Default()
	}
	return &Direct{logger: logger}
}

func (d *Direct) Open(ctx context.Context, f fetcher.Fetcher) (io.ReadCloser, error) {
	d.logger.Debug("downloading without cache", "url", f.URL())
	return f.Open(ctx)
}
