package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/seaward/artifact-fetch/api"
)

// HTTP serves http:// and https:// references. A single GET request
// feeds every property: the ETag header, when present, becomes the
// staleness token as soon as the response headers arrive, and the body
// is buffered only when the content is actually opened. A staleness
// check alone never transfers the content.
type HTTP struct {
	artifact api.Artifact
	client   *http.Client
	resp     *http.Response
	etag     string
	body     []byte
	bodyRead bool
	handle   io.ReadCloser
}

var _ Fetcher = (*HTTP)(nil)

func NewHTTP(artifact api.Artifact, client *http.Client) *HTTP {
	return &HTTP{artifact: artifact, client: client}
}

func (h *HTTP) fetch(ctx context.Context) error {
	if h.resp != nil {
		return nil
	}
	url := h.artifact.URL()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}
	h.resp = resp
	// The raw header value is stored as-is, quotes included. Tokens are
	// only ever compared against tokens produced the same way.
	h.etag = resp.Header.Get("ETag")
	return nil
}

func (h *HTTP) URL() string {
	return h.artifact.URL()
}

func (h *HTTP) RealURL(ctx context.Context) (string, error) {
	return h.artifact.URL(), nil
}

func (h *HTTP) StalenessToken(ctx context.Context) (string, error) {
	if err := h.fetch(ctx); err != nil {
		return "", err
	}
	return h.etag, nil
}

func (h *HTTP) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := h.fetch(ctx); err != nil {
		return nil, err
	}
	if !h.bodyRead {
		body, err := io.ReadAll(h.resp.Body)
		h.resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", h.artifact.URL(), err)
		}
		h.body = body
		h.bodyRead = true
	}
	if h.handle == nil {
		h.handle = io.NopCloser(bytes.NewReader(h.body))
	}
	return h.handle, nil
}

func (h *HTTP) LocalFileHint() string {
	return h.artifact.LocalFileHint
}
