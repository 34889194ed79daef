package fetcher_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seaward/artifact-fetch/service/fetcher"
)

func TestHTTPFetch(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("ETag", `"abc123"`)
		w.Write([]byte("mock content"))
	}))
	defer server.Close()

	f, err := fetcher.Resolve(server.URL+"/artifact.war", fetcher.Options{HTTPClient: server.Client()})
	require.NoError(t, err)

	ctx := context.Background()
	token, err := f.StalenessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, `"abc123"`, token)

	handle, err := f.Open(ctx)
	require.NoError(t, err)
	defer handle.Close()
	data, err := io.ReadAll(handle)
	require.NoError(t, err)
	assert.Equal(t, []byte("mock content"), data)

	realURL, err := f.RealURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/artifact.war", realURL)

	// one GET feeds every property
	assert.Equal(t, 1, requests)
}

func TestHTTPTokenReadsOnlyHeaders(t *testing.T) {
	// The handler holds the body back until released. A staleness check
	// must complete on headers alone, without waiting for the content.
	releaseBody := make(chan struct{})
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("ETag", `"abc123"`)
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		<-releaseBody
		w.Write([]byte("mock content"))
	}))
	defer server.Close()

	f, err := fetcher.Resolve(server.URL+"/artifact.war", fetcher.Options{HTTPClient: server.Client()})
	require.NoError(t, err)

	ctx := context.Background()
	type tokenResult struct {
		token string
		err   error
	}
	got := make(chan tokenResult, 1)
	go func() {
		token, err := f.StalenessToken(ctx)
		got <- tokenResult{token, err}
	}()
	select {
	case result := <-got:
		require.NoError(t, result.err)
		assert.Equal(t, `"abc123"`, result.token)
	case <-time.After(5 * time.Second):
		t.Fatal("staleness token waited for the response body")
	}

	close(releaseBody)
	handle, err := f.Open(ctx)
	require.NoError(t, err)
	defer handle.Close()
	data, err := io.ReadAll(handle)
	require.NoError(t, err)
	assert.Equal(t, []byte("mock content"), data)
	assert.Equal(t, 1, requests)
}

func TestHTTPNoETag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payload"))
	}))
	defer server.Close()

	f, err := fetcher.Resolve(server.URL+"/file", fetcher.Options{HTTPClient: server.Client()})
	require.NoError(t, err)

	token, err := f.StalenessToken(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestHTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	f, err := fetcher.Resolve(server.URL+"/missing", fetcher.Options{HTTPClient: server.Client()})
	require.NoError(t, err)

	_, err = f.Open(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
