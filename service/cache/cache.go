package cache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/seaward/artifact-fetch/integrity"
	"github.com/seaward/artifact-fetch/service/fetcher"
)

// Caching is a content-addressed download cache. Blobs live under
// blobs/ named by their sha256; the index maps source URLs to blobs
// together with the staleness token captured at download time. The
// index is guarded by an advisory file lock so concurrent processes
// sharing the cache directory cannot lose each other's updates.
type Caching struct {
	root      string
	blobDir   string
	indexPath string
	lockPath  string
	logger    *slog.Logger
}

var _ Downloader = (*Caching)(nil)

// NewCaching opens (or creates) the cache at cacheDir. An existing
// cache is pruned first: invalid index entries, orphaned blobs and
// foreign files are removed before any downloads run.
func NewCaching(cacheDir string, logger *slog.Logger) (*Caching, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Caching{
		root:      cacheDir,
		blobDir:   filepath.Join(cacheDir, blobDirName),
		indexPath: filepath.Join(cacheDir, indexFileName),
		lockPath:  filepath.Join(cacheDir, lockFileName),
		logger:    logger,
	}
	if _, err := os.Stat(c.blobDir); err == nil {
		if err := c.prune(); err != nil {
			return nil, fmt.Errorf("pruning cache at %q: %w", cacheDir, err)
		}
	}
	if err := os.MkdirAll(c.blobDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache at %q: %w", cacheDir, err)
	}
	return c, nil
}

func (c *Caching) Open(ctx context.Context, f fetcher.Fetcher) (io.ReadCloser, error) {
	blobPath, err := c.ensureCached(ctx, f)
	if err != nil {
		return nil, err
	}
	return os.Open(blobPath)
}

// ensureCached returns the blob path for the artifact, downloading it
// first unless the cached copy is still current. "Current" means the
// index entry's staleness token is non-empty, matches the fetcher's,
// and the referenced blob exists.
func (c *Caching) ensureCached(ctx context.Context, f fetcher.Fetcher) (string, error) {
	url := f.URL()
	entries, _ := readIndex(c.indexPath)
	entry, ok := entries[url]
	switch {
	case ok && entry.StalenessToken != "":
		token, err := f.StalenessToken(ctx)
		if err != nil {
			return "", err
		}
		if token == entry.StalenessToken {
			blobPath := filepath.Join(c.blobDir, entry.ContentHash)
			if _, err := os.Stat(blobPath); err == nil {
				c.logger.Debug("artifact is current, using cached blob", "url", url)
				return blobPath, nil
			}
			c.logger.Info("cached blob is missing, re-downloading", "url", url)
		} else {
			c.logger.Info("artifact has changed, re-downloading", "url", url)
		}
	case ok:
		c.logger.Info("cache entry has no staleness token, re-downloading", "url", url)
	default:
		c.logger.Info("artifact not cached yet, downloading", "url", url)
	}
	return c.store(ctx, f)
}

// store downloads the artifact into the blob store and records it in
// the index. The blob is staged as a temporary file in the cache root,
// synced, hashed, and only then moved into place, so a crash never
// leaves a partial blob under blobs/.
func (c *Caching) store(ctx context.Context, f fetcher.Fetcher) (string, error) {
	url := f.URL()
	token, err := f.StalenessToken(ctx)
	if err != nil {
		return "", err
	}
	realURL, err := f.RealURL(ctx)
	if err != nil {
		return "", err
	}
	handle, err := f.Open(ctx)
	if err != nil {
		return "", err
	}
	defer handle.Close()

	staging, err := os.CreateTemp(c.root, path.Base(realURL)+".*")
	if err != nil {
		return "", fmt.Errorf("creating staging file: %w", err)
	}
	success := false
	defer func() {
		if !success {
			os.Remove(staging.Name())
		}
	}()
	if _, err := io.Copy(staging, handle); err != nil {
		staging.Close()
		return "", fmt.Errorf("downloading %s: %w", realURL, err)
	}
	if err := staging.Sync(); err != nil {
		staging.Close()
		return "", err
	}
	if err := staging.Close(); err != nil {
		return "", err
	}

	hash, err := integrity.ChecksumFile(staging.Name())
	if err != nil {
		return "", err
	}
	blobPath := filepath.Join(c.blobDir, hash)
	if _, err := os.Stat(blobPath); err == nil {
		// Identical content already stored under another URL.
		c.logger.Debug("content already in blob store, deduplicating", "url", url, "hash", hash)
		success = true
		os.Remove(staging.Name())
	} else {
		if err := renameAndSync(staging.Name(), blobPath); err != nil {
			return "", err
		}
		success = true
	}

	if err := c.updateIndex(Entry{
		SourceURL:      url,
		StalenessToken: token,
		CanonicalURL:   realURL,
		ContentHash:    hash,
	}); err != nil {
		return "", err
	}
	return blobPath, nil
}

// updateIndex re-reads the index under the lock before writing, so an
// update never clobbers entries added by a concurrent process. Records
// it cannot decode are kept as-is; the prune sweep owns dropping those.
func (c *Caching) updateIndex(entry Entry) error {
	return c.withIndexLock(func() error {
		return upsertIndex(c.indexPath, entry)
	})
}

// prune removes invalid index entries, entries whose blob disappeared,
// blobs no entry references, and anything in the cache root that is not
// part of the cache layout. The lock is held for the whole sweep.
func (c *Caching) prune() error {
	c.logger.Info("pruning cache", "dir", c.root)
	return c.withIndexLock(func() error {
		entries, invalid := readIndex(c.indexPath)
		for _, url := range invalid {
			c.logger.Warn("dropping invalid cache entry", "url", url)
		}
		inUse := make(map[string]bool)
		for url, entry := range entries {
			if _, err := os.Stat(filepath.Join(c.blobDir, entry.ContentHash)); err != nil {
				c.logger.Warn("dropping cache entry with missing blob", "url", url, "hash", entry.ContentHash)
				delete(entries, url)
				continue
			}
			inUse[entry.ContentHash] = true
		}
		if err := writeIndex(c.indexPath, entries); err != nil {
			return err
		}

		blobs, err := os.ReadDir(c.blobDir)
		if err != nil {
			return err
		}
		for _, blob := range blobs {
			if !inUse[blob.Name()] {
				c.logger.Info("removing orphaned blob", "hash", blob.Name())
				if err := os.Remove(filepath.Join(c.blobDir, blob.Name())); err != nil {
					return err
				}
			}
		}

		rootEntries, err := os.ReadDir(c.root)
		if err != nil {
			return err
		}
		for _, rootEntry := range rootEntries {
			switch rootEntry.Name() {
			case blobDirName, indexFileName, lockFileName:
				continue
			}
			c.logger.Info("removing unexpected file from cache dir", "name", rootEntry.Name())
			if err := os.RemoveAll(filepath.Join(c.root, rootEntry.Name())); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *Caching) withIndexLock(fn func() error) error {
	lock := flock.New(c.lockPath)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking cache index: %w", err)
	}
	defer lock.Unlock()
	return fn()
}

// renameAndSync moves the staged file into place and syncs the
// containing directory, making the rename itself durable.
func renameAndSync(oldPath, newPath string) error {
	if err := os.Rename(oldPath, newPath); err != nil {
		return err
	}
	dir, err := os.Open(filepath.Dir(newPath))
	if err != nil {
		return err
	}
	defer dir.Close()
	return dir.Sync()
}
