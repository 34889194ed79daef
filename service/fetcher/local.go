package fetcher

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/seaward/artifact-fetch/api"
	"github.com/seaward/artifact-fetch/integrity"
)

// LocalFile serves file:// references and bare paths from the local
// filesystem. Its staleness token is the file's content hash, so edits
// to the file invalidate cache entries even without remote metadata.
type LocalFile struct {
	artifact api.Artifact
	path     string
	token    string
	handle   io.ReadCloser
}

var _ Fetcher = (*LocalFile)(nil)

func NewLocalFile(artifact api.Artifact) *LocalFile {
	return &LocalFile{artifact: artifact, path: localPath(artifact)}
}

// localPath maps a file reference onto the filesystem. An authority is
// an anchor directory resolved against the working directory, with the
// path taken relative below it. Without an authority, relative paths
// resolve against the working directory and absolute paths stand as-is.
func localPath(a api.Artifact) string {
	if a.Authority != "" {
		return filepath.Join(absPath(a.Authority), strings.TrimPrefix(a.Path, "/"))
	}
	if filepath.IsAbs(a.Path) {
		return filepath.Clean(a.Path)
	}
	return absPath(a.Path)
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

func (l *LocalFile) URL() string {
	return l.artifact.URL()
}

func (l *LocalFile) RealURL(ctx context.Context) (string, error) {
	return l.path, nil
}

func (l *LocalFile) StalenessToken(ctx context.Context) (string, error) {
	if l.token != "" {
		return l.token, nil
	}
	token, err := integrity.ChecksumFile(l.path)
	if err != nil {
		return "", err
	}
	l.token = token
	return token, nil
}

func (l *LocalFile) Open(ctx context.Context) (io.ReadCloser, error) {
	if l.handle != nil {
		return l.handle, nil
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, err
	}
	l.handle = f
	return f, nil
}

func (l *LocalFile) LocalFileHint() string {
	return l.artifact.LocalFileHint
}

// Path is the resolved filesystem location.
func (l *LocalFile) Path() string {
	return l.path
}
