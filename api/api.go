package api

import (
	"net/url"
	"strings"
)

// Scheme selects a fetch strategy for an artifact reference.
type Scheme string

const (
	SchemeFile         Scheme = "file"
	SchemeHTTP         Scheme = "http"
	SchemeHTTPS        Scheme = "https"
	SchemeS3           Scheme = "s3"
	SchemeS3Prefix     Scheme = "s3prefix"
	SchemeJenkins      Scheme = "jenkins"
	SchemeSchemaBackup Scheme = "schemabackup"
)

// An Artifact is a parsed artifact reference.
// This type does not include the actual data, but only the address of it:
// the scheme decides which strategy fetches the bytes, the authority and
// path address the resource within that strategy, and the query carries
// strategy-specific parameters.
type Artifact struct {
	Scheme    Scheme
	Authority string
	Path      string
	Query     url.Values
	// LocalFileHint is the value of the reserved "local_file" query
	// parameter, removed from Query during parsing. It is a destination
	// name suggestion and never reaches the fetch strategies.
	LocalFileHint string
}

// ParseArtifact parses a raw artifact reference. It never fails: anything
// that does not parse as a URL is treated as a bare local path.
func ParseArtifact(raw string) Artifact {
	u, err := url.Parse(raw)
	if err != nil {
		return Artifact{Path: raw, Query: url.Values{}}
	}
	query := u.Query()
	hint := query.Get("local_file")
	query.Del("local_file")
	return Artifact{
		Scheme:        Scheme(u.Scheme),
		Authority:     u.Host,
		Path:          u.Path,
		Query:         query,
		LocalFileHint: hint,
	}
}

// URL reassembles the artifact reference without the local_file hint.
// This string identifies the artifact in the cache index.
func (a Artifact) URL() string {
	u := url.URL{
		Scheme:   string(a.Scheme),
		Host:     a.Authority,
		Path:     a.Path,
		RawQuery: a.Query.Encode(),
	}
	return u.String()
}

// QueryValue returns the named query parameter, or fallback when the
// parameter is absent or empty.
func (a Artifact) QueryValue(name, fallback string) string {
	if value := a.Query.Get(name); value != "" {
		return value
	}
	return fallback
}

// Key is the artifact path without its leading slash, which is how
// object-store strategies address keys within the Authority bucket.
func (a Artifact) Key() string {
	return strings.TrimPrefix(a.Path, "/")
}
