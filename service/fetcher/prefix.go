package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/seaward/artifact-fetch/api"
	"github.com/seaward/artifact-fetch/service/objectstore"
)

// PrefixLatest serves s3prefix:// references: the latest key under a
// prefix whose basename matches the filename pattern. "Latest" is the
// most recently modified key (sortmethod=newest, the default) or the
// highest embedded version (sortmethod=version).
type PrefixLatest struct {
	resolvingObject
	prefix string
}

var _ Fetcher = (*PrefixLatest)(nil)

func NewPrefixLatest(artifact api.Artifact, store objectstore.Store, logger *slog.Logger) *PrefixLatest {
	p := &PrefixLatest{
		resolvingObject: resolvingObject{artifact: artifact, store: store, logger: logger},
		prefix:          artifact.Key(),
	}
	p.resolve = p.resolveKey
	return p
}

func (p *PrefixLatest) resolveKey(ctx context.Context) (string, error) {
	listing, err := p.store.List(ctx, p.artifact.Authority, p.prefix)
	if err != nil {
		return "", err
	}
	if len(listing) == 0 {
		return "", &KeyResolutionError{
			Reason:  ReasonNoResults,
			Message: fmt.Sprintf("prefix %q was invalid or returned no keys", p.prefix),
		}
	}
	rawPattern := p.artifact.QueryValue("pattern", defaultFilenamePattern)
	pattern, err := regexp.Compile(rawPattern)
	if err != nil {
		return "", fmt.Errorf("invalid filename pattern %q: %w", rawPattern, err)
	}
	matching := slices.DeleteFunc(listing, func(object objectstore.ObjectInfo) bool {
		return !pattern.MatchString(path.Base(object.Key))
	})
	if len(matching) == 0 {
		return "", &KeyResolutionError{
			Reason:  ReasonNoMatchingKeys,
			Message: fmt.Sprintf("no keys under prefix %q matched pattern %q", p.prefix, rawPattern),
		}
	}

	sortMethod := p.artifact.QueryValue("sortmethod", "newest")
	switch sortMethod {
	case "newest":
		slices.SortStableFunc(matching, func(a, b objectstore.ObjectInfo) int {
			return a.LastModified.Compare(b.LastModified)
		})
	case "version":
		slices.SortStableFunc(matching, func(a, b objectstore.ObjectInfo) int {
			return compareVersions(a.Key, b.Key)
		})
	default:
		return "", fmt.Errorf("no such sort method %q", sortMethod)
	}
	return matching[len(matching)-1].Key, nil
}

// versionPattern extracts the first dotted-numeric run of a key,
// capped at three components so semver can parse it.
var versionPattern = regexp.MustCompile(`\d+(?:\.\d+){0,2}`)

// compareVersions orders keys by their embedded version. Keys with no
// parseable version sort below all versioned keys and lexicographically
// among themselves.
func compareVersions(a, b string) int {
	av, aok := parseVersion(a)
	bv, bok := parseVersion(b)
	switch {
	case aok && bok:
		if c := av.Compare(bv); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case aok:
		return 1
	case bok:
		return -1
	}
	return strings.Compare(a, b)
}

func parseVersion(key string) (*semver.Version, bool) {
	raw := versionPattern.FindString(key)
	if raw == "" {
		return nil, false
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, false
	}
	return v, true
}
