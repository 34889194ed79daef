package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/seaward/artifact-fetch/api"
	"github.com/seaward/artifact-fetch/service/objectstore"
)

// jobKeyPattern splits keys laid out as jobs/<job>/<build>/<artifact>.
var jobKeyPattern = regexp.MustCompile(`^jobs/[^/]+/([^/]+)/(.*)$`)

// JobArtifact serves jenkins:// references: the artifact published by
// the highest-numbered build of a CI job, within a bucket laid out as
// jobs/<job>/<build>/<artifact>. The pattern query parameter filters
// artifact names; it defaults to WAR files.
type JobArtifact struct {
	resolvingObject
	job string
}

var _ Fetcher = (*JobArtifact)(nil)

func NewJobArtifact(artifact api.Artifact, store objectstore.Store, logger *slog.Logger) *JobArtifact {
	j := &JobArtifact{
		resolvingObject: resolvingObject{artifact: artifact, store: store, logger: logger},
		job:             artifact.Key(),
	}
	j.resolve = j.resolveKey
	return j
}

func (j *JobArtifact) resolveKey(ctx context.Context) (string, error) {
	listing, err := j.store.List(ctx, j.artifact.Authority, "jobs/"+j.job)
	if err != nil {
		return "", err
	}
	if len(listing) == 0 {
		return "", &KeyResolutionError{
			Reason:  ReasonNoResults,
			Message: fmt.Sprintf("job %q was invalid or returned no builds", j.job),
		}
	}
	rawPattern := j.artifact.QueryValue("pattern", defaultFilenamePattern)
	pattern, err := regexp.Compile(rawPattern)
	if err != nil {
		return "", fmt.Errorf("invalid filename pattern %q: %w", rawPattern, err)
	}

	bestBuild := -1
	bestKey := ""
	for _, object := range listing {
		parts := jobKeyPattern.FindStringSubmatch(object.Key)
		if parts == nil {
			continue
		}
		if !pattern.MatchString(parts[2]) {
			continue
		}
		build, err := strconv.Atoi(parts[1])
		if err != nil {
			j.logger.Debug("skipping key with non-numeric build component", "key", object.Key)
			continue
		}
		// Numeric ordering: build 10 outranks build 2.
		if build > bestBuild {
			bestBuild = build
			bestKey = object.Key
		}
	}
	if bestKey == "" {
		return "", &KeyResolutionError{
			Reason:  ReasonNoMatchingBuilds,
			Message: fmt.Sprintf("no builds of job %q published an artifact matching %q", j.job, rawPattern),
		}
	}
	return bestKey, nil
}
