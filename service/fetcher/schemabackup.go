package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/seaward/artifact-fetch/api"
	"github.com/seaward/artifact-fetch/service/objectstore"
)

const (
	backupRoot      = "backups/"
	latestTimestamp = "LATEST"
)

// SchemaBackup serves schemabackup:// references: a timestamped
// database schema dump in a bucket laid out as
// backups/<host>/pgsql/<timestamp>/<database>/<schema>.dump.
// The timestamp query parameter selects a backup generation; it
// defaults to LATEST, the lexicographically last timestamp.
type SchemaBackup struct {
	resolvingObject
	host     string
	database string
	schema   string
}

var _ Fetcher = (*SchemaBackup)(nil)

func NewSchemaBackup(artifact api.Artifact, store objectstore.Store, logger *slog.Logger) (*SchemaBackup, error) {
	parts := strings.Split(strings.Trim(artifact.Path, "/"), "/")
	if len(parts) != 3 || slices.Contains(parts, "") {
		return nil, fmt.Errorf("schemabackup reference must be schemabackup://bucket/host/database/schema, got %q", artifact.URL())
	}
	s := &SchemaBackup{
		resolvingObject: resolvingObject{artifact: artifact, store: store, logger: logger},
		host:            parts[0],
		database:        parts[1],
		schema:          parts[2],
	}
	s.resolve = s.resolveKey
	return s, nil
}

func (s *SchemaBackup) resolveKey(ctx context.Context) (string, error) {
	bucket := s.artifact.Authority

	hostPrefixes, err := s.store.ListPrefixes(ctx, bucket, backupRoot)
	if err != nil {
		return "", err
	}
	hostPrefix := backupRoot + s.host + "/"
	if !slices.Contains(hostPrefixes, hostPrefix) {
		return "", &KeyResolutionError{
			Reason:  ReasonHostNotFound,
			Message: fmt.Sprintf("host %q not found in bucket %q", s.host, bucket),
		}
	}

	base := hostPrefix + "pgsql/"
	timestampPrefixes, err := s.store.ListPrefixes(ctx, bucket, base)
	if err != nil {
		return "", err
	}
	timestamps := make([]string, 0, len(timestampPrefixes))
	for _, prefix := range timestampPrefixes {
		timestamps = append(timestamps, strings.TrimSuffix(strings.TrimPrefix(prefix, base), "/"))
	}
	if len(timestamps) == 0 {
		return "", &KeyResolutionError{
			Reason:  ReasonNoTimestamps,
			Message: fmt.Sprintf("no backup timestamps found for host %q in bucket %q", s.host, bucket),
		}
	}
	sort.Strings(timestamps)

	requested := s.artifact.QueryValue("timestamp", latestTimestamp)
	var timestamp string
	switch {
	case requested == latestTimestamp:
		timestamp = timestamps[len(timestamps)-1]
	case slices.Contains(timestamps, requested):
		timestamp = requested
	default:
		return "", &KeyResolutionError{
			Reason: ReasonTimestampNotFound,
			Message: fmt.Sprintf("timestamp %q not found for host %q. Available timestamps: %s",
				requested, s.host, strings.Join(timestamps, ", ")),
			Candidates: timestamps,
		}
	}

	key := fmt.Sprintf("%s%s/%s/%s.dump", base, timestamp, s.database, s.schema)
	// The listings only prove the timestamp directory exists. Stat the
	// dump itself so a missing schema fails here instead of mid-download.
	if _, err := s.store.Stat(ctx, bucket, key); err != nil {
		if objectstore.IsNotFound(err) {
			return "", &KeyResolutionError{
				Reason: ReasonSchemaNotFound,
				Message: fmt.Sprintf("no backup of schema %q in database %q for host %q at timestamp %q",
					s.schema, s.database, s.host, timestamp),
			}
		}
		return "", err
	}
	return key, nil
}
