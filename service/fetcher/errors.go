package fetcher

import (
	"fmt"
)

// InvalidArtifactError reports an artifact reference whose scheme has no
// fetch strategy.
type InvalidArtifactError struct {
	Artifact string
}

func (e *InvalidArtifactError) Error() string {
	return fmt.Sprintf("no fetcher available for artifact %q", e.Artifact)
}

// AuthenticationError reports an object-store fetch rejected for
// credential or permission reasons. The cause's type and message are
// preserved for diagnosis.
type AuthenticationError struct {
	Cause error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("error authenticating against the object store. %T: %v", e.Cause, e.Cause)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Cause
}

// ReasonCode classifies why a dynamic key resolution produced no key.
type ReasonCode string

const (
	// ReasonNoResults: the job listing returned nothing at all.
	ReasonNoResults ReasonCode = "NO_RESULTS"
	// ReasonNoMatchingBuilds: builds exist, none matched the pattern.
	ReasonNoMatchingBuilds ReasonCode = "NO_MATCHING_BUILDS"
	// ReasonNoMatchingKeys: keys exist under the prefix, none matched.
	ReasonNoMatchingKeys ReasonCode = "NO_MATCHING_KEYS"
	// ReasonHostNotFound: the backup bucket has no such host.
	ReasonHostNotFound ReasonCode = "HOST_NOT_FOUND"
	// ReasonNoTimestamps: the host has no backup timestamps.
	ReasonNoTimestamps ReasonCode = "NO_TIMESTAMPS"
	// ReasonTimestampNotFound: the requested timestamp does not exist.
	ReasonTimestampNotFound ReasonCode = "TIMESTAMP_NOT_FOUND"
	// ReasonSchemaNotFound: the timestamp exists, the schema dump does not.
	ReasonSchemaNotFound ReasonCode = "SCHEMA_NOT_FOUND"
)

// KeyResolutionError reports a dynamic key resolution that completed its
// remote listings but could not produce a key. Candidates carries the
// near misses when the strategy has them (e.g. available backup
// timestamps).
type KeyResolutionError struct {
	Reason     ReasonCode
	Message    string
	Candidates []string
}

func (e *KeyResolutionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}
