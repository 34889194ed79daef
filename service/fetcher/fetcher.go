package fetcher

import (
	"github.com/seaward/artifact-fetch/api"
)

// Resolve parses an artifact reference and constructs the fetch strategy
// its scheme selects. References without a scheme are local paths.
func Resolve(artifact string, opts Options) (Fetcher, error) {
	parsed := api.ParseArtifact(artifact)
	switch parsed.Scheme {
	case api.SchemeJenkins:
		store, err := opts.store(opts.Authenticated)
		if err != nil {
			return nil, err
		}
		return NewJobArtifact(parsed, store, opts.logger()), nil
	case api.SchemeSchemaBackup:
		// Backup buckets are never public; anonymous requests can only
		// fail, so this scheme always signs.
		store, err := opts.store(true)
		if err != nil {
			return nil, err
		}
		return NewSchemaBackup(parsed, store, opts.logger())
	case api.SchemeHTTP, api.SchemeHTTPS:
		return NewHTTP(parsed, opts.httpClient()), nil
	case api.SchemeS3:
		store, err := opts.store(opts.Authenticated)
		if err != nil {
			return nil, err
		}
		return NewObject(parsed, store), nil
	case api.SchemeS3Prefix:
		store, err := opts.store(opts.Authenticated)
		if err != nil {
			return nil, err
		}
		return NewPrefixLatest(parsed, store, opts.logger()), nil
	case api.SchemeFile, "":
		return NewLocalFile(parsed), nil
	}
	return nil, &InvalidArtifactError{Artifact: artifact}
}
