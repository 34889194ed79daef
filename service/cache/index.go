package cache

import (
	"encoding/json"
	"os"
)

const (
	blobDirName   = "blobs"
	indexFileName = "cacheindex.json"
	lockFileName  = "cacheindex.lock"
)

// Entry is one cache index record, keyed in the index by the artifact's
// source URL.
type Entry struct {
	// SourceURL is the artifact reference as given, without the
	// local_file hint.
	SourceURL string `json:"source_url"`
	// StalenessToken is the fetcher's content-identity token captured
	// when the blob was stored.
	StalenessToken string `json:"staleness_token"`
	// CanonicalURL is the resolved address the blob came from.
	CanonicalURL string `json:"canonical_url"`
	// ContentHash is the sha256 of the blob, which is also its
	// filename under blobs/.
	ContentHash string `json:"content_hash"`
}

// readIndex loads the index file. An unreadable or unparseable file
// yields an empty index: the cache re-downloads rather than fails.
// Entries that do not decode or lack a content hash are returned
// separately as invalid, keyed by source URL.
func readIndex(path string) (entries map[string]Entry, invalid []string) {
	entries = make(map[string]Entry)
	data, err := os.ReadFile(path)
	if err != nil {
		return entries, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return entries, nil
	}
	for url, message := range raw {
		var entry Entry
		if err := json.Unmarshal(message, &entry); err != nil || entry.ContentHash == "" {
			invalid = append(invalid, url)
			continue
		}
		entries[url] = entry
	}
	return entries, invalid
}

// writeIndex stores the index as an indented JSON document with sorted
// keys, so diffs between generations stay readable.
func writeIndex(path string, entries map[string]Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// upsertIndex sets one record and rewrites the index. Records it cannot
// decode are carried over untouched; only the prune sweep drops those.
func upsertIndex(path string, entry Entry) error {
	raw := make(map[string]json.RawMessage)
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &raw); err != nil {
			raw = make(map[string]json.RawMessage)
		}
	}
	message, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	raw[entry.SourceURL] = message
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
