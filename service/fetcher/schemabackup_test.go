package fetcher_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seaward/artifact-fetch/service/fetcher"
	"github.com/seaward/artifact-fetch/service/objectstore"
)

func backupStore() *objectstore.Memory {
	store := objectstore.NewMemory()
	now := time.Now()
	for _, timestamp := range []string{"2025-11-02", "2026-01-15", "2026-08-01"} {
		store.Put("backups-bucket", "backups/db1/pgsql/"+timestamp+"/mydb/public.dump", []byte("dump "+timestamp), now)
	}
	// a host with backups of another flavor only
	store.Put("backups-bucket", "backups/db2/mysql/2026-08-01/mydb/public.dump", []byte("x"), now)
	return store
}

func TestSchemaBackupLatest(t *testing.T) {
	f, err := fetcher.Resolve("schemabackup://backups-bucket/db1/mydb/public", fetcher.Options{Store: backupStore()})
	require.NoError(t, err)

	realURL, err := f.RealURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "s3://backups-bucket/backups/db1/pgsql/2026-08-01/mydb/public.dump", realURL)
}

func TestSchemaBackupExplicitTimestamp(t *testing.T) {
	f, err := fetcher.Resolve("schemabackup://backups-bucket/db1/mydb/public?timestamp=2026-01-15", fetcher.Options{Store: backupStore()})
	require.NoError(t, err)

	realURL, err := f.RealURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "s3://backups-bucket/backups/db1/pgsql/2026-01-15/mydb/public.dump", realURL)
}

func TestSchemaBackupTimestampNotFound(t *testing.T) {
	f, err := fetcher.Resolve("schemabackup://backups-bucket/db1/mydb/public?timestamp=2020-01-01", fetcher.Options{Store: backupStore()})
	require.NoError(t, err)

	_, err = f.RealURL(context.Background())
	var resErr *fetcher.KeyResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, fetcher.ReasonTimestampNotFound, resErr.Reason)
	assert.Equal(t, []string{"2025-11-02", "2026-01-15", "2026-08-01"}, resErr.Candidates)
	assert.Contains(t, resErr.Message, "2026-08-01")
}

func TestSchemaBackupHostNotFound(t *testing.T) {
	f, err := fetcher.Resolve("schemabackup://backups-bucket/ghosthost/mydb/public", fetcher.Options{Store: backupStore()})
	require.NoError(t, err)

	_, err = f.RealURL(context.Background())
	var resErr *fetcher.KeyResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, fetcher.ReasonHostNotFound, resErr.Reason)
}

func TestSchemaBackupNoTimestamps(t *testing.T) {
	f, err := fetcher.Resolve("schemabackup://backups-bucket/db2/mydb/public", fetcher.Options{Store: backupStore()})
	require.NoError(t, err)

	_, err = f.RealURL(context.Background())
	var resErr *fetcher.KeyResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, fetcher.ReasonNoTimestamps, resErr.Reason)
}

func TestSchemaBackupSchemaNotFound(t *testing.T) {
	f, err := fetcher.Resolve("schemabackup://backups-bucket/db1/mydb/ghostschema", fetcher.Options{Store: backupStore()})
	require.NoError(t, err)

	_, err = f.RealURL(context.Background())
	var resErr *fetcher.KeyResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, fetcher.ReasonSchemaNotFound, resErr.Reason)
}

func TestSchemaBackupMalformedReference(t *testing.T) {
	for _, artifact := range []string{
		"schemabackup://backups-bucket/onlyhost",
		"schemabackup://backups-bucket/host/db",
		"schemabackup://backups-bucket/host/db/schema/extra",
	} {
		_, err := fetcher.Resolve(artifact, fetcher.Options{Store: backupStore()})
		require.Error(t, err, artifact)
		assert.Contains(t, err.Error(), "schemabackup://bucket/host/database/schema", artifact)
	}
}
