package objectstore_test

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seaward/artifact-fetch/service/objectstore"
)

func TestMemoryList(t *testing.T) {
	store := objectstore.NewMemory()
	now := time.Now()
	store.Put("bucket", "jobs/a/1/app.war", []byte("one"), now)
	store.Put("bucket", "jobs/a/2/app.war", []byte("two"), now)
	store.Put("bucket", "other/file", []byte("x"), now)

	listing, err := store.List(context.Background(), "bucket", "jobs/a")
	require.NoError(t, err)
	require.Len(t, listing, 2)
	assert.Equal(t, "jobs/a/1/app.war", listing[0].Key)
	assert.Equal(t, "jobs/a/2/app.war", listing[1].Key)

	empty, err := store.List(context.Background(), "bucket", "missing/")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryListPrefixes(t *testing.T) {
	store := objectstore.NewMemory()
	now := time.Now()
	store.Put("bucket", "backups/db1/pgsql/2024/x", []byte("x"), now)
	store.Put("bucket", "backups/db1/pgsql/2025/x", []byte("x"), now)
	store.Put("bucket", "backups/db2/pgsql/2024/x", []byte("x"), now)
	store.Put("bucket", "backups/top-level-file", []byte("x"), now)

	hosts, err := store.ListPrefixes(context.Background(), "bucket", "backups/")
	require.NoError(t, err)
	assert.Equal(t, []string{"backups/db1/", "backups/db2/"}, hosts)

	timestamps, err := store.ListPrefixes(context.Background(), "bucket", "backups/db1/pgsql/")
	require.NoError(t, err)
	assert.Equal(t, []string{"backups/db1/pgsql/2024/", "backups/db1/pgsql/2025/"}, timestamps)
}

func TestMemoryGet(t *testing.T) {
	store := objectstore.NewMemory()
	content := []byte("mock content")
	store.Put("bucket", "some/key", content, time.Now())

	object, err := store.Get(context.Background(), "bucket", "some/key")
	require.NoError(t, err)
	defer object.Body.Close()

	data, err := io.ReadAll(object.Body)
	require.NoError(t, err)
	assert.Equal(t, content, data)

	sum := md5.Sum(content)
	assert.Equal(t, hex.EncodeToString(sum[:]), object.Info.ETag)
	assert.Equal(t, int64(len(content)), object.Info.Size)
}

func TestMemoryStat(t *testing.T) {
	store := objectstore.NewMemory()
	content := []byte("mock content")
	store.Put("bucket", "some/key", content, time.Now())

	info, err := store.Stat(context.Background(), "bucket", "some/key")
	require.NoError(t, err)
	sum := md5.Sum(content)
	assert.Equal(t, hex.EncodeToString(sum[:]), info.ETag)
	assert.Equal(t, int64(len(content)), info.Size)

	_, err = store.Stat(context.Background(), "bucket", "nope")
	assert.True(t, objectstore.IsNotFound(err))
}

func TestMemoryGetMissing(t *testing.T) {
	store := objectstore.NewMemory()
	_, err := store.Get(context.Background(), "bucket", "nope")
	assert.True(t, objectstore.IsNotFound(err))
	assert.False(t, objectstore.IsAccessDenied(err))
}

func TestMemoryDeny(t *testing.T) {
	store := objectstore.NewMemory()
	store.Put("private", "key", []byte("x"), time.Now())
	store.Deny("private")

	_, err := store.Get(context.Background(), "private", "key")
	assert.True(t, objectstore.IsAccessDenied(err))

	_, err = store.List(context.Background(), "private", "")
	assert.True(t, objectstore.IsAccessDenied(err))
}
