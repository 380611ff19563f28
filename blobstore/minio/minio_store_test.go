package minio

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/hupe1980/roadgraph/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyAndErrors(t *testing.T) {
	s := NewStore(nil, "bucket", WithPrefix("graphs/"), WithPartSize(16<<20))
	assert.Equal(t, "graphs/snap/nodes", s.key("snap/nodes"))
	assert.Equal(t, uint64(16<<20), s.putOptions().PartSize)
	assert.Equal(t, "application/octet-stream", s.putOptions().ContentType)

	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NotFound"}))
	assert.False(t, isNotFound(minio.ErrorResponse{Code: "AccessDenied"}))
	assert.False(t, isNotFound(errors.New("boom")))
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	client, err := minio.New("localhost:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()
	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	bucket := "test-roadgraph"
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, WithPrefix("test-prefix/"))

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "snap/manifest.json", data))

	blob, err := store.Open(ctx, "snap/manifest.json")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, len(data))
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, data, buf)

	rc, err := blob.ReadRange(ctx, 6, 5)
	require.NoError(t, err)
	part, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "minio", string(part))
	require.NoError(t, rc.Close())
	require.NoError(t, blob.Close())

	wb, err := store.Create(ctx, "snap/nodes")
	require.NoError(t, err)
	_, err = wb.Write([]byte("streamed data"))
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	aborted, err := store.Create(ctx, "snap/edges")
	require.NoError(t, err)
	_, _ = aborted.Write([]byte("partial"))
	require.NoError(t, blobstore.Abort(aborted))

	names, err := store.List(ctx, "snap/")
	require.NoError(t, err)
	assert.Equal(t, []string{"snap/manifest.json", "snap/nodes"}, names)

	got, err := blobstore.ReadAll(ctx, store, "snap/nodes")
	require.NoError(t, err)
	assert.Equal(t, "streamed data", string(got))

	require.NoError(t, store.Delete(ctx, "snap/manifest.json"))
	require.NoError(t, store.Delete(ctx, "snap/nodes"))

	_, err = store.Open(ctx, "snap/manifest.json")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
