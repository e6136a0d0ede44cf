package storage_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/code19m/errx"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/dataresource/observability/logger"
	"github.com/rise-and-shine/dataresource/resource"
	"github.com/rise-and-shine/dataresource/storage"
)

func newBucket(t *testing.T) (*storage.Bucket, *memObjectStore, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	objects := newMemObjectStore()
	return storage.NewBucket(objects, fs, "/cache", logger.NewNop()), objects, fs
}

func TestBucketStoreUploadsAndRemovesSource(t *testing.T) {
	backend, objects, fs := newBucket(t)
	writeFile(t, fs, "/tmp/up/1", "payload")
	r := resource.New(uuid.New(), "/tmp/up/1", "reads.txt")

	final, err := backend.Store(t.Context(), r)
	require.NoError(t, err)

	assert.Equal(t, "s3://data/"+storage.RelativePath(r), final)
	assert.Equal(t, []byte("payload"), objects.objects[storage.RelativePath(r)])

	exists, err := afero.Exists(fs, "/tmp/up/1")
	require.NoError(t, err)
	assert.False(t, exists)

	t.Run("idempotent", func(t *testing.T) {
		r.Path = final
		again, err := backend.Store(t.Context(), r)
		require.NoError(t, err)
		assert.Equal(t, final, again)
		assert.Equal(t, 1, objects.puts)
	})
}

func TestBucketStoreWriteFailure(t *testing.T) {
	backend, objects, fs := newBucket(t)
	objects.putErr = errors.New("connection reset")
	writeFile(t, fs, "/tmp/up/1", "payload")

	_, err := backend.Store(t.Context(), resource.New(uuid.New(), "/tmp/up/1", "a.txt"))
	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, storage.CodeStorageWriteFailed))

	exists, existsErr := afero.Exists(fs, "/tmp/up/1")
	require.NoError(t, existsErr)
	assert.True(t, exists, "source is kept when the upload fails")
}

func TestBucketLocalPathCaches(t *testing.T) {
	backend, objects, fs := newBucket(t)
	objects.objects["u/r.a.tsv"] = []byte("abc")
	r := &resource.Resource{Path: "s3://data/u/r.a.tsv"}

	p, err := backend.LocalPath(t.Context(), r)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/cache", "data", "u", "r.a.tsv"), p)
	assert.Equal(t, "abc", readFile(t, fs, p))

	_, err = backend.LocalPath(t.Context(), r)
	require.NoError(t, err)
	assert.Equal(t, 1, objects.gets, "cached copy of the same size is reused")

	objects.objects["u/r.a.tsv"] = []byte("abcdef")
	_, err = backend.LocalPath(t.Context(), r)
	require.NoError(t, err)
	assert.Equal(t, 2, objects.gets)
	assert.Equal(t, "abcdef", readFile(t, fs, p))
}

func TestBucketLocalPathErrors(t *testing.T) {
	backend, _, _ := newBucket(t)

	_, err := backend.LocalPath(t.Context(), &resource.Resource{Path: "s3://data/missing"})
	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, storage.CodeStorageUnavailable))
	assert.Equal(t, errx.T_NotFound, errx.GetType(err))

	_, err = backend.LocalPath(t.Context(), &resource.Resource{Path: "s3://other/key"})
	assert.True(t, errx.IsCodeIn(err, storage.CodeStorageUnavailable))
}

func TestBucketDeleteRemovesCachedCopy(t *testing.T) {
	backend, objects, fs := newBucket(t)
	objects.objects["u/r.a.tsv"] = []byte("abc")
	r := &resource.Resource{Path: "s3://data/u/r.a.tsv"}

	cached, err := backend.LocalPath(t.Context(), r)
	require.NoError(t, err)

	require.NoError(t, backend.Delete(t.Context(), r.Path))
	assert.NotContains(t, objects.objects, "u/r.a.tsv")

	exists, err := afero.Exists(fs, cached)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, backend.Delete(t.Context(), r.Path))
	require.NoError(t, backend.Delete(t.Context(), "/not/there"))
}

func TestBucketFilesize(t *testing.T) {
	backend, objects, fs := newBucket(t)
	objects.objects["k"] = []byte("1234")
	writeFile(t, fs, "/local", "12")

	size, err := backend.Filesize(t.Context(), "s3://data/k")
	require.NoError(t, err)
	assert.Equal(t, int64(4), size)

	size, err = backend.Filesize(t.Context(), "/local")
	require.NoError(t, err)
	assert.Equal(t, int64(2), size)
}
