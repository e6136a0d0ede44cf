package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/code19m/errx"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/dataresource/resource"
	"github.com/rise-and-shine/dataresource/storage"
)

func TestLocalStore(t *testing.T) {
	fs := afero.NewMemMapFs()
	backend := storage.NewLocal(fs, "/srv/resources")

	writeFile(t, fs, "/tmp/upload/xyz", "gene\ts1\ng1\t1\n")
	r := resource.New(uuid.New(), "/tmp/upload/xyz", "counts.tsv")

	final, err := backend.Store(t.Context(), r)
	require.NoError(t, err)

	want := filepath.Join("/srv/resources", storage.RelativePath(r))
	assert.Equal(t, want, final)
	assert.Equal(t, "gene\ts1\ng1\t1\n", readFile(t, fs, final))

	exists, err := afero.Exists(fs, "/tmp/upload/xyz")
	require.NoError(t, err)
	assert.False(t, exists, "source must be moved, not copied")

	t.Run("idempotent", func(t *testing.T) {
		r.Path = final
		again, err := backend.Store(t.Context(), r)
		require.NoError(t, err)
		assert.Equal(t, final, again)
		assert.Equal(t, "gene\ts1\ng1\t1\n", readFile(t, fs, final))
	})

	t.Run("overwrites destination", func(t *testing.T) {
		writeFile(t, fs, "/tmp/upload/new", "replaced")
		r.Path = "/tmp/upload/new"
		again, err := backend.Store(t.Context(), r)
		require.NoError(t, err)
		assert.Equal(t, final, again)
		assert.Equal(t, "replaced", readFile(t, fs, final))
	})
}

func TestLocalStoreMissingSource(t *testing.T) {
	backend := storage.NewLocal(afero.NewMemMapFs(), "/srv")
	r := resource.New(uuid.New(), "/nowhere", "a.tsv")

	_, err := backend.Store(t.Context(), r)
	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, storage.CodeStorageUnavailable))
}

func TestLocalLocalPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	backend := storage.NewLocal(fs, "/srv")
	writeFile(t, fs, "/srv/a", "x")

	p, err := backend.LocalPath(t.Context(), &resource.Resource{Path: "/srv/a"})
	require.NoError(t, err)
	assert.Equal(t, "/srv/a", p)

	_, err = backend.LocalPath(t.Context(), &resource.Resource{Path: "/srv/b"})
	assert.True(t, errx.IsCodeIn(err, storage.CodeStorageUnavailable))
}

func TestLocalDeleteAndFilesize(t *testing.T) {
	fs := afero.NewMemMapFs()
	backend := storage.NewLocal(fs, "/srv")
	writeFile(t, fs, "/srv/a", "12345")

	size, err := backend.Filesize(t.Context(), "/srv/a")
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	require.NoError(t, backend.Delete(t.Context(), "/srv/a"))
	require.NoError(t, backend.Delete(t.Context(), "/srv/a"), "missing path is not an error")

	_, err = backend.Filesize(t.Context(), "/srv/a")
	assert.True(t, errx.IsCodeIn(err, storage.CodeStorageUnavailable))
}
