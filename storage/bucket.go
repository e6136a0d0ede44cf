package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/code19m/errx"
	"github.com/spf13/afero"

	"github.com/rise-and-shine/dataresource/filestore"
	"github.com/rise-and-shine/dataresource/observability/logger"
	"github.com/rise-and-shine/dataresource/resource"
)

// Bucket keeps resources in an object store bucket. Local copies needed for
// validation are downloaded to <cacheDir>/<bucket>/<key> on fs.
type Bucket struct {
	store    filestore.ObjectStore
	fs       afero.Fs
	cacheDir string
	logger   logger.Logger
}

var _ Backend = (*Bucket)(nil)

func NewBucket(store filestore.ObjectStore, fs afero.Fs, cacheDir string, log logger.Logger) *Bucket {
	return &Bucket{
		store:    store,
		fs:       fs,
		cacheDir: filepath.Clean(cacheDir),
		logger:   log.Named("storage.bucket"),
	}
}

func (b *Bucket) uri(key string) URI {
	return URI{Scheme: b.store.Scheme(), Bucket: b.store.Bucket(), Key: key}
}

func (b *Bucket) cachePath(u URI) string {
	return filepath.Join(b.cacheDir, u.Bucket, filepath.FromSlash(u.Key))
}

// own parses p as a URI of this backend's bucket.
func (b *Bucket) own(p string) (URI, bool) {
	u, ok := ParseURI(p)
	if !ok || u.Scheme != b.store.Scheme() || u.Bucket != b.store.Bucket() {
		return URI{}, false
	}
	return u, true
}

func (b *Bucket) LocalPath(ctx context.Context, r *resource.Resource) (string, error) {
	if !IsRemote(r.Path) {
		ok, err := afero.Exists(b.fs, r.Path)
		if err != nil {
			return "", unavailable(err, r.Path)
		}
		if !ok {
			return "", sourceMissing(r.Path)
		}
		return r.Path, nil
	}

	u, ok := b.own(r.Path)
	if !ok {
		return "", errx.New(
			"path belongs to another bucket",
			errx.WithCode(CodeStorageUnavailable),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"path": r.Path, "bucket": b.store.Bucket()}),
		)
	}
	return b.download(ctx, u)
}

// download fetches u into the cache unless a copy of the same size is there.
func (b *Bucket) download(ctx context.Context, u URI) (string, error) {
	dst := b.cachePath(u)

	info, err := b.store.Stat(ctx, u.Key)
	if err != nil {
		return "", b.mapStoreErr(err, u)
	}
	if cached, statErr := b.fs.Stat(dst); statErr == nil && cached.Size() == info.Size {
		return dst, nil
	}

	obj, err := b.store.Get(ctx, u.Key)
	if err != nil {
		return "", b.mapStoreErr(err, u)
	}
	defer obj.Content.Close()

	if err = b.fs.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return "", writeFailed(err, u.String(), dst)
	}
	tmp := dst + ".part"
	out, err := b.fs.Create(tmp)
	if err != nil {
		return "", writeFailed(err, u.String(), tmp)
	}
	if _, err = io.Copy(out, obj.Content); err != nil {
		_ = out.Close()
		_ = b.fs.Remove(tmp)
		return "", unavailable(err, u.String())
	}
	if err = out.Close(); err != nil {
		return "", writeFailed(err, u.String(), tmp)
	}
	_ = b.fs.Remove(dst)
	if err = b.fs.Rename(tmp, dst); err != nil {
		return "", writeFailed(err, tmp, dst)
	}
	return dst, nil
}

func (b *Bucket) Store(ctx context.Context, r *resource.Resource) (string, error) {
	target := b.uri(RelativePath(r))

	if u, ok := b.own(r.Path); ok && u.Key == target.Key {
		if _, err := b.store.Stat(ctx, u.Key); err != nil {
			return "", b.mapStoreErr(err, u)
		}
		return target.String(), nil
	}

	src := r.Path
	removeSource := true
	if IsRemote(r.Path) {
		local, err := b.LocalPath(ctx, r)
		if err != nil {
			return "", err
		}
		src, removeSource = local, false
	}

	if err := b.upload(ctx, src, target); err != nil {
		return "", err
	}

	if removeSource {
		if err := b.fs.Remove(src); err != nil && !os.IsNotExist(err) {
			b.logger.With("path", src).Warnx(errx.Wrap(err))
		}
	}
	return target.String(), nil
}

func (b *Bucket) upload(ctx context.Context, src string, target URI) error {
	f, err := b.fs.Open(src)
	if os.IsNotExist(err) {
		return sourceMissing(src)
	}
	if err != nil {
		return unavailable(err, src)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return unavailable(err, src)
	}

	_, err = b.store.Put(ctx, target.Key, f, info.Size(), filestore.ContentTypeFor(target.Key))
	if err != nil {
		return writeFailed(err, src, target.String())
	}
	return nil
}

// Delete removes the object and its cached copy, or a plain local file.
func (b *Bucket) Delete(ctx context.Context, p string) error {
	u, ok := b.own(p)
	if !ok {
		if err := b.fs.Remove(p); err != nil && !os.IsNotExist(err) {
			return writeFailed(err, p, "")
		}
		return nil
	}

	if err := b.store.Delete(ctx, u.Key); err != nil {
		return writeFailed(err, p, "")
	}
	if err := b.fs.Remove(b.cachePath(u)); err != nil && !os.IsNotExist(err) {
		b.logger.With("path", b.cachePath(u)).Warnx(errx.Wrap(err))
	}
	return nil
}

func (b *Bucket) Filesize(ctx context.Context, p string) (int64, error) {
	u, ok := b.own(p)
	if !ok {
		info, err := b.fs.Stat(p)
		if os.IsNotExist(err) {
			return 0, sourceMissing(p)
		}
		if err != nil {
			return 0, unavailable(err, p)
		}
		return info.Size(), nil
	}

	info, err := b.store.Stat(ctx, u.Key)
	if err != nil {
		return 0, b.mapStoreErr(err, u)
	}
	return info.Size, nil
}

func (b *Bucket) mapStoreErr(err error, u URI) error {
	if errx.IsCodeIn(err, filestore.CodeObjectNotFound) {
		return sourceMissing(u.String())
	}
	return unavailable(err, u.String())
}
