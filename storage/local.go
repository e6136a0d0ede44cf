package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/rise-and-shine/dataresource/resource"
)

const dirPerm = 0o755

// Local keeps resources under a root directory of fs.
type Local struct {
	fs   afero.Fs
	root string
}

var _ Backend = (*Local)(nil)

func NewLocal(fs afero.Fs, root string) *Local {
	return &Local{fs: fs, root: filepath.Clean(root)}
}

func (l *Local) LocalPath(_ context.Context, r *resource.Resource) (string, error) {
	ok, err := afero.Exists(l.fs, r.Path)
	if err != nil {
		return "", unavailable(err, r.Path)
	}
	if !ok {
		return "", sourceMissing(r.Path)
	}
	return r.Path, nil
}

func (l *Local) Store(_ context.Context, r *resource.Resource) (string, error) {
	src := filepath.Clean(r.Path)
	dst := filepath.Join(l.root, filepath.FromSlash(RelativePath(r)))

	ok, err := afero.Exists(l.fs, src)
	if err != nil {
		return "", unavailable(err, src)
	}
	if !ok {
		return "", sourceMissing(src)
	}
	if src == dst {
		return dst, nil
	}

	if err = l.fs.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return "", writeFailed(err, src, dst)
	}
	if err = l.fs.Remove(dst); err != nil && !os.IsNotExist(err) {
		return "", writeFailed(err, src, dst)
	}
	if err = l.move(src, dst); err != nil {
		return "", writeFailed(err, src, dst)
	}
	return dst, nil
}

func (l *Local) Delete(_ context.Context, p string) error {
	err := l.fs.Remove(p)
	if err != nil && !os.IsNotExist(err) {
		return writeFailed(err, p, "")
	}
	return nil
}

func (l *Local) Filesize(_ context.Context, p string) (int64, error) {
	info, err := l.fs.Stat(p)
	if os.IsNotExist(err) {
		return 0, sourceMissing(p)
	}
	if err != nil {
		return 0, unavailable(err, p)
	}
	return info.Size(), nil
}

// move renames src to dst and falls back to copy and remove, which is what
// crossing a device boundary requires.
func (l *Local) move(src, dst string) error {
	if err := l.fs.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(l.fs, src, dst); err != nil {
		return err
	}
	return l.fs.Remove(src)
}

func copyFile(fs afero.Fs, src, dst string) error {
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fs.Create(dst)
	if err != nil {
		return err
	}
	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = fs.Remove(dst)
		return err
	}
	return out.Close()
}
