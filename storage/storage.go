// Package storage decides where resource bytes durably live and how they are
// brought to a locally readable path. Backends touch only the filesystem or
// the object store, never the resource database.
package storage

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/code19m/errx"

	"github.com/rise-and-shine/dataresource/resource"
)

// Backend is the capability set used by the commit pipeline.
type Backend interface {
	// LocalPath makes the resource readable on the local filesystem and
	// returns that path, pulling it from remote storage when needed.
	LocalPath(ctx context.Context, r *resource.Resource) (string, error)
	// Store moves or uploads the current bytes of r into the durable
	// namespace and returns the final path. Calling it again for an
	// unchanged resource returns the same path.
	Store(ctx context.Context, r *resource.Resource) (string, error)
	// Delete removes path. A missing path is not an error.
	Delete(ctx context.Context, path string) error
	Filesize(ctx context.Context, path string) (int64, error)
}

// RelativePath is the durable object name of r: <owner>/<id>.<name>. Only the
// last element of the name is used, so a name never leaves the owner prefix.
func RelativePath(r *resource.Resource) string {
	name := path.Base(strings.ReplaceAll(r.Name, `\`, "/"))
	if name == "/" || name == "." {
		name = ""
	}
	return path.Join(r.Owner.String(), r.ID.String()+"."+name)
}

// Committed reports whether r already sits at its durable object name, under
// a local root or in a bucket.
func Committed(r *resource.Resource) bool {
	return strings.HasSuffix(filepath.ToSlash(r.Path), "/"+RelativePath(r))
}

var remoteSchemes = []string{"s3", "minio", "gs"}

// URI is a parsed scheme://bucket/key location.
type URI struct {
	Scheme string
	Bucket string
	Key    string
}

func (u URI) String() string {
	return u.Scheme + "://" + u.Bucket + "/" + u.Key
}

// IsRemote reports whether p names an object in a bucket.
func IsRemote(p string) bool {
	_, ok := ParseURI(p)
	return ok
}

// ParseURI splits a bucket URI. ok is false for local paths.
func ParseURI(p string) (URI, bool) {
	scheme, rest, found := strings.Cut(p, "://")
	if !found {
		return URI{}, false
	}
	known := false
	for _, s := range remoteSchemes {
		if s == scheme {
			known = true
			break
		}
	}
	if !known {
		return URI{}, false
	}
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return URI{}, false
	}
	return URI{Scheme: scheme, Bucket: bucket, Key: key}, true
}

func sourceMissing(p string) error {
	return errx.New(
		"resource source is missing",
		errx.WithCode(CodeStorageUnavailable),
		errx.WithType(errx.T_NotFound),
		errx.WithDetails(errx.D{"path": p}),
	)
}

func unavailable(err error, p string) error {
	return errx.Wrap(err,
		errx.WithCode(CodeStorageUnavailable),
		errx.WithType(errx.T_Internal),
		errx.WithDetails(errx.D{"path": p}),
	)
}

func writeFailed(err error, src, dst string) error {
	return errx.Wrap(err,
		errx.WithCode(CodeStorageWriteFailed),
		errx.WithType(errx.T_Internal),
		errx.WithDetails(errx.D{"source": src, "destination": dst}),
	)
}
