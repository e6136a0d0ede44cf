// Package miniowr implements filestore.ObjectStore on MinIO.
package miniowr

import (
	"context"
	"io"

	"github.com/code19m/errx"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/rise-and-shine/dataresource/filestore"
)

const (
	scheme        = "minio"
	codeNoSuchKey = "NoSuchKey"
)

type Client struct {
	client *minio.Client
	bucket string
}

var _ filestore.ObjectStore = (*Client)(nil)

// New connects to MinIO and, when configured, creates the bucket.
func New(ctx context.Context, cfg Config) (*Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}

	if cfg.CreateBucket {
		exists, existsErr := client.BucketExists(ctx, cfg.Bucket)
		if existsErr != nil {
			return nil, errx.Wrap(existsErr, errx.WithDetails(errx.D{"bucket": cfg.Bucket}))
		}
		if !exists {
			if err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
				return nil, errx.Wrap(err, errx.WithDetails(errx.D{"bucket": cfg.Bucket}))
			}
		}
	}

	return &Client{client: client, bucket: cfg.Bucket}, nil
}

func (c *Client) Scheme() string { return scheme }

func (c *Client) Bucket() string { return c.bucket }

func (c *Client) Put(
	ctx context.Context,
	key string,
	r io.Reader,
	size int64,
	contentType string,
) (*filestore.ObjectInfo, error) {
	info, err := c.client.PutObject(ctx, c.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"bucket": c.bucket, "key": key}))
	}

	return &filestore.ObjectInfo{
		Key:          key,
		Size:         info.Size,
		ContentType:  contentType,
		ETag:         info.ETag,
		LastModified: info.LastModified,
	}, nil
}

func (c *Client) Get(ctx context.Context, key string) (*filestore.Object, error) {
	obj, err := c.client.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, c.wrapMinioError(err, key)
	}

	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, c.wrapMinioError(err, key)
	}

	return &filestore.Object{Content: obj, Info: toInfo(key, stat)}, nil
}

func (c *Client) Stat(ctx context.Context, key string) (*filestore.ObjectInfo, error) {
	stat, err := c.client.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, c.wrapMinioError(err, key)
	}
	info := toInfo(key, stat)
	return &info, nil
}

// Delete ignores missing keys; MinIO itself reports success for them.
func (c *Client) Delete(ctx context.Context, key string) error {
	err := c.client.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != codeNoSuchKey {
		return errx.Wrap(err, errx.WithDetails(errx.D{"bucket": c.bucket, "key": key}))
	}
	return nil
}

func (c *Client) wrapMinioError(err error, key string) error {
	if minio.ToErrorResponse(err).Code == codeNoSuchKey {
		return filestore.NotFound(c.bucket, key)
	}
	return errx.Wrap(err, errx.WithDetails(errx.D{"bucket": c.bucket, "key": key}))
}

func toInfo(key string, stat minio.ObjectInfo) filestore.ObjectInfo {
	return filestore.ObjectInfo{
		Key:          key,
		Size:         stat.Size,
		ContentType:  stat.ContentType,
		ETag:         stat.ETag,
		LastModified: stat.LastModified,
	}
}
