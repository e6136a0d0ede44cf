// Package s3wr implements filestore.ObjectStore on the AWS S3 API.
package s3wr

import (
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/code19m/errx"

	"github.com/rise-and-shine/dataresource/filestore"
)

const scheme = "s3"

type Client struct {
	client *s3.Client
	bucket string
}

var _ filestore.ObjectStore = (*Client)(nil)

func New(ctx context.Context, cfg Config) (*Client, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(creds),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

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
	out, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          r,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return nil, c.wrap(err, key)
	}

	return &filestore.ObjectInfo{
		Key:         key,
		Size:        size,
		ContentType: contentType,
		ETag:        aws.ToString(out.ETag),
	}, nil
}

func (c *Client) Get(ctx context.Context, key string) (*filestore.Object, error) {
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, c.wrap(err, key)
	}

	return &filestore.Object{
		Content: out.Body,
		Info: filestore.ObjectInfo{
			Key:          key,
			Size:         aws.ToInt64(out.ContentLength),
			ContentType:  aws.ToString(out.ContentType),
			ETag:         aws.ToString(out.ETag),
			LastModified: aws.ToTime(out.LastModified),
		},
	}, nil
}

func (c *Client) Stat(ctx context.Context, key string) (*filestore.ObjectInfo, error) {
	out, err := c.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, c.wrap(err, key)
	}

	return &filestore.ObjectInfo{
		Key:          key,
		Size:         aws.ToInt64(out.ContentLength),
		ContentType:  aws.ToString(out.ContentType),
		ETag:         aws.ToString(out.ETag),
		LastModified: aws.ToTime(out.LastModified),
	}, nil
}

// Delete relies on S3 reporting success for missing keys.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil && !isNotFound(err) {
		return c.wrap(err, key)
	}
	return nil
}

func (c *Client) wrap(err error, key string) error {
	if isNotFound(err) {
		return filestore.NotFound(c.bucket, key)
	}
	return errx.Wrap(err, errx.WithDetails(errx.D{"bucket": c.bucket, "key": key}))
}

// isNotFound covers GetObject (NoSuchKey) and HeadObject (NotFound).
func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}
