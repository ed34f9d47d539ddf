// Package s3 lists and deletes backups kept in S3 or an S3-compatible
// service (MinIO, Ceph RGW, R2).
package s3

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/raoulx24/backup-rotator/internal/config"
	"github.com/raoulx24/backup-rotator/internal/objectstore"
)

const defaultRegion = "us-east-1"

// Store holds backups in one bucket. Keys are used as artifact paths.
type Store struct {
	client *s3.Client
	bucket string
}

// New builds a client for cfg.Bucket. Without static keys the default AWS
// credential chain applies. No request is made.
func New(ctx context.Context, cfg config.S3Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// List pages through every backup under prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]objectstore.ObjectMeta, error) {
	var out []objectstore.ObjectMeta
	pages := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, classify("List", prefix, err)
		}
		for _, obj := range page.Contents {
			out = append(out, meta(aws.ToString(obj.Key), aws.ToInt64(obj.Size), obj.LastModified))
		}
	}
	return out, nil
}

func (s *Store) Head(ctx context.Context, key string) (objectstore.ObjectMeta, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return objectstore.ObjectMeta{}, classify("Head", key, err)
	}
	return meta(key, aws.ToInt64(out.ContentLength), out.LastModified), nil
}

// Delete removes key. S3 answers a missing key with success; a 404 from a
// compatible service is treated the same way.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return nil
	}
	if err = classify("Delete", key, err); errors.Is(err, objectstore.ErrNotFound) {
		return nil
	}
	return err
}

// Close is a no-op; the SDK client holds no resources to release.
func (s *Store) Close() error {
	return nil
}

func meta(key string, size int64, modified *time.Time) objectstore.ObjectMeta {
	m := objectstore.ObjectMeta{Key: key, Size: size}
	if modified != nil {
		m.LastModified = modified.UnixMilli()
	}
	return m
}

// classify maps SDK errors onto the objectstore sentinels.
func classify(op, key string, err error) error {
	var (
		respErr  *awshttp.ResponseError
		noKey    *types.NoSuchKey
		notFound *types.NotFound
	)
	switch {
	case errors.As(err, &noKey), errors.As(err, &notFound):
		err = objectstore.ErrNotFound
	case errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound:
		err = objectstore.ErrNotFound
	case errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusForbidden:
		err = objectstore.ErrAccessDenied
	}
	return &objectstore.ObjectError{Op: op, Key: key, Err: err}
}
