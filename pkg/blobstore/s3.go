package blobstore

import (
	"bytes"
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/sidkik/groovepush/pkg/errors"
)

// S3API is the subset of the S3 client used by S3Store. Mocked out for unit
// testing.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Store stores objects in an S3 (or S3-compatible) bucket.
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

// S3Config holds configuration for S3Store.
type S3Config struct {
	Bucket string
	Region string

	// Endpoint is an optional custom endpoint, for MinIO, LocalStack, etc.
	Endpoint string

	// Prefix is an optional prefix prepended to every key.
	Prefix string
}

// NewS3Store creates a store using the default AWS credential chain.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, errors.WithContext(err, "load AWS config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// Required for MinIO and LocalStack.
			o.UsePathStyle = true
		}
	})
	return NewS3StoreWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewS3StoreWithClient creates a store that uses the given client.
func NewS3StoreWithClient(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Store) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(prefixedKey(s.prefix, key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/octet-stream"),
	})
	if err != nil {
		return errors.NewRemoteStoreError(key, err)
	}
	return nil
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(prefixedKey(s.prefix, key)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, errors.NewBlobNotFound(key, nil)
		}
		return nil, errors.NewRemoteStoreError(key, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.NewRemoteStoreError(key, err)
	}
	return data, nil
}

func (s *S3Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(prefixedKey(s.prefix, key)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return false, nil
		}
		return false, errors.NewRemoteStoreError(key, err)
	}
	return true, nil
}

// isS3NotFound returns whether err means the object doesn't exist. GetObject
// returns NoSuchKey, while HeadObject has no body and so only returns a
// generic NotFound.
func isS3NotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
