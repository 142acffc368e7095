//go:build gcp

package blobstore

import (
	"context"
	goerrors "errors"
	"io"

	"cloud.google.com/go/storage"

	"github.com/sidkik/groovepush/pkg/config"
	"github.com/sidkik/groovepush/pkg/errors"
)

// GCSStore stores objects in a Google Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSStore creates a store using Application Default Credentials.
func NewGCSStore(ctx context.Context, bucket, prefix string) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, errors.WithContext(err, "create GCS client")
	}
	return &GCSStore{client: client, bucket: bucket, prefix: prefix}, nil
}

func (s *GCSStore) object(key string) *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(prefixedKey(s.prefix, key))
}

func (s *GCSStore) Put(ctx context.Context, key string, data []byte) error {
	w := s.object(key).NewWriter(ctx)
	w.ContentType = "application/octet-stream"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return errors.NewRemoteStoreError(key, err)
	}
	if err := w.Close(); err != nil {
		return errors.NewRemoteStoreError(key, err)
	}
	return nil
}

func (s *GCSStore) Get(ctx context.Context, key string) ([]byte, error) {
	reader, err := s.object(key).NewReader(ctx)
	if err != nil {
		if goerrors.Is(err, storage.ErrObjectNotExist) {
			return nil, errors.NewBlobNotFound(key, nil)
		}
		return nil, errors.NewRemoteStoreError(key, err)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewRemoteStoreError(key, err)
	}
	return data, nil
}

func (s *GCSStore) Exists(ctx context.Context, key string) (bool, error) {
	if _, err := s.object(key).Attrs(ctx); err != nil {
		if goerrors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, errors.NewRemoteStoreError(key, err)
	}
	return true, nil
}

// Close closes the GCS client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}

func newGCSStore(ctx context.Context, cfg config.Store) (Store, error) {
	return NewGCSStore(ctx, cfg.Bucket, cfg.Prefix)
}
