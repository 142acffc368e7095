package blobstore

import (
	"context"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/sidkik/groovepush/pkg/config"
	"github.com/sidkik/groovepush/pkg/errors"
)

// Mocked out for unit testing.
var fs = afero.NewOsFs()

// New creates the store described by `cfg`. The config is expected to have
// had its defaults applied by config.ParseUser.
func New(ctx context.Context, cfg config.Store) (Store, error) {
	log.WithFields(log.Fields{
		"type":   cfg.Type,
		"bucket": cfg.Bucket,
		"path":   cfg.Path,
	}).Debug("Creating blob store")

	switch cfg.Type {
	case config.StoreTypeFS, "":
		if cfg.Path == "" {
			return nil, errors.MissingFieldError{Field: "store.path"}
		}
		return NewFSStore(fs, filepath.Join(cfg.Path, filepath.FromSlash(cfg.Prefix)))
	case config.StoreTypeS3:
		if cfg.Bucket == "" {
			return nil, errors.MissingFieldError{Field: "store.bucket"}
		}
		return NewS3Store(ctx, S3Config{
			Bucket:   cfg.Bucket,
			Region:   cfg.Region,
			Endpoint: cfg.Endpoint,
			Prefix:   cfg.Prefix,
		})
	case config.StoreTypeGCS:
		if cfg.Bucket == "" {
			return nil, errors.MissingFieldError{Field: "store.bucket"}
		}
		return newGCSStore(ctx, cfg)
	default:
		return nil, errors.NewFriendlyError("Unsupported store type %q.", cfg.Type)
	}
}
