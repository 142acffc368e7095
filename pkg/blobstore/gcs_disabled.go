//go:build !gcp

package blobstore

import (
	"context"

	"github.com/sidkik/groovepush/pkg/config"
	"github.com/sidkik/groovepush/pkg/errors"
)

func newGCSStore(context.Context, config.Store) (Store, error) {
	return nil, errors.NewFriendlyError(
		"GCS storage is not enabled in this build (rebuild with -tags gcp).")
}
