package blobstore

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/groovepush/pkg/config"
	"github.com/sidkik/groovepush/pkg/errors"
)

func TestNewFSStore(t *testing.T) {
	fs = afero.NewMemMapFs()

	store, err := New(context.Background(), config.Store{Type: config.StoreTypeFS, Path: "/backups"})
	require.NoError(t, err)
	assert.IsType(t, &FSStore{}, store)

	isDir, err := afero.IsDir(fs, "/backups")
	require.NoError(t, err)
	assert.True(t, isDir)

	store, err = New(context.Background(), config.Store{
		Type:   config.StoreTypeFS,
		Path:   "/backups",
		Prefix: "team",
	})
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), StateKey("song"), []byte("{}")))

	exists, err := afero.Exists(fs, "/backups/team/song/state")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestNewStoreErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Store
		exp  error
	}{
		{
			name: "FSWithoutPath",
			cfg:  config.Store{Type: config.StoreTypeFS},
			exp:  errors.MissingFieldError{Field: "store.path"},
		},
		{
			name: "S3WithoutBucket",
			cfg:  config.Store{Type: config.StoreTypeS3},
			exp:  errors.MissingFieldError{Field: "store.bucket"},
		},
		{
			name: "GCSWithoutBucket",
			cfg:  config.Store{Type: config.StoreTypeGCS},
			exp:  errors.MissingFieldError{Field: "store.bucket"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := New(context.Background(), test.cfg)
			assert.Equal(t, test.exp, err)
		})
	}

	_, err := New(context.Background(), config.Store{Type: "ftp"})
	assert.Error(t, err)
}
