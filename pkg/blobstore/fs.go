package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/sidkik/groovepush/pkg/errors"
)

// FSStore keeps objects as files below a root directory. It backs the
// default local store, and with afero.NewMemMapFs it's the in-memory store
// used by tests.
type FSStore struct {
	fs   afero.Fs
	root string
}

// NewFSStore creates a store rooted at `root`, creating the directory if
// needed.
func NewFSStore(fs afero.Fs, root string) (*FSStore, error) {
	if err := fs.MkdirAll(root, 0755); err != nil {
		return nil, errors.NewRemoteStoreError(root, err)
	}
	return &FSStore{fs: fs, root: root}, nil
}

func (s *FSStore) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || filepath.IsAbs(clean) ||
		clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.NewRemoteStoreError(key, errors.New("invalid key"))
	}
	return filepath.Join(s.root, clean), nil
}

// Put writes the object to a temporary file and renames it into place so
// that readers never observe a partially written object.
func (s *FSStore) Put(_ context.Context, key string, data []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return errors.NewRemoteStoreError(key, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, ".tmp-*")
	if err != nil {
		return errors.NewRemoteStoreError(key, err)
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil || closeErr != nil {
		_ = s.fs.Remove(tmpName)
		if writeErr == nil {
			writeErr = closeErr
		}
		return errors.NewRemoteStoreError(key, writeErr)
	}

	if err := s.fs.Rename(tmpName, path); err != nil {
		_ = s.fs.Remove(tmpName)
		return errors.NewRemoteStoreError(key, err)
	}
	return nil
}

func (s *FSStore) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewBlobNotFound(key, nil)
		}
		return nil, errors.NewRemoteStoreError(key, err)
	}
	return data, nil
}

func (s *FSStore) Exists(_ context.Context, key string) (bool, error) {
	path, err := s.path(key)
	if err != nil {
		return false, err
	}

	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return false, errors.NewRemoteStoreError(key, err)
	}
	return exists, nil
}
