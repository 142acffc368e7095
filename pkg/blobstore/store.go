// Package blobstore contains the object storage backends that snapshots and
// file contents are pushed to.
//
// Each project owns a key namespace:
//
//	{project}/state          the manifest of the last push
//	{project}/history        the snapshot history
//	{project}/blobs/{hash}   file contents, addressed by sha256
package blobstore

import (
	"context"
	"path"
	"strings"
)

// Store is the contract the sync engine needs from remote storage.
// Implementations must be safe for concurrent use.
type Store interface {
	// Put stores `data` under `key`, replacing any existing object.
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the object stored under `key`. It returns an error of kind
	// BlobNotFound if the key doesn't exist, and RemoteStoreError for any
	// other failure.
	Get(ctx context.Context, key string) ([]byte, error)

	// Exists returns whether an object is stored under `key`.
	Exists(ctx context.Context, key string) (bool, error)
}

// StateKey is the key of the project's current manifest.
func StateKey(project string) string {
	return path.Join(project, "state")
}

// HistoryKey is the key of the project's snapshot history.
func HistoryKey(project string) string {
	return path.Join(project, "history")
}

// BlobKey is the key of the file contents with the given hash.
func BlobKey(project, hash string) string {
	return path.Join(project, "blobs", hash)
}

// prefixedKey places `key` under the `prefix` directory of a bucket.
func prefixedKey(prefix, key string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return key
	}
	return path.Join(prefix, key)
}
