package sync

import (
	"sort"
)

// Diff returns the local entries that must be uploaded: those whose path is
// missing from `remote`, or whose hash differs from it. Only the hash is
// compared.
//
// Files that were deleted locally aren't reported. They drop out of the
// remote state when it's overwritten by the next push.
func Diff(local []Entry, remote Manifest) (changed []Entry) {
	for _, e := range local {
		remoteHash, ok := remote[e.Path]
		if !ok || remoteHash != e.Hash {
			changed = append(changed, e)
		}
	}
	return changed
}

// Deleted returns the sorted paths in `remote` that no longer exist locally.
// It's only used to report status, and doesn't affect what gets pushed.
func Deleted(local []Entry, remote Manifest) (deleted []string) {
	localPaths := map[string]struct{}{}
	for _, e := range local {
		localPaths[e.Path] = struct{}{}
	}

	for path := range remote {
		if _, ok := localPaths[path]; !ok {
			deleted = append(deleted, path)
		}
	}
	sort.Strings(deleted)
	return deleted
}
