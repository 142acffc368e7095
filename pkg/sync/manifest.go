package sync

import (
	"encoding/json"
	"sort"

	"github.com/sidkik/groovepush/pkg/errors"
)

// Entry describes one tracked file found by a scan.
type Entry struct {
	// Path is the slash-separated path of the file relative to the project
	// root. It's the identity of the entry.
	Path string

	// Hash is the hex encoded sha256 of the file contents.
	Hash string

	// Size is the size of the file in bytes, as reported by the filesystem.
	Size uint64

	// ContentsPath is the path that can be opened by this process to read
	// the file. It's never persisted.
	ContentsPath string
}

// Manifest maps the path of every tracked file to the hash of its contents.
// It's the remote state that each push is diffed against.
type Manifest map[string]string

// ManifestOf returns the manifest describing `entries`.
func ManifestOf(entries []Entry) Manifest {
	manifest := Manifest{}
	for _, e := range entries {
		manifest[e.Path] = e.Hash
	}
	return manifest
}

// TotalSize returns the sum of the sizes of `entries`.
func TotalSize(entries []Entry) (total uint64) {
	for _, e := range entries {
		total += e.Size
	}
	return total
}

// SortEntries sorts entries by path, for display.
func SortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
}

// Marshal serializes the manifest as a JSON object.
func (m Manifest) Marshal() ([]byte, error) {
	if m == nil {
		m = Manifest{}
	}
	return json.MarshalIndent(m, "", "  ")
}

// UnmarshalManifest parses a manifest serialized by Marshal.
func UnmarshalManifest(data []byte) (Manifest, error) {
	manifest := Manifest{}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.WithContext(err, "decode manifest")
	}
	return manifest, nil
}
