package history

import (
	"maps"
	"time"
)

// IDLayout is the time layout snapshot ids are derived from.
const IDLayout = "20060102T150405Z"

// Meta is advisory information about a snapshot. It doesn't participate in
// any consistency check.
type Meta struct {
	FileCount    int    `json:"file_count"`
	TotalSize    uint64 `json:"total_size"`
	ChangedCount int    `json:"changed_count"`
}

// Snapshot is a full manifest of a project at the time of one push. Once a
// snapshot is appended to a History it is never modified.
type Snapshot struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Message   string    `json:"message,omitempty"`

	// Files maps the slash-separated relative path of every tracked file to
	// the hex sha256 of its contents.
	Files map[string]string `json:"files"`

	// ParentID is the id of the snapshot that was head when this one was
	// appended. It's empty for the first snapshot of a project.
	ParentID string `json:"parent_id,omitempty"`

	Meta Meta `json:"meta"`
}

// ID returns the snapshot id for a snapshot created at `t`.
func ID(t time.Time) string {
	return t.UTC().Format(IDLayout)
}

// NewSnapshot creates a snapshot of `files`. The parent and final id are
// assigned when the snapshot is added to a History.
func NewSnapshot(createdAt time.Time, message string, files map[string]string,
	totalSize uint64, changedCount int) Snapshot {

	createdAt = createdAt.UTC().Truncate(time.Second)
	return Snapshot{
		ID:        ID(createdAt),
		CreatedAt: createdAt,
		Message:   message,
		Files:     maps.Clone(files),
		Meta: Meta{
			FileCount:    len(files),
			TotalSize:    totalSize,
			ChangedCount: changedCount,
		},
	}
}

func (s Snapshot) clone() Snapshot {
	s.Files = maps.Clone(s.Files)
	return s
}
