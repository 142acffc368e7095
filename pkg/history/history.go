package history

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sidkik/groovepush/pkg/errors"
)

// SchemaVersion is the version written into newly created histories.
const SchemaVersion = 1

// History is the append-only chain of snapshots for a project.
//
// The chain is stored as a slice in creation order. AddSnapshot is the only
// mutator, so the head always names the last snapshot and every snapshot's
// parent is the one before it.
type History struct {
	version     int
	projectName string
	head        string
	snapshots   []Snapshot
}

// New returns an empty history for `projectName`.
func New(projectName string) *History {
	return &History{version: SchemaVersion, projectName: projectName}
}

func (h *History) Version() int        { return h.version }
func (h *History) ProjectName() string { return h.projectName }
func (h *History) Len() int            { return len(h.snapshots) }

// Head returns the id of the most recent snapshot, and false if the history
// is empty.
func (h *History) Head() (string, bool) {
	return h.head, h.head != ""
}

// CheckWritable returns an error if the history was written by a newer
// version of gp. Fields that this version doesn't know about would be lost
// when the history is saved again.
func (h *History) CheckWritable() error {
	if h.version > SchemaVersion {
		return errors.NewFriendlyError("The history of %q uses format v%d, "+
			"but this version of gp only supports up to v%d.\n"+
			"Upgrade gp to push to this project.", h.projectName, h.version, SchemaVersion)
	}
	return nil
}

// Snapshots returns a copy of the snapshots in creation order.
func (h *History) Snapshots() []Snapshot {
	snapshots := make([]Snapshot, 0, len(h.snapshots))
	for _, s := range h.snapshots {
		snapshots = append(snapshots, s.clone())
	}
	return snapshots
}

// AddSnapshot appends `s` to the chain and makes it the head. The parent is
// set to the current head, and the id is suffixed with `-2`, `-3`, etc if an
// earlier snapshot was created in the same second. The snapshot as stored is
// returned.
func (h *History) AddSnapshot(s Snapshot) Snapshot {
	s = s.clone()
	if s.ID == "" {
		s.ID = ID(s.CreatedAt)
	}
	s.ID = h.uniqueID(s.ID)
	s.ParentID = h.head

	h.snapshots = append(h.snapshots, s)
	h.head = s.ID
	return s.clone()
}

func (h *History) uniqueID(base string) string {
	if _, ok := h.FindSnapshot(base); !ok {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if _, ok := h.FindSnapshot(candidate); !ok {
			return candidate
		}
	}
}

// FindSnapshot returns the snapshot with exactly the given id.
func (h *History) FindSnapshot(id string) (Snapshot, bool) {
	for _, s := range h.snapshots {
		if s.ID == id {
			return s.clone(), true
		}
	}
	return Snapshot{}, false
}

// FindSnapshotByPrefix returns the most recent snapshot whose id starts with
// `prefix`. An ambiguous prefix such as a year resolves to the newest match.
func (h *History) FindSnapshotByPrefix(prefix string) (Snapshot, bool) {
	for i := len(h.snapshots) - 1; i >= 0; i-- {
		if strings.HasPrefix(h.snapshots[i].ID, prefix) {
			return h.snapshots[i].clone(), true
		}
	}
	return Snapshot{}, false
}

// LatestSnapshot returns the tail of the chain.
func (h *History) LatestSnapshot() (Snapshot, bool) {
	if len(h.snapshots) == 0 {
		return Snapshot{}, false
	}
	return h.snapshots[len(h.snapshots)-1].clone(), true
}

// Resolve looks up a snapshot by exact id, falling back to a prefix match.
func (h *History) Resolve(ref string) (Snapshot, error) {
	if ref == "" {
		return Snapshot{}, errors.NewSnapshotNotFound(ref)
	}
	if s, ok := h.FindSnapshot(ref); ok {
		return s, nil
	}
	if s, ok := h.FindSnapshotByPrefix(ref); ok {
		return s, nil
	}
	return Snapshot{}, errors.NewSnapshotNotFound(ref)
}

type historyJSON struct {
	Version     int        `json:"version"`
	ProjectName string     `json:"project_name"`
	Head        string     `json:"head,omitempty"`
	Snapshots   []Snapshot `json:"snapshots"`
}

// Marshal serializes the history into its persisted JSON form.
func (h *History) Marshal() ([]byte, error) {
	snapshots := h.snapshots
	if snapshots == nil {
		snapshots = []Snapshot{}
	}
	return json.MarshalIndent(historyJSON{
		Version:     h.version,
		ProjectName: h.projectName,
		Head:        h.head,
		Snapshots:   snapshots,
	}, "", "  ")
}

// Unmarshal parses a persisted history. Unknown fields are ignored so that
// older binaries can read histories written by newer ones. A history whose
// chain is inconsistent is rejected.
func Unmarshal(data []byte) (*History, error) {
	var raw historyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.WithContext(err, "decode")
	}

	if raw.Version == 0 {
		raw.Version = SchemaVersion
	}

	seen := map[string]struct{}{}
	for i, s := range raw.Snapshots {
		if s.ID == "" {
			return nil, fmt.Errorf("snapshot %d has no id", i)
		}
		if _, ok := seen[s.ID]; ok {
			return nil, fmt.Errorf("duplicate snapshot id %q", s.ID)
		}

		if i == 0 && s.ParentID != "" {
			return nil, fmt.Errorf("first snapshot %q has parent %q", s.ID, s.ParentID)
		}
		if i > 0 {
			if _, ok := seen[s.ParentID]; !ok {
				return nil, fmt.Errorf("snapshot %q has unknown parent %q", s.ID, s.ParentID)
			}
		}
		seen[s.ID] = struct{}{}
	}

	expHead := ""
	if n := len(raw.Snapshots); n > 0 {
		expHead = raw.Snapshots[n-1].ID
	}
	if raw.Head != expHead {
		return nil, fmt.Errorf("head %q doesn't match last snapshot %q", raw.Head, expHead)
	}

	return &History{
		version:     raw.Version,
		projectName: raw.ProjectName,
		head:        raw.Head,
		snapshots:   raw.Snapshots,
	}, nil
}
