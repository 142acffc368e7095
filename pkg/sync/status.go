package sync

import (
	"context"

	"github.com/sidkik/groovepush/pkg/errors"
	"github.com/sidkik/groovepush/pkg/history"
)

// StatusResult compares a local project with its remote state.
type StatusResult struct {
	Project   string
	Root      string
	Files     []Entry
	TotalSize uint64

	// Pushed is false if the project has no remote state yet, in which case
	// Changed and Deleted are empty.
	Pushed bool

	// Changed are the files that a push would upload.
	Changed []Entry

	// Deleted are the paths in the remote state that no longer exist
	// locally.
	Deleted []string
}

// Status reports the local changes that haven't been pushed. It doesn't
// modify the store.
func (s *Syncer) Status(ctx context.Context, root string) (StatusResult, error) {
	root, err := CanonicalRoot(root)
	if err != nil {
		return StatusResult{}, err
	}

	result := StatusResult{Project: ProjectName(root), Root: root}
	scanner, err := NewScanner(root)
	if err != nil {
		return result, errors.WithContext(err, "scan")
	}

	result.Files, err = scanner.Scan()
	if err != nil {
		return result, errors.WithContext(err, "scan")
	}
	SortEntries(result.Files)
	result.TotalSize = TotalSize(result.Files)

	remote, err := s.fetchState(ctx, result.Project)
	if err != nil {
		return result, errors.WithContext(err, "get remote state")
	}

	if len(remote) == 0 {
		return result, nil
	}
	result.Pushed = true
	result.Changed = Diff(result.Files, remote)
	SortEntries(result.Changed)
	result.Deleted = Deleted(result.Files, remote)
	return result, nil
}

// Log returns the project's snapshots, most recent first. At most `limit`
// snapshots are returned, or all of them if `limit` isn't positive.
func (s *Syncer) Log(ctx context.Context, project string, limit int) ([]history.Snapshot, error) {
	if err := ValidateProjectName(project); err != nil {
		return nil, err
	}

	hist, err := s.FetchHistory(ctx, project)
	if err != nil {
		return nil, err
	}

	snapshots := hist.Snapshots()
	for i, j := 0, len(snapshots)-1; i < j; i, j = i+1, j-1 {
		snapshots[i], snapshots[j] = snapshots[j], snapshots[i]
	}
	if limit > 0 && len(snapshots) > limit {
		snapshots = snapshots[:limit]
	}
	return snapshots, nil
}
