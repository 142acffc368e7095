package sync

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/sidkik/groovepush/pkg/blobstore"
	"github.com/sidkik/groovepush/pkg/errors"
	"github.com/sidkik/groovepush/pkg/history"
)

// PushState is the stage a push reached.
type PushState int

const (
	Idle PushState = iota
	Scanning
	Diffing

	// NoChanges means the local files matched the remote state, so nothing
	// was uploaded and no snapshot was created.
	NoChanges

	// DryRun means the changes were computed but nothing was written.
	DryRun

	Uploading
	PersistingState
	AppendingSnapshot
	Done
)

var pushStateNames = []string{
	"Idle", "Scanning", "Diffing", "NoChanges", "DryRun",
	"Uploading", "PersistingState", "AppendingSnapshot", "Done",
}

func (state PushState) String() string {
	if int(state) < len(pushStateNames) {
		return pushStateNames[state]
	}
	return fmt.Sprintf("PushState(%d)", int(state))
}

// PushOptions configures a push.
type PushOptions struct {
	// Message is an optional description stored in the snapshot.
	Message string

	// DryRun computes the changes without uploading anything.
	DryRun bool
}

// PushResult describes what a push did. When a push fails, State is the
// stage that failed.
type PushResult struct {
	Project string
	Root    string
	State   PushState

	// Scanned is every tracked local file.
	Scanned []Entry

	// Changed is the subset of Scanned that differed from the remote state.
	Changed []Entry

	// NewBlobs is the number of blobs that weren't already in the store.
	NewBlobs int

	// Snapshot is set once the push is Done.
	Snapshot *history.Snapshot
}

// Push backs up the project at `root`. Files whose contents match the
// remote state aren't uploaded, and if nothing changed, no snapshot is
// created. The remote state and history are only updated after every upload
// succeeded.
func (s *Syncer) Push(ctx context.Context, root string, opts PushOptions) (PushResult, error) {
	root, err := CanonicalRoot(root)
	if err != nil {
		return PushResult{}, err
	}

	project := ProjectName(root)
	result := PushResult{Project: project, Root: root, State: Scanning}
	if err := ValidateProjectName(project); err != nil {
		return result, err
	}
	log := s.log.WithField("project", project)

	scanner, err := NewScanner(root)
	if err != nil {
		return result, errors.WithContext(err, "scan")
	}

	result.Scanned, err = scanner.Scan()
	if err != nil {
		return result, errors.WithContext(err, "scan")
	}
	log.WithField("files", len(result.Scanned)).Debug("Scanned project")

	result.State = Diffing
	remote, err := s.fetchState(ctx, project)
	if err != nil {
		return result, errors.WithContext(err, "get remote state")
	}

	result.Changed = Diff(result.Scanned, remote)
	if len(result.Changed) == 0 {
		result.State = NoChanges
		log.Debug("No changes to push")
		return result, nil
	}

	if opts.DryRun {
		result.State = DryRun
		return result, nil
	}

	hist, err := s.FetchHistory(ctx, project)
	if errors.Is(err, errors.HistoryNotFound) {
		hist, err = history.New(project), nil
	}
	if err != nil {
		return result, errors.WithContext(err, "get history")
	}
	if err := hist.CheckWritable(); err != nil {
		return result, err
	}

	result.State = Uploading
	result.NewBlobs, err = s.uploadBlobs(ctx, log, project, result.Changed)
	if err != nil {
		return result, errors.WithContext(err, "upload")
	}

	result.State = PersistingState
	manifest := ManifestOf(result.Scanned)
	if err := s.putState(ctx, project, manifest); err != nil {
		return result, errors.WithContext(err, "save remote state")
	}

	result.State = AppendingSnapshot
	snapshot := hist.AddSnapshot(history.NewSnapshot(s.clock.Now(), opts.Message,
		manifest, TotalSize(result.Scanned), len(result.Changed)))
	if err := s.putHistory(ctx, hist); err != nil {
		return result, errors.WithContext(err, "save history")
	}

	result.State = Done
	result.Snapshot = &snapshot
	log.WithFields(logrus.Fields{
		"snapshot": snapshot.ID,
		"changed":  len(result.Changed),
		"newBlobs": result.NewBlobs,
	}).Info("Pushed snapshot")
	return result, nil
}

// uploadBlobs uploads the contents of `entries` that aren't already in the
// store. Entries with the same contents are only uploaded once.
func (s *Syncer) uploadBlobs(ctx context.Context, log logrus.FieldLogger, project string,
	entries []Entry) (int, error) {

	var toUpload []Entry
	seen := map[string]struct{}{}
	for _, e := range entries {
		if _, ok := seen[e.Hash]; ok {
			continue
		}
		seen[e.Hash] = struct{}{}
		toUpload = append(toUpload, e)
	}

	var uploaded int64
	err := forEach(ctx, s.concurrency, toUpload, func(ctx context.Context, e Entry) error {
		key := blobstore.BlobKey(project, e.Hash)
		exists, err := s.store.Exists(ctx, key)
		if err != nil {
			return errors.WithContext(err, fmt.Sprintf("check %s", e.Path))
		}
		if exists {
			log.WithField("path", e.Path).Debug("Blob already stored")
			return nil
		}

		data, err := afero.ReadFile(fs, e.ContentsPath)
		if err != nil {
			return errors.NewLocalIoError(e.ContentsPath, err)
		}

		// The snapshot will reference the scanned hash, so the uploaded
		// contents must match it.
		if HashBytes(data) != e.Hash {
			return errors.NewLocalIoError(e.ContentsPath, errors.ErrFileChanged)
		}

		if err := s.store.Put(ctx, key, data); err != nil {
			return errors.WithContext(err, fmt.Sprintf("upload %s", e.Path))
		}
		atomic.AddInt64(&uploaded, 1)
		log.WithField("path", e.Path).Debug("Uploaded blob")
		return nil
	})
	return int(uploaded), err
}
