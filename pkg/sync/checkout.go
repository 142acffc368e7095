package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/sidkik/groovepush/pkg/blobstore"
	"github.com/sidkik/groovepush/pkg/config"
	"github.com/sidkik/groovepush/pkg/errors"
	"github.com/sidkik/groovepush/pkg/history"
)

// CloneResult describes a cloned project.
type CloneResult struct {
	Project  string
	Root     string
	Snapshot history.Snapshot
}

// Checkout restores the files in the snapshot identified by `ref` into
// `outputRoot`. `ref` may be a full snapshot id or a prefix of one, in
// which case the most recent matching snapshot is used. Existing files are
// overwritten, and files that aren't in the snapshot are left alone.
func (s *Syncer) Checkout(ctx context.Context, project, ref, outputRoot string) (
	history.Snapshot, error) {

	if err := ValidateProjectName(project); err != nil {
		return history.Snapshot{}, err
	}

	hist, err := s.FetchHistory(ctx, project)
	if err != nil {
		return history.Snapshot{}, errors.WithContext(err, "get history")
	}

	snapshot, err := hist.Resolve(ref)
	if err != nil {
		return history.Snapshot{}, err
	}

	if err := s.materialize(ctx, project, snapshot, outputRoot); err != nil {
		return snapshot, errors.WithContext(err, "restore files")
	}

	s.log.WithFields(logrus.Fields{
		"project":  project,
		"snapshot": snapshot.ID,
	}).Info("Checked out snapshot")
	return snapshot, nil
}

// Clone restores the latest snapshot of `project` into a new directory
// named after the project within `parentDir`.
func (s *Syncer) Clone(ctx context.Context, project, parentDir string) (CloneResult, error) {
	if err := ValidateProjectName(project); err != nil {
		return CloneResult{}, err
	}

	dst := filepath.Join(parentDir, project)
	result := CloneResult{Project: project, Root: dst}
	if _, err := fs.Stat(dst); err == nil {
		return result, errors.NewDestinationExists(dst)
	} else if !os.IsNotExist(err) {
		return result, errors.NewLocalIoError(dst, err)
	}

	hist, err := s.FetchHistory(ctx, project)
	if err != nil {
		return result, errors.WithContext(err, "get history")
	}

	snapshot, ok := hist.LatestSnapshot()
	if !ok {
		return result, errors.NewSnapshotNotFound("latest")
	}
	result.Snapshot = snapshot

	if err := s.materialize(ctx, project, snapshot, dst); err != nil {
		return result, errors.WithContext(err, "restore files")
	}

	metadataDir := filepath.Join(dst, config.MetadataDir)
	if err := fs.MkdirAll(metadataDir, 0755); err != nil {
		return result, errors.NewLocalIoError(metadataDir, err)
	}

	s.log.WithFields(logrus.Fields{
		"project":  project,
		"snapshot": snapshot.ID,
	}).Info("Cloned project")
	return result, nil
}

// materialize downloads every file in the snapshot and writes it below
// `outputRoot`.
func (s *Syncer) materialize(ctx context.Context, project string,
	snapshot history.Snapshot, outputRoot string) error {

	if err := fs.MkdirAll(outputRoot, 0755); err != nil {
		return errors.NewLocalIoError(outputRoot, err)
	}

	var paths []string
	for path := range snapshot.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	return forEach(ctx, s.concurrency, paths, func(ctx context.Context, path string) error {
		dst, err := outputPath(outputRoot, path)
		if err != nil {
			return err
		}

		hash := snapshot.Files[path]
		data, err := s.store.Get(ctx, blobstore.BlobKey(project, hash))
		if err != nil {
			return errors.WithContext(err, fmt.Sprintf("download %s", path))
		}

		if HashBytes(data) != hash {
			return errors.NewRemoteStoreError(blobstore.BlobKey(project, hash),
				errors.New("downloaded contents don't match hash"))
		}

		if err := writeFileAtomic(dst, data); err != nil {
			return err
		}
		s.log.WithField("path", path).Debug("Restored file")
		return nil
	})
}

// outputPath returns where the file at the slash-separated `path` should be
// written. Paths that would resolve outside of `root` are rejected.
func outputPath(root, path string) (string, error) {
	if path == "" || filepath.IsAbs(filepath.FromSlash(path)) ||
		strings.HasPrefix(path, "/") {
		return "", errors.NewLocalIoError(path, errors.New("invalid path in snapshot"))
	}

	dst := filepath.Join(root, filepath.FromSlash(path))
	rel, err := filepath.Rel(root, dst)
	if err != nil || rel == "." || rel == ".." ||
		strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.NewLocalIoError(path, errors.New("path escapes output directory"))
	}
	return dst, nil
}

// writeFileAtomic writes `data` to a temporary file next to `path`, and then
// renames it into place so that readers never see a partial file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return errors.NewLocalIoError(dir, err)
	}

	tmp, err := afero.TempFile(fs, dir, ".gp-tmp-*")
	if err != nil {
		return errors.NewLocalIoError(path, err)
	}
	tmpPath := tmp.Name()

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = fs.Rename(tmpPath, path)
	}
	if err != nil {
		fs.Remove(tmpPath)
		return errors.NewLocalIoError(path, err)
	}
	return nil
}
