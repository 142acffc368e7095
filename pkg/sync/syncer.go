package sync

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/sidkik/groovepush/pkg/blobstore"
	"github.com/sidkik/groovepush/pkg/errors"
	"github.com/sidkik/groovepush/pkg/history"
)

// DefaultConcurrency is the number of blob transfers in flight at once when
// none is configured.
const DefaultConcurrency = 8

// Syncer pushes projects to a blob store and restores them from it.
// A Syncer may be used for multiple projects, but it assumes it's the only
// writer for each project.
type Syncer struct {
	store       blobstore.Store
	log         logrus.FieldLogger
	clock       clockwork.Clock
	concurrency int
}

// NewSyncer creates a Syncer that transfers at most `concurrency` blobs at
// a time.
func NewSyncer(store blobstore.Store, log logrus.FieldLogger, clock clockwork.Clock,
	concurrency int) *Syncer {

	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Syncer{
		store:       store,
		log:         log,
		clock:       clock,
		concurrency: concurrency,
	}
}

// fetchState returns the remote manifest for the project. A project that has
// never been pushed has an empty manifest.
func (s *Syncer) fetchState(ctx context.Context, project string) (Manifest, error) {
	key := blobstore.StateKey(project)
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, errors.BlobNotFound) {
			return Manifest{}, nil
		}
		return nil, err
	}

	manifest, err := UnmarshalManifest(data)
	if err != nil {
		return nil, errors.NewRemoteStoreError(key, err)
	}
	return manifest, nil
}

func (s *Syncer) putState(ctx context.Context, project string, manifest Manifest) error {
	data, err := manifest.Marshal()
	if err != nil {
		return errors.WithContext(err, "marshal manifest")
	}
	return s.store.Put(ctx, blobstore.StateKey(project), data)
}

// FetchHistory returns the project's history. It returns an error of kind
// HistoryNotFound if the project has never been pushed.
func (s *Syncer) FetchHistory(ctx context.Context, project string) (*history.History, error) {
	key := blobstore.HistoryKey(project)
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, errors.BlobNotFound) {
			return nil, errors.NewHistoryNotFound(project)
		}
		return nil, err
	}

	hist, err := history.Unmarshal(data)
	if err != nil {
		return nil, errors.NewRemoteStoreError(key, err)
	}
	return hist, nil
}

func (s *Syncer) putHistory(ctx context.Context, hist *history.History) error {
	data, err := hist.Marshal()
	if err != nil {
		return errors.WithContext(err, "marshal history")
	}
	return s.store.Put(ctx, blobstore.HistoryKey(hist.ProjectName()), data)
}
